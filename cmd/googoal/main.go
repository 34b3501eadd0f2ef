package main

import (
	"github.com/joho/godotenv"

	"github.com/opendsi/googoal/internal/cli"
)

func main() {
	_ = godotenv.Load()

	cli.Execute()
}
