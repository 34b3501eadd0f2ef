package cli

import (
	"github.com/spf13/cobra"

	"github.com/opendsi/googoal/internal/sheet"
)

var (
	createTitle     string
	createSheetName string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new spreadsheet",
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createTitle, "title", "t", "", "Name of the new spreadsheet")
	createCmd.Flags().StringVarP(&createSheetName, "sheet-name", "n", "", "Worksheet to create inside it")
	createCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := newProvider(cfg, sheet.DefaultScopes...)
	if err != nil {
		return err
	}
	c, err := createSheet(cmd.Context(), p, createTitle, sheet.Options{Worksheet: createSheetName})
	if err != nil {
		return err
	}
	cmd.Printf("created %s\n%s\n", c.SpreadsheetID(), c.URL())
	return nil
}
