// Package cli wires the googoal commands. Commands resolve
// credentials through the config file, talk to the Google APIs and
// print frames as tables or CSV.
package cli

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opendsi/googoal/internal/analytics"
	"github.com/opendsi/googoal/internal/config"
	"github.com/opendsi/googoal/internal/drive"
	"github.com/opendsi/googoal/internal/frame"
	"github.com/opendsi/googoal/internal/gauth"
	"github.com/opendsi/googoal/internal/sheet"
	"github.com/opendsi/googoal/internal/util"
)

// Global flags.
var (
	cfgPath  string
	logLevel string
)

// Seams the tests swap for offline fakes.
var (
	loadConfig = func() (*config.Config, error) {
		if cfgPath != "" {
			return config.Load(cfgPath)
		}
		return config.LoadDefault()
	}
	newProvider = func(cfg *config.Config, scopes ...string) (gauth.Provider, error) {
		return gauth.FromConfig(cfg, scopes...)
	}
	openSheet    = sheet.Open
	createSheet  = sheet.Create
	newDrive     = drive.NewClient
	newAnalytics = analytics.NewClient
)

var rootCmd = &cobra.Command{
	Use:   "googoal",
	Short: "Google spreadsheets, drive and analytics from the command line",
	Long: `googoal moves tabular data in and out of Google spreadsheets and
manages the drive files around them.

Credentials come from a keyfile named in ` + config.FileName + `, looked up in
the working directory, then in your home directory. A service account
keyfile logs in by itself; an OAuth client keyfile opens a browser
window the first time and caches the token in a local token.json file.

Examples:
  # List your spreadsheets
  googoal ls --sheets

  # Pull a sheet into a CSV file
  googoal read -s 1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms --csv out.csv

  # Reconcile a sheet with a CSV file
  googoal update -s 1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms --csv in.csv`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgPath, "config", "", "Path to the config file (default: search "+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configureLogging applies the config file's logging section, with the
// --log-level flag taking precedence. Commands that run without any
// config file keep the defaults.
func configureLogging() {
	var fileLevel, fileName string
	if cfg, err := loadConfig(); err == nil {
		fileLevel = cfg.Logging.Level
		fileName = cfg.Logging.Filename
	}
	level := logLevel
	if level == "" {
		level = fileLevel
	}
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			log.Warnf("unknown log level %q, keeping %s", level, log.GetLevel())
		} else {
			log.SetLevel(parsed)
		}
	}
	if fileName != "" {
		path := util.ExpandPath(fileName)
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Warnf("cannot open log file %s: %v", path, err)
		} else {
			log.SetOutput(f)
		}
	}
}

// writeFrame prints a frame as a terminal table, or as CSV when a
// path is given. "-" sends CSV to stdout.
func writeFrame(cmd *cobra.Command, f *frame.Frame, csvPath string) error {
	switch csvPath {
	case "":
		cmd.Print(f.String())
		return nil
	case "-":
		return f.WriteCSV(cmd.OutOrStdout())
	}
	out, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", csvPath, err)
	}
	if err := f.WriteCSV(out); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", csvPath, err)
	}
	return out.Close()
}
