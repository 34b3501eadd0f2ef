package cli

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/opendsi/googoal/internal/drive"
)

var (
	lsMime       string
	lsSheetsOnly bool
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List files on the drive",
	Long: `List the files the credentials can see on the drive, trashed ones
left out.

Examples:
  googoal ls
  googoal ls --sheets
  googoal ls --mime application/pdf`,
	RunE: runLs,
}

func init() {
	lsCmd.Flags().StringVar(&lsMime, "mime", "", "Only list files of this MIME type")
	lsCmd.Flags().BoolVar(&lsSheetsOnly, "sheets", false, "Only list spreadsheets")
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := newProvider(cfg, drive.DefaultScopes...)
	if err != nil {
		return err
	}
	dc, err := newDrive(cmd.Context(), p)
	if err != nil {
		return err
	}

	mime := lsMime
	if lsSheetsOnly {
		mime = drive.MimeSpreadsheet
	}
	var files []drive.File
	if mime != "" {
		files, err = dc.ListMime(cmd.Context(), mime)
	} else {
		files, err = dc.List(cmd.Context())
	}
	if err != nil {
		return err
	}
	if len(files) == 0 {
		cmd.Println("no files found")
		return nil
	}

	tw := tablewriter.NewWriter(cmd.OutOrStdout())
	tw.SetHeader([]string{"Name", "ID", "Type"})
	for _, f := range files {
		tw.Append([]string{f.Name, f.ID, f.MimeType})
	}
	tw.Render()
	return nil
}
