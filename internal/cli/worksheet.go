package cli

import (
	"context"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/opendsi/googoal/internal/sheet"
)

var (
	worksheetSpreadsheetID string
	worksheetAddRows       int64
	worksheetAddCols       int64
)

var worksheetCmd = &cobra.Command{
	Use:   "worksheet",
	Short: "Manage the worksheets inside a spreadsheet",
}

var worksheetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the worksheets",
	RunE:  runWorksheetList,
}

var worksheetAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a worksheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorksheetAdd,
}

var worksheetDelCmd = &cobra.Command{
	Use:   "del <title>",
	Short: "Delete a worksheet and everything on it",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorksheetDel,
}

func init() {
	worksheetCmd.PersistentFlags().StringVarP(&worksheetSpreadsheetID, "spreadsheet-id", "s", "",
		"Spreadsheet id, the long token in the sheet's URL")
	worksheetCmd.MarkPersistentFlagRequired("spreadsheet-id")
	worksheetAddCmd.Flags().Int64Var(&worksheetAddRows, "rows", 0, "Grid height of the new worksheet")
	worksheetAddCmd.Flags().Int64Var(&worksheetAddCols, "cols", 0, "Grid width of the new worksheet")
	worksheetCmd.AddCommand(worksheetListCmd)
	worksheetCmd.AddCommand(worksheetAddCmd)
	worksheetCmd.AddCommand(worksheetDelCmd)
	rootCmd.AddCommand(worksheetCmd)
}

func worksheetClient(ctx context.Context) (*sheet.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	p, err := newProvider(cfg, sheet.DefaultScopes...)
	if err != nil {
		return nil, err
	}
	return openSheet(ctx, p, worksheetSpreadsheetID, sheet.Options{})
}

func runWorksheetList(cmd *cobra.Command, _ []string) error {
	c, err := worksheetClient(cmd.Context())
	if err != nil {
		return err
	}
	sheets, err := c.Worksheets(cmd.Context())
	if err != nil {
		return err
	}
	tw := tablewriter.NewWriter(cmd.OutOrStdout())
	tw.SetHeader([]string{"Title", "ID", "Position"})
	for _, s := range sheets {
		tw.Append([]string{s.Title, strconv.FormatInt(s.ID, 10), strconv.FormatInt(s.Index, 10)})
	}
	tw.Render()
	return nil
}

func runWorksheetAdd(cmd *cobra.Command, args []string) error {
	c, err := worksheetClient(cmd.Context())
	if err != nil {
		return err
	}
	if err := c.AddWorksheet(cmd.Context(), args[0], worksheetAddRows, worksheetAddCols); err != nil {
		return err
	}
	cmd.Printf("added worksheet %q\n", args[0])
	return nil
}

func runWorksheetDel(cmd *cobra.Command, args []string) error {
	c, err := worksheetClient(cmd.Context())
	if err != nil {
		return err
	}
	if err := c.DeleteWorksheet(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("deleted worksheet %q\n", args[0])
	return nil
}
