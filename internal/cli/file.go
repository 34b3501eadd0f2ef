package cli

import (
	"github.com/spf13/cobra"
)

var fileID string

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Manage drive files",
}

var fileInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show a file's name, type and link",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dc, err := driveClient(cmd.Context())
		if err != nil {
			return err
		}
		f, err := dc.Get(cmd.Context(), fileID)
		if err != nil {
			return err
		}
		cmd.Printf("name: %s\ntype: %s\nlink: %s\n", f.Name, f.MimeType, f.URL)
		return nil
	},
}

var fileRenameCmd = &cobra.Command{
	Use:   "rename <name>",
	Short: "Rename a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dc, err := driveClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := dc.Rename(cmd.Context(), fileID, args[0]); err != nil {
			return err
		}
		cmd.Printf("renamed %s to %q\n", fileID, args[0])
		return nil
	},
}

var fileTrashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Move a file to the bin",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dc, err := driveClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := dc.Trash(cmd.Context(), fileID); err != nil {
			return err
		}
		cmd.Printf("trashed %s\n", fileID)
		return nil
	},
}

var fileUntrashCmd = &cobra.Command{
	Use:   "untrash",
	Short: "Take a file back out of the bin",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dc, err := driveClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := dc.Untrash(cmd.Context(), fileID); err != nil {
			return err
		}
		cmd.Printf("restored %s\n", fileID)
		return nil
	},
}

var fileRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Delete a file for good, skipping the bin",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dc, err := driveClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := dc.Delete(cmd.Context(), fileID); err != nil {
			return err
		}
		cmd.Printf("deleted %s\n", fileID)
		return nil
	},
}

var fileRevisionsCmd = &cobra.Command{
	Use:   "revisions",
	Short: "List when a file was revised",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dc, err := driveClient(cmd.Context())
		if err != nil {
			return err
		}
		revs, err := dc.Revisions(cmd.Context(), fileID)
		if err != nil {
			return err
		}
		for _, r := range revs {
			cmd.Printf("%s  %s\n", r.ModifiedTime, r.ID)
		}
		return nil
	},
}

func init() {
	fileCmd.PersistentFlags().StringVarP(&fileID, "file-id", "f", "", "Drive file id")
	fileCmd.MarkPersistentFlagRequired("file-id")
	fileCmd.AddCommand(fileInfoCmd)
	fileCmd.AddCommand(fileRenameCmd)
	fileCmd.AddCommand(fileTrashCmd)
	fileCmd.AddCommand(fileUntrashCmd)
	fileCmd.AddCommand(fileRmCmd)
	fileCmd.AddCommand(fileRevisionsCmd)
	rootCmd.AddCommand(fileCmd)
}
