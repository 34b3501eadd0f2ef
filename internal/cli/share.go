package cli

import (
	"context"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/opendsi/googoal/internal/drive"
)

var (
	shareFileID  string
	shareEmails  []string
	shareRole    string
	shareNotify  bool
	shareMessage string
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Share a drive file",
	Long: `Grant people access to a drive file. The role is writer, reader or
owner; granting owner transfers ownership.

Examples:
  googoal share -f <file-id> -e alice@example.com
  googoal share -f <file-id> -e alice@example.com --role reader --notify
  googoal share list -f <file-id>
  googoal share revoke -f <file-id> -e alice@example.com`,
	RunE: runShare,
}

var shareListCmd = &cobra.Command{
	Use:   "list",
	Short: "List who a file is shared with",
	RunE:  runShareList,
}

var shareRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Withdraw someone's access to a file",
	RunE:  runShareRevoke,
}

var shareModifyCmd = &cobra.Command{
	Use:   "modify",
	Short: "Change someone's role on a file",
	RunE:  runShareModify,
}

func init() {
	shareCmd.PersistentFlags().StringVarP(&shareFileID, "file-id", "f", "", "Drive file id")
	shareCmd.MarkPersistentFlagRequired("file-id")
	shareCmd.Flags().StringArrayVarP(&shareEmails, "email", "e", nil, "Address to share with, one per flag")
	shareCmd.MarkFlagRequired("email")
	shareCmd.Flags().StringVar(&shareRole, "role", "writer", "Role to grant: writer, reader or owner")
	shareCmd.Flags().BoolVar(&shareNotify, "notify", false, "Send a notification email")
	shareCmd.Flags().StringVar(&shareMessage, "message", "", "Message for the notification email")
	shareRevokeCmd.Flags().StringArrayVarP(&shareEmails, "email", "e", nil, "Address to revoke, one per flag")
	shareRevokeCmd.MarkFlagRequired("email")
	shareModifyCmd.Flags().StringArrayVarP(&shareEmails, "email", "e", nil, "Address whose role changes, one per flag")
	shareModifyCmd.MarkFlagRequired("email")
	shareModifyCmd.Flags().StringVar(&shareRole, "role", "writer", "Role to grant: writer, reader or owner")
	shareCmd.AddCommand(shareListCmd)
	shareCmd.AddCommand(shareRevokeCmd)
	shareCmd.AddCommand(shareModifyCmd)
	rootCmd.AddCommand(shareCmd)
}

func driveClient(ctx context.Context) (*drive.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	p, err := newProvider(cfg, drive.DefaultScopes...)
	if err != nil {
		return nil, err
	}
	return newDrive(ctx, p)
}

func runShare(cmd *cobra.Command, _ []string) error {
	dc, err := driveClient(cmd.Context())
	if err != nil {
		return err
	}
	if err := dc.Share(cmd.Context(), shareFileID, shareRole, shareNotify, shareMessage, shareEmails...); err != nil {
		return err
	}
	cmd.Printf("shared %s with %d address(es) as %s\n", shareFileID, len(shareEmails), shareRole)
	return nil
}

func runShareList(cmd *cobra.Command, _ []string) error {
	dc, err := driveClient(cmd.Context())
	if err != nil {
		return err
	}
	perms, err := dc.ShareList(cmd.Context(), shareFileID)
	if err != nil {
		return err
	}
	tw := tablewriter.NewWriter(cmd.OutOrStdout())
	tw.SetHeader([]string{"Email", "Role", "ID"})
	for _, p := range perms {
		tw.Append([]string{p.Email, p.Role, p.ID})
	}
	tw.Render()
	return nil
}

func runShareRevoke(cmd *cobra.Command, _ []string) error {
	dc, err := driveClient(cmd.Context())
	if err != nil {
		return err
	}
	for _, email := range shareEmails {
		if err := dc.ShareDelete(cmd.Context(), shareFileID, email); err != nil {
			return err
		}
		cmd.Printf("revoked access for %s\n", email)
	}
	return nil
}

func runShareModify(cmd *cobra.Command, _ []string) error {
	dc, err := driveClient(cmd.Context())
	if err != nil {
		return err
	}
	for _, email := range shareEmails {
		if err := dc.ShareModify(cmd.Context(), shareFileID, email, shareRole); err != nil {
			return err
		}
		cmd.Printf("changed %s to %s\n", email, shareRole)
	}
	return nil
}
