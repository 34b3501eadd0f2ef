package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/opendsi/googoal/internal/analytics"
	"github.com/opendsi/googoal/internal/gauth/serviceaccount"
	"github.com/opendsi/googoal/internal/sheet"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Check credentials and run the sign-in flow if needed",
	Long: `Resolve the keyfile named in the config file and obtain an access
token with it.

A service account keyfile authenticates by itself. An OAuth client
keyfile opens a browser window for consent the first time; the token
is cached in a local token.json file and refreshed silently
afterwards. The token covers spreadsheets, drive and read-only
analytics, so later commands can reuse it.`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	scopes := append(append([]string{}, sheet.DefaultScopes...), analytics.DefaultScopes...)
	p, err := newProvider(cfg, scopes...)
	if err != nil {
		return err
	}
	ts, err := p.TokenSource(cmd.Context())
	if err != nil {
		return err
	}
	tok, err := ts.Token()
	if err != nil {
		return fmt.Errorf("obtain token: %w", err)
	}

	if keyfile, kerr := cfg.Keyfile(); kerr == nil {
		cmd.Printf("authenticated with the %s credentials from %s\n", p.Name(), keyfile)
	} else {
		cmd.Printf("authenticated with the %s credentials\n", p.Name())
	}
	if sa, ok := p.(*serviceaccount.Provider); ok {
		cmd.Printf("service account: %s\n", sa.Email())
	}
	if tok.Expiry.IsZero() {
		cmd.Println("token does not expire")
	} else {
		cmd.Printf("token valid until %s\n", tok.Expiry.Format(time.RFC3339))
	}
	return nil
}
