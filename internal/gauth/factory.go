package gauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/opendsi/googoal/internal/config"
	"github.com/opendsi/googoal/internal/gauth/installed"
	"github.com/opendsi/googoal/internal/gauth/serviceaccount"
)

const (
	KindServiceAccount = "service_account"
	KindInstalled      = "installed"
	KindUnknown        = "unknown"
)

// FromConfig builds a provider from the oauth2_keyfile entry of cfg.
func FromConfig(cfg *config.Config, scopes ...string) (Provider, error) {
	keyfile, err := cfg.Keyfile()
	if err != nil {
		if errors.Is(err, config.ErrMissingKey) {
			return nil, fmt.Errorf("no keyfile entry provided in config file for OAuth 2.0 access, "+
				"see https://developers.google.com/identity/protocols/oauth2 to find out how to "+
				"generate the file and place an entry in %s", config.FileName)
		}
		return nil, err
	}
	return FromKeyfile(keyfile, scopes...)
}

// FromKeyfile builds a provider from the key file at path, picking the
// implementation by the file's JSON shape.
func FromKeyfile(path string, scopes ...string) (Provider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("keyfile %s not found, update its location in %s", path, config.FileName)
		}
		return nil, fmt.Errorf("read keyfile %s: %w", path, err)
	}
	switch KeyfileKind(raw) {
	case KindServiceAccount:
		return serviceaccount.New(raw, scopes...)
	case KindInstalled:
		return installed.New(raw, scopes, installed.DefaultTokenFile)
	default:
		return nil, fmt.Errorf("unrecognised keyfile format in %s", path)
	}
}

// KeyfileKind sniffs which credential flow a key file belongs to: a
// service account key carries "type": "service_account", client
// secrets for the installed flow carry an "installed" or "web" object.
func KeyfileKind(raw []byte) string {
	var peek struct {
		Type      string          `json:"type"`
		Installed json.RawMessage `json:"installed"`
		Web       json.RawMessage `json:"web"`
	}
	if err := json.Unmarshal(raw, &peek); err != nil {
		return KindUnknown
	}
	if peek.Type == "service_account" {
		return KindServiceAccount
	}
	if len(peek.Installed) > 0 || len(peek.Web) > 0 {
		return KindInstalled
	}
	return KindUnknown
}
