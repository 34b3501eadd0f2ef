package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opendsi/googoal/internal/util"
)

// FileName is the conventional name of the user configuration file,
// looked up in the working directory and then in the home directory.
const FileName = "_googoal.yml"

// EnvConfigPath, when set, overrides the default search locations.
const EnvConfigPath = "GOOGOAL_CONFIG"

var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrConfigMalformed = errors.New("config file malformed")
	ErrMissingKey      = errors.New("config key missing")
)

type Config struct {
	Google  Google  `yaml:"google"`
	Logging Logging `yaml:"logging"`

	// OAuth2Keyfile is the flat, top-level form written by older
	// configs. The nested google section wins when both are set.
	OAuth2Keyfile string `yaml:"oauth2_keyfile"`

	path string
}

type Google struct {
	OAuth2Keyfile  string `yaml:"oauth2_keyfile"`
	AnalyticsTable string `yaml:"analytics_table"`
}

type Logging struct {
	Level    string `yaml:"level"`
	Filename string `yaml:"filename"`
}

// Load reads and parses the configuration file at path. It fails with
// ErrConfigNotFound when the file is absent and ErrConfigMalformed
// when it is not valid YAML.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigMalformed, path, err)
	}
	c.path = path
	return &c, nil
}

// LoadDefault loads the file named by GOOGOAL_CONFIG when that is set,
// and otherwise looks for _googoal.yml in the working directory and
// then in the user's home directory. The first file found wins; later
// locations are not merged in.
func LoadDefault() (*Config, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return Load(util.ExpandPath(p))
	}
	paths := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, FileName))
	}
	for _, p := range paths {
		c, err := Load(p)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrConfigNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

// Path reports the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Keyfile returns the OAuth2 key file path with environment variables
// and a leading ~ expanded. No other transformation is applied.
func (c *Config) Keyfile() (string, error) {
	raw := c.Google.OAuth2Keyfile
	if raw == "" {
		raw = c.OAuth2Keyfile
	}
	if raw == "" {
		return "", fmt.Errorf("%w: oauth2_keyfile in %s", ErrMissingKey, c.pathForErr())
	}
	return util.ExpandPath(raw), nil
}

// AnalyticsTable returns the analytics view ("table") id, found on the
// Admin:View page of the analytics console.
func (c *Config) AnalyticsTable() (string, error) {
	if c.Google.AnalyticsTable == "" {
		return "", fmt.Errorf("%w: google.analytics_table in %s", ErrMissingKey, c.pathForErr())
	}
	return util.ExpandPath(c.Google.AnalyticsTable), nil
}

func (c *Config) pathForErr() string {
	if c.path == "" {
		return FileName
	}
	return c.path
}
