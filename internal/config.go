package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Vault   VaultConfig       `yaml:"vault"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
	Granola GranolaConfig     `yaml:"granola"`
	NameMap NameMapConfig     `yaml:"name_map"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Granola.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig holds the paths of the Markdown vault.
type VaultConfig struct {
	Path string `yaml:"path"`
	// OutputFolder is the vault-relative folder synced notes go into.
	OutputFolder string `yaml:"output_folder"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.OutputFolder, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds API authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// GranolaConfig holds the Granola API connection settings.
type GranolaConfig struct {
	APIURL string `yaml:"api_url"`
	// Token is the Granola bearer token. Usually set via ${GRANOLA_TOKEN}.
	Token string `yaml:"token"`
	// CompanyName links each note's org frontmatter field.
	CompanyName string `yaml:"company_name"`
	// UsePipeAliases renders people as [[Name|email]] instead of [[email]].
	UsePipeAliases bool `yaml:"use_pipe_aliases"`
	// PageLimit is the number of documents requested per fetch.
	PageLimit int `yaml:"page_limit"`
	// SyncInterval is the number of minutes between automatic sync
	// passes. Zero disables the background ticker.
	SyncIntervalMinutes int `yaml:"sync_interval_minutes"`
}

// Validate validates the Granola configuration.
func (c *GranolaConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PageLimit, validation.Min(0), validation.Max(1000)),
		validation.Field(&c.SyncIntervalMinutes, validation.Min(0)),
	)
}

// NameMapConfig locates the optional email-to-name CSV mapping.
type NameMapConfig struct {
	Path string `yaml:"path"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path:         "./vault",
			OutputFolder: "Granola",
		},
		SQLite: SQLiteConfig{
			Path: "./mannaz.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Granola: GranolaConfig{
			UsePipeAliases:      true,
			PageLimit:           200,
			SyncIntervalMinutes: 30,
		},
	}
}
