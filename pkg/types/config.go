package types

import "time"

// DefaultBaseURL is the conversion service address used when no base_url is
// configured.
const DefaultBaseURL = "https://mark-down-container.jollymeadow-0111d26b.westus2.azurecontainerapps.io"

// HTTPConfig holds shared HTTP settings used for requests to the conversion
// service.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero disables the client timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "doc2md/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ServiceConfig locates the remote conversion service.
type ServiceConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the service address; requests go to BaseURL + "/convert".
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
}

// ExportConfig holds settings for saving results.
type ExportConfig struct {
	// OutDir is the directory that receives exported .md files.
	OutDir string `json:"out_dir" yaml:"out_dir" mapstructure:"out_dir"`
}

// Theme names a presentation style.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
	ThemePlain Theme = "plain"
)

// PresentationConfig selects how workflow state is rendered.
type PresentationConfig struct {
	Theme Theme `json:"theme" yaml:"theme" mapstructure:"theme"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// AppConfig groups every setting resolved at process start.
type AppConfig struct {
	Service      ServiceConfig      `json:"service" yaml:"service"`
	Export       ExportConfig       `json:"export" yaml:"export"`
	Presentation PresentationConfig `json:"presentation" yaml:"presentation"`
	Log          LogConfig          `json:"log" yaml:"log"`
}
