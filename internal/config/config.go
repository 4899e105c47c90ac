// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves doc2md settings once at process start. Sources, in
// increasing precedence: built-in defaults, the YAML config file, a .env
// file, the process environment, and command-line flags bound by the caller.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc2md/pkg/types"
)

// EnvPrefix prefixes every environment variable read by doc2md.
const EnvPrefix = "DOC2MD"

// Configuration keys.
const (
	KeyBaseURL   = "base_url"
	KeyTimeout   = "timeout"
	KeyUserAgent = "user_agent"
	KeyOutDir    = "out_dir"
	KeyTheme     = "theme"
	KeyLogLevel  = "log.level"
	KeyLogFormat = "log.format"
)

// legacyBaseURLEnv is accepted as an alias of DOC2MD_BASE_URL.
const legacyBaseURLEnv = "API_URL"

const (
	defaultTimeout   = 120 * time.Second
	defaultUserAgent = "doc2md/0.1"
)

// LoadDotEnv exports the variables in path into the process environment
// without overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Bind registers defaults and environment lookups on v.
func Bind(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, types.DefaultBaseURL)
	v.SetDefault(KeyTimeout, defaultTimeout)
	v.SetDefault(KeyUserAgent, defaultUserAgent)
	v.SetDefault(KeyOutDir, ".")
	v.SetDefault(KeyTheme, string(types.ThemeDark))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyBaseURL, EnvPrefix+"_BASE_URL", legacyBaseURLEnv)
}

// Resolve reads the effective configuration from v and validates it.
func Resolve(v *viper.Viper) (types.AppConfig, error) {
	baseURL := strings.TrimSpace(v.GetString(KeyBaseURL))
	if baseURL == "" {
		baseURL = types.DefaultBaseURL
	}
	if err := validateBaseURL(baseURL); err != nil {
		return types.AppConfig{}, err
	}

	theme := types.Theme(strings.ToLower(v.GetString(KeyTheme)))
	switch theme {
	case types.ThemeDark, types.ThemeLight, types.ThemePlain:
	default:
		return types.AppConfig{}, fmt.Errorf("unknown theme %q (want dark, light, or plain)", theme)
	}

	timeout := v.GetDuration(KeyTimeout)
	if timeout < 0 {
		return types.AppConfig{}, fmt.Errorf("timeout must not be negative, got %v", timeout)
	}

	return types.AppConfig{
		Service: types.ServiceConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: v.GetString(KeyUserAgent),
			},
			BaseURL: baseURL,
		},
		Export:       types.ExportConfig{OutDir: v.GetString(KeyOutDir)},
		Presentation: types.PresentationConfig{Theme: theme},
		Log: types.LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
	}, nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", raw)
	}
	return nil
}
