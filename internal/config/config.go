package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// DefaultTheme is the book theme used when none is requested.
	// Unknown names resolve to the built-in default at render time.
	DefaultTheme string `json:"default_theme,omitempty"`

	// CoverSource is where the pre-made cover PDF lives: a file path or an
	// http(s) URL. Empty means <baseDir>/covers/cover.pdf. A missing or
	// unreachable cover never fails an export.
	CoverSource string `json:"cover_source,omitempty"`

	// LogoPath is the PNG drawn on the generated cover page.
	// Empty means <baseDir>/assets/logo.png. Missing files degrade to
	// blank space.
	LogoPath string `json:"logo_path,omitempty"`

	// ExportDir is where exported books are written.
	// Empty means <baseDir>/exports.
	ExportDir string `json:"export_dir,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is
	// locked" errors). 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultTheme: "minimal",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of
// ~/.growthbook.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and
// deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.DefaultTheme = overlay.DefaultTheme
	if result.DefaultTheme == "" {
		result.DefaultTheme = base.DefaultTheme
	}

	result.CoverSource = overlay.CoverSource
	if result.CoverSource == "" {
		result.CoverSource = base.CoverSource
	}

	result.LogoPath = overlay.LogoPath
	if result.LogoPath == "" {
		result.LogoPath = base.LogoPath
	}

	result.ExportDir = overlay.ExportDir
	if result.ExportDir == "" {
		result.ExportDir = base.ExportDir
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// ResolveCoverSource returns the configured cover location, defaulting to
// baseDir/covers/cover.pdf.
func (c *Config) ResolveCoverSource(baseDir string) string {
	if c.CoverSource != "" {
		return c.CoverSource
	}
	return filepath.Join(baseDir, "covers", "cover.pdf")
}

// ResolveLogoPath returns the configured logo path, defaulting to
// baseDir/assets/logo.png.
func (c *Config) ResolveLogoPath(baseDir string) string {
	if c.LogoPath != "" {
		return c.LogoPath
	}
	return filepath.Join(baseDir, "assets", "logo.png")
}

// ResolveExportDir returns the configured export directory, defaulting to
// baseDir/exports.
func (c *Config) ResolveExportDir(baseDir string) string {
	if c.ExportDir != "" {
		return c.ExportDir
	}
	return filepath.Join(baseDir, "exports")
}

// mergeStringSlice combines two slices, trims whitespace, and removes
// duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
