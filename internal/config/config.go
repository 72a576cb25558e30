// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for folio.
//
// Configuration file locations (in order of precedence):
//   - --config PATH
//   - ~/.folio/config.toml
//   - ~/.folio/config.json
//   - Built-in defaults
package config

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/folio-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete folio configuration.
type Config struct {
	Site      SiteConfig      `toml:"site" json:"site"`
	Carousel  CarouselConfig  `toml:"carousel" json:"carousel"`
	Chat      ChatConfig      `toml:"chat" json:"chat"`
	Voice     VoiceConfig     `toml:"voice" json:"voice"`
	Analytics AnalyticsConfig `toml:"analytics" json:"analytics"`
	S3        S3Config        `toml:"s3" json:"s3"`
	UI        UIConfig        `toml:"ui" json:"ui"`
	Log       LogConfig       `toml:"log" json:"log"`
}

// SiteConfig locates the portfolio backend.
type SiteConfig struct {
	// BaseURL is the site origin, e.g. https://folio.dev
	BaseURL       string   `toml:"base_url" json:"base_url"`
	ChatPath      string   `toml:"chat_path" json:"chat_path"`
	ContactPath   string   `toml:"contact_path" json:"contact_path"`
	AnalyticsPath string   `toml:"analytics_path" json:"analytics_path"`
	ContactEmail  string   `toml:"contact_email" json:"contact_email"`
	Timeout       Duration `toml:"timeout" json:"timeout"`
}

// CarouselConfig describes the reel and its timings.
type CarouselConfig struct {
	// Manifest is an optional YAML file listing items. Inline items win
	// when both are set.
	Manifest string       `toml:"manifest" json:"manifest"`
	Items    []ItemConfig `toml:"items" json:"items"`
	// CacheDir holds prefetched remote clips.
	CacheDir         string   `toml:"cache_dir" json:"cache_dir"`
	AutoplayInterval Duration `toml:"autoplay_interval" json:"autoplay_interval"`
	SettleDelay      Duration `toml:"settle_delay" json:"settle_delay"`
	ReadyTimeout     Duration `toml:"ready_timeout" json:"ready_timeout"`
	LoadTimeout      Duration `toml:"load_timeout" json:"load_timeout"`
}

// ItemConfig is one reel entry.
type ItemConfig struct {
	Title   string `toml:"title" json:"title"`
	Caption string `toml:"caption" json:"caption"`
	Src     string `toml:"src" json:"src"`
}

// ChatConfig configures the assistant panel.
type ChatConfig struct {
	MaxHistory   int      `toml:"max_history" json:"max_history"`
	QuickReplies []string `toml:"quick_replies" json:"quick_replies"`
	// Record keeps a local transcript of every exchange.
	Record bool `toml:"record" json:"record"`
	// Resume seeds the history buffer from the newest recorded turns.
	Resume         bool     `toml:"resume" json:"resume"`
	TranscriptPath string   `toml:"transcript_path" json:"transcript_path"`
	NotifyDuration Duration `toml:"notify_duration" json:"notify_duration"`
	ExportDir      string   `toml:"export_dir" json:"export_dir"`
	ExportFormat   string   `toml:"export_format" json:"export_format"`
}

// VoiceConfig configures the speech-to-text command.
type VoiceConfig struct {
	Enabled  bool     `toml:"enabled" json:"enabled"`
	Command  string   `toml:"command" json:"command"`
	Args     []string `toml:"args" json:"args"`
	Language string   `toml:"language" json:"language"`
}

// AnalyticsConfig configures the telemetry sink.
type AnalyticsConfig struct {
	Enabled bool     `toml:"enabled" json:"enabled"`
	Rate    float64  `toml:"rate" json:"rate"`
	Burst   int      `toml:"burst" json:"burst"`
	Timeout Duration `toml:"timeout" json:"timeout"`
}

// S3Config configures access to s3:// media sources.
type S3Config struct {
	Region          string `toml:"region" json:"region"`
	Endpoint        string `toml:"endpoint" json:"endpoint"`
	AccessKeyID     string `toml:"access_key_id" json:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key" json:"secret_access_key"`
	PathStyle       bool   `toml:"path_style" json:"path_style"`
}

// UIConfig contains terminal surface settings.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme         string   `toml:"theme" json:"theme"`
	AltScreen     bool     `toml:"alt_screen" json:"alt_screen"`
	ToastDuration Duration `toml:"toast_duration" json:"toast_duration"`
	// StatusHideAfter is how long the contact form status stays visible.
	StatusHideAfter Duration `toml:"status_hide_after" json:"status_hide_after"`
}

// LogConfig configures the file logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level  string `toml:"level" json:"level"`
	Format string `toml:"format" json:"format"`
	// Path is the log file; empty means ~/.folio/folio.log.
	Path string `toml:"path" json:"path"`
}

// =============================================================================
// DURATION
// =============================================================================

// Duration is a time.Duration written as a string ("25s") in config files.
type Duration time.Duration

// D returns the value as a time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Bare integers are
// read as milliseconds.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL:       "http://127.0.0.1:5000",
			ChatPath:      "/api/ai-chat",
			ContactPath:   "/api/contact",
			AnalyticsPath: "/api/analytics",
			ContactEmail:  "hello@folio.dev",
			Timeout:       Duration(30 * time.Second),
		},
		Carousel: CarouselConfig{
			AutoplayInterval: Duration(25 * time.Second),
			SettleDelay:      Duration(1 * time.Second),
			ReadyTimeout:     Duration(2 * time.Second),
			LoadTimeout:      Duration(30 * time.Second),
		},
		Chat: ChatConfig{
			MaxHistory:     6,
			Resume:         false,
			NotifyDuration: Duration(3 * time.Second),
			ExportDir:      ".",
			ExportFormat:   "html",
		},
		Voice: VoiceConfig{
			Enabled:  true,
			Language: "en-US",
		},
		Analytics: AnalyticsConfig{
			Enabled: true,
			Rate:    2,
			Burst:   10,
			Timeout: Duration(5 * time.Second),
		},
		S3: S3Config{
			Region: "us-east-1",
		},
		UI: UIConfig{
			Theme:           "auto",
			AltScreen:       true,
			ToastDuration:   Duration(3 * time.Second),
			StatusHideAfter: Duration(5 * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the folio configuration directory. FOLIO_HOME
// overrides the default ~/.folio.
func ConfigDir() (string, error) {
	if dir := os.Getenv("FOLIO_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".folio"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ActivePath returns the config file Load would read, or "" when only
// defaults apply.
func ActivePath() string {
	for _, fn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		if p, err := fn(); err == nil {
			if _, statErr := os.Stat(p); statErr == nil {
				return p
			}
		}
	}
	return ""
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads .env from the working directory and the config
// directory. Variables already set in the environment win. Missing files
// are ignored.
func LoadDotEnv() {
	files := []string{".env"}
	if dir, err := ConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, ".env"))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	LoadDotEnv()

	if path := ActivePath(); path != "" {
		return LoadFromPath(path)
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file with full
// validation. Keys missing from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.resolvePaths(filepath.Dir(path)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolvePaths makes a relative manifest path relative to the config file.
func (c *Config) resolvePaths(base string) error {
	if c.Carousel.Manifest != "" && !filepath.IsAbs(c.Carousel.Manifest) {
		c.Carousel.Manifest = filepath.Join(base, c.Carousel.Manifest)
	}
	return nil
}

// SetDefaults fills zero values that would leave a component unusable.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Site.BaseURL == "" {
		c.Site.BaseURL = d.Site.BaseURL
	}
	if c.Site.ChatPath == "" {
		c.Site.ChatPath = d.Site.ChatPath
	}
	if c.Site.ContactPath == "" {
		c.Site.ContactPath = d.Site.ContactPath
	}
	if c.Site.AnalyticsPath == "" {
		c.Site.AnalyticsPath = d.Site.AnalyticsPath
	}
	if c.Site.ContactEmail == "" {
		c.Site.ContactEmail = d.Site.ContactEmail
	}
	if c.Site.Timeout == 0 {
		c.Site.Timeout = d.Site.Timeout
	}

	if c.Carousel.AutoplayInterval == 0 {
		c.Carousel.AutoplayInterval = d.Carousel.AutoplayInterval
	}
	if c.Carousel.SettleDelay == 0 {
		c.Carousel.SettleDelay = d.Carousel.SettleDelay
	}
	if c.Carousel.ReadyTimeout == 0 {
		c.Carousel.ReadyTimeout = d.Carousel.ReadyTimeout
	}
	if c.Carousel.LoadTimeout == 0 {
		c.Carousel.LoadTimeout = d.Carousel.LoadTimeout
	}
	if c.Carousel.CacheDir == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Carousel.CacheDir = filepath.Join(dir, "cache")
		}
	}

	if c.Chat.MaxHistory == 0 {
		c.Chat.MaxHistory = d.Chat.MaxHistory
	}
	if c.Chat.NotifyDuration == 0 {
		c.Chat.NotifyDuration = d.Chat.NotifyDuration
	}
	if c.Chat.TranscriptPath == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Chat.TranscriptPath = filepath.Join(dir, "transcripts.db")
		}
	}
	if c.Chat.ExportFormat == "" {
		c.Chat.ExportFormat = d.Chat.ExportFormat
	}
	if c.Chat.ExportDir == "" {
		c.Chat.ExportDir = d.Chat.ExportDir
	}

	if c.Voice.Language == "" {
		c.Voice.Language = d.Voice.Language
	}

	if c.Analytics.Rate == 0 {
		c.Analytics.Rate = d.Analytics.Rate
	}
	if c.Analytics.Burst == 0 {
		c.Analytics.Burst = d.Analytics.Burst
	}
	if c.Analytics.Timeout == 0 {
		c.Analytics.Timeout = d.Analytics.Timeout
	}

	if c.S3.Region == "" {
		c.S3.Region = d.S3.Region
	}

	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.ToastDuration == 0 {
		c.UI.ToastDuration = d.UI.ToastDuration
	}
	if c.UI.StatusHideAfter == 0 {
		c.UI.StatusHideAfter = d.UI.StatusHideAfter
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Log.Path == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Log.Path = filepath.Join(dir, "folio.log")
		}
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg as TOML. The file is 0600 since it may hold S3 keys.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# folio configuration file\n")
	sb.WriteString("# Durations are strings such as \"25s\" or \"1m\".\n\n")
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes cfg as indented JSON.
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if u, err := url.Parse(c.Site.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("site.base_url", "must be an http(s) URL")
	}
	for field, p := range map[string]string{
		"site.chat_path":      c.Site.ChatPath,
		"site.contact_path":   c.Site.ContactPath,
		"site.analytics_path": c.Site.AnalyticsPath,
	} {
		if !strings.HasPrefix(p, "/") {
			add(field, "must start with /")
		}
	}
	if !strings.Contains(c.Site.ContactEmail, "@") {
		add("site.contact_email", "must be an email address")
	}
	if c.Site.Timeout < 0 {
		add("site.timeout", "must not be negative")
	}

	if c.Carousel.AutoplayInterval.D() < time.Second {
		add("carousel.autoplay_interval", "must be at least 1s")
	}
	if c.Carousel.SettleDelay < 0 {
		add("carousel.settle_delay", "must not be negative")
	}
	if c.Carousel.ReadyTimeout <= 0 {
		add("carousel.ready_timeout", "must be positive")
	}
	for i, it := range c.Carousel.Items {
		if strings.TrimSpace(it.Src) == "" {
			add(fmt.Sprintf("carousel.items[%d].src", i), "is required")
		}
	}

	if c.Chat.MaxHistory < 1 || c.Chat.MaxHistory > 100 {
		add("chat.max_history", "must be between 1 and 100")
	}
	switch strings.ToLower(c.Chat.ExportFormat) {
	case "html", "htm", "markdown", "md", "json":
	default:
		add("chat.export_format", "must be html, markdown or json")
	}

	if c.Analytics.Rate < 0 {
		add("analytics.rate", "must not be negative")
	}
	if c.Analytics.Burst < 0 {
		add("analytics.burst", "must not be negative")
	}

	if c.S3.Endpoint != "" {
		if u, err := url.Parse(c.S3.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			add("s3.endpoint", "must be a URL")
		}
	}
	if (c.S3.AccessKeyID == "") != (c.S3.SecretAccessKey == "") {
		add("s3.secret_access_key", "access key id and secret must be set together")
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		add("ui.theme", "must be auto, dark or light")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log.level", "must be debug, info, warn or error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		add("log.format", "must be text or json")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - FOLIO_BASE_URL: overrides site.base_url
//   - FOLIO_CONTACT_EMAIL: overrides site.contact_email
//   - FOLIO_MANIFEST: overrides carousel.manifest
//   - FOLIO_AUTOPLAY_INTERVAL: overrides carousel.autoplay_interval
//   - FOLIO_VOICE_COMMAND / FOLIO_VOICE_LANG: override voice.command / voice.language
//   - FOLIO_ANALYTICS: "0" or "false" disables analytics
//   - FOLIO_S3_ENDPOINT / FOLIO_S3_REGION: override s3.endpoint / s3.region
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY: fill s3 keys when unset
//   - FOLIO_THEME: overrides ui.theme
//   - FOLIO_LOG_LEVEL: overrides log.level
//   - FOLIO_DEBUG: "1" or "true" forces log.level=debug
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("FOLIO_BASE_URL"); v != "" {
		c.Site.BaseURL = v
	}
	if v := os.Getenv("FOLIO_CONTACT_EMAIL"); v != "" {
		c.Site.ContactEmail = v
	}
	if v := os.Getenv("FOLIO_MANIFEST"); v != "" {
		c.Carousel.Manifest = v
	}
	if v := os.Getenv("FOLIO_AUTOPLAY_INTERVAL"); v != "" {
		var d Duration
		if err := d.UnmarshalText([]byte(v)); err == nil {
			c.Carousel.AutoplayInterval = d
		}
	}
	if v := os.Getenv("FOLIO_VOICE_COMMAND"); v != "" {
		c.Voice.Command = v
	}
	if v := os.Getenv("FOLIO_VOICE_LANG"); v != "" {
		c.Voice.Language = v
	}
	if v := os.Getenv("FOLIO_ANALYTICS"); v != "" {
		c.Analytics.Enabled = parseBool(v)
	}
	if v := os.Getenv("FOLIO_S3_ENDPOINT"); v != "" {
		c.S3.Endpoint = v
	}
	if v := os.Getenv("FOLIO_S3_REGION"); v != "" {
		c.S3.Region = v
	}
	if c.S3.AccessKeyID == "" && c.S3.SecretAccessKey == "" {
		c.S3.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
		c.S3.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
	if v := os.Getenv("FOLIO_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("FOLIO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("FOLIO_DEBUG"); v != "" && parseBool(v) {
		c.Log.Level = "debug"
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes"
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "carousel.settle_delay").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		if u, ok := field.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(strVal))
		}
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				var items []string
				for _, s := range strings.Split(strVal, ",") {
					if s = strings.TrimSpace(s); s != "" {
						items = append(items, s)
					}
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Carousel.Items = append([]ItemConfig(nil), c.Carousel.Items...)
	clone.Chat.QuickReplies = append([]string(nil), c.Chat.QuickReplies...)
	clone.Voice.Args = append([]string(nil), c.Voice.Args...)
	return &clone
}

// String returns the config as TOML with secrets redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.S3.SecretAccessKey != "" {
		safe.S3.SecretAccessKey = "[REDACTED]"
	}
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(safe); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return sb.String()
}
