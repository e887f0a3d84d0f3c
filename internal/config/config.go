/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"sketchpad/internal/canvas"
	"sketchpad/internal/drawing"
	applog "sketchpad/internal/log"
	"sketchpad/internal/storage"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime. Changes made in the
// UI (pen, background) are session state and are never written back.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark"
}

type CanvasConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Background   string  `yaml:"background"`
	ZoomStep     float64 `yaml:"zoom_step"`
	HistoryDepth int     `yaml:"history_depth"` // 0 = unlimited
}

// PenConfig is the pen the first stroke of a session uses.
type PenConfig struct {
	Color     string  `yaml:"color"`
	Width     float64 `yaml:"width"`
	Cap       string  `yaml:"cap"`
	LineStyle string  `yaml:"line_style"`
}

type ExportConfig struct {
	Dir         string `yaml:"dir"`
	JPEGQuality int    `yaml:"jpeg_quality"`
	// Journal is the export journal database; empty means <config dir>/exports.sqlite, "off" disables it.
	Journal string `yaml:"journal"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Pen           PenConfig     `yaml:"pen"`
	Export        ExportConfig  `yaml:"export"`
	Logging       LoggingConfig `yaml:"logging"`
}

// ErrInvalidConfig marks a config file that failed to parse or validate. Load still
// returns a usable config (defaults plus env) alongside it.
var ErrInvalidConfig = errors.New("invalid config file")

//go:embed config.schema.json
var schemaJSON string

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Canvas: CanvasConfig{
			Width: canvas.DefaultSize.W, Height: canvas.DefaultSize.H,
			Background: drawing.White.Hex(), ZoomStep: canvas.DefaultZoomStep,
		},
		Pen:     PenConfig{Color: drawing.Black.Hex(), Width: 1, Cap: "round", LineStyle: "solid"},
		Export:  ExportConfig{JPEGQuality: 90},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvTelemetryOptIn = "SKP_TELEMETRY_OPT_IN"
	EnvTheme          = "SKP_THEME"
	EnvCanvasWidth    = "SKP_CANVAS_WIDTH"
	EnvCanvasHeight   = "SKP_CANVAS_HEIGHT"
	EnvBackground     = "SKP_BACKGROUND"
	EnvPenColor       = "SKP_PEN_COLOR"
	EnvPenWidth       = "SKP_PEN_WIDTH"
	EnvExportDir      = "SKP_EXPORT_DIR"
	EnvJournal        = "SKP_JOURNAL"
	EnvLogLevel       = applog.EnvLevel
	EnvLogFormat      = applog.EnvFormat
	EnvLogSource      = applog.EnvSource
	EnvLogFile        = applog.EnvFile
)

// envKeys maps dotted config keys to the env var overriding them.
var envKeys = map[string]string{
	"general.telemetry_opt_in": EnvTelemetryOptIn,
	"general.theme":            EnvTheme,
	"canvas.width":             EnvCanvasWidth,
	"canvas.height":            EnvCanvasHeight,
	"canvas.background":        EnvBackground,
	"pen.color":                EnvPenColor,
	"pen.width":                EnvPenWidth,
	"export.dir":               EnvExportDir,
	"export.journal":           EnvJournal,
	"logging.level":            EnvLogLevel,
	"logging.format":           EnvLogFormat,
	"logging.source":           EnvLogSource,
	"logging.file":             EnvLogFile,
}

// ConfigDir returns the per-user configuration directory.
func ConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Sketchpad")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Sketchpad")
	default:
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "sketchpad")
		} else if h := os.Getenv("HOME"); h != "" {
			base = filepath.Join(h, ".config", "sketchpad")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load for an explicit file. A missing file is not an error. A file that
// fails to parse or to validate is ignored and reported with ErrInvalidConfig.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	var fileErr error
	if data, err := os.ReadFile(path); err == nil {
		fileCfg, perr := parse(data)
		if perr != nil {
			fileErr = fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, perr)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		fileErr = fmt.Errorf("read config: %w", err)
	}
	applyEnvOverrides(&cfg)
	return cfg, fileErr
}

func parse(data []byte) (AppConfig, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return AppConfig{}, err
	}
	if doc != nil {
		if err := validate(doc); err != nil {
			return AppConfig{}, err
		}
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func validate(doc map[string]any) error {
	res, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Save writes the user config YAML.
func Save(cfg AppConfig) (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}
	return path, SaveTo(path, cfg)
}

func SaveTo(path string, cfg AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return storage.WriteFileAtomic(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.TrimSpace(src.General.Theme); v != "" {
		dst.General.Theme = v
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn

	if src.Canvas.Width > 0 {
		dst.Canvas.Width = src.Canvas.Width
	}
	if src.Canvas.Height > 0 {
		dst.Canvas.Height = src.Canvas.Height
	}
	if v := strings.TrimSpace(src.Canvas.Background); v != "" {
		dst.Canvas.Background = v
	}
	if src.Canvas.ZoomStep > 1 {
		dst.Canvas.ZoomStep = src.Canvas.ZoomStep
	}
	if src.Canvas.HistoryDepth > 0 {
		dst.Canvas.HistoryDepth = src.Canvas.HistoryDepth
	}

	if v := strings.TrimSpace(src.Pen.Color); v != "" {
		dst.Pen.Color = v
	}
	if src.Pen.Width > 0 {
		dst.Pen.Width = src.Pen.Width
	}
	if v := strings.TrimSpace(src.Pen.Cap); v != "" {
		dst.Pen.Cap = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Pen.LineStyle); v != "" {
		dst.Pen.LineStyle = strings.ToLower(v)
	}

	if v := strings.TrimSpace(src.Export.Dir); v != "" {
		dst.Export.Dir = v
	}
	if src.Export.JPEGQuality > 0 {
		dst.Export.JPEGQuality = src.Export.JPEGQuality
	}
	if v := strings.TrimSpace(src.Export.Journal); v != "" {
		dst.Export.Journal = v
	}

	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	dst.Logging.Source = src.Logging.Source
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

func envBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func applyEnvOverrides(cfg *AppConfig) {
	get := func(key string) string { return strings.TrimSpace(os.Getenv(envKeys[key])) }
	if v := get("general.telemetry_opt_in"); v != "" {
		cfg.General.TelemetryOptIn = envBool(v)
	}
	if v := get("general.theme"); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	if v := get("canvas.width"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Canvas.Width = n
		}
	}
	if v := get("canvas.height"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Canvas.Height = n
		}
	}
	if v := get("canvas.background"); v != "" {
		cfg.Canvas.Background = v
	}
	if v := get("pen.color"); v != "" {
		cfg.Pen.Color = v
	}
	if v := get("pen.width"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Pen.Width = f
		}
	}
	if v := get("export.dir"); v != "" {
		cfg.Export.Dir = v
	}
	if v := get("export.journal"); v != "" {
		cfg.Export.Journal = v
	}
	if v := get("logging.level"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := get("logging.format"); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := get("logging.source"); v != "" {
		cfg.Logging.Source = envBool(v)
	}
	if v := get("logging.file"); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}

// CanvasOptions converts the canvas and pen sections. Invalid values are reported
// and the corresponding default is used instead.
func (c AppConfig) CanvasOptions() (canvas.Options, error) {
	opts := canvas.DefaultOptions()
	var errs []error
	if c.Canvas.Width > 0 && c.Canvas.Height > 0 {
		opts.Size = drawing.Size{W: c.Canvas.Width, H: c.Canvas.Height}
	}
	if c.Canvas.ZoomStep > 1 {
		opts.ZoomStep = c.Canvas.ZoomStep
	}
	opts.HistoryDepth = c.Canvas.HistoryDepth
	if col, err := drawing.ParseColor(c.Canvas.Background); err == nil {
		opts.Background = col
	} else if c.Canvas.Background != "" {
		errs = append(errs, fmt.Errorf("canvas.background: %w", err))
	}
	if col, err := drawing.ParseColor(c.Pen.Color); err == nil {
		opts.Style.Color = col
	} else if c.Pen.Color != "" {
		errs = append(errs, fmt.Errorf("pen.color: %w", err))
	}
	if c.Pen.Width > 0 {
		opts.Style.Width = c.Pen.Width
	}
	if c.Pen.Cap != "" {
		if cs, err := drawing.ParseCapStyle(c.Pen.Cap); err == nil {
			opts.Style.Cap = cs
		} else {
			errs = append(errs, fmt.Errorf("pen.cap: %w", err))
		}
	}
	if c.Pen.LineStyle != "" {
		if ls, err := drawing.ParseLineStyle(c.Pen.LineStyle); err == nil {
			opts.Style.Line = ls
		} else {
			errs = append(errs, fmt.Errorf("pen.line_style: %w", err))
		}
	}
	return opts, errors.Join(errs...)
}

// LogOptions converts the logging section; SKP_LOG_* variables still win.
func (c AppConfig) LogOptions() applog.Options {
	return applog.OverrideFromEnv(applog.Options{
		Level: c.Logging.Level, Format: c.Logging.Format, AddSource: c.Logging.Source, File: c.Logging.File,
	})
}

// JournalPath resolves the export journal location, or "" when disabled.
func (c AppConfig) JournalPath() string {
	switch v := strings.TrimSpace(c.Export.Journal); {
	case strings.EqualFold(v, "off"):
		return ""
	case v != "":
		return v
	}
	dir, err := ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, storage.JournalFileName)
}
