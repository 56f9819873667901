/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"paperfold/internal/export"
	applog "paperfold/internal/log"
	"paperfold/internal/proximity"
	"paperfold/internal/sketch"
	"paperfold/internal/vector"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Offset float64 `yaml:"offset"` // inset of the boundary rectangle
}

type SnapConfig struct {
	Threshold  float64 `yaml:"threshold"`
	CoarseStep float64 `yaml:"coarse_step"`
	Precision  float64 `yaml:"precision"`
	Pick       string  `yaml:"pick"` // "first" | "nearest"
}

type ExportConfig struct {
	StrokeWidth     float64 `yaml:"stroke_width"`
	IndicatorRadius float64 `yaml:"indicator_radius"`
	DPI             float64 `yaml:"dpi"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Snap          SnapConfig    `yaml:"snap"`
	Export        ExportConfig  `yaml:"export"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Canvas:        CanvasConfig{Width: 800, Height: 600, Offset: 10},
		Snap: SnapConfig{
			Threshold:  proximity.DefaultThreshold,
			CoarseStep: proximity.DefaultCoarseStep,
			Precision:  proximity.DefaultPrecision,
			Pick:       proximity.PickFirst.String(),
		},
		Export:  ExportConfig{StrokeWidth: 1, IndicatorRadius: 4, DPI: 72},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvSnapThreshold  = "PF_SNAP_THRESHOLD"
	EnvSnapCoarseStep = "PF_SNAP_COARSE_STEP"
	EnvSnapPrecision  = "PF_SNAP_PRECISION"
	EnvSnapPick       = "PF_SNAP_PICK"
	EnvCanvasWidth    = "PF_CANVAS_WIDTH"
	EnvCanvasHeight   = "PF_CANVAS_HEIGHT"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "PF_LOG_LEVEL"
	EnvLogFormat = "PF_LOG_FORMAT"
	EnvLogSource = "PF_LOG_SOURCE"
	EnvLogFile   = "PF_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Paperfold")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Paperfold")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "paperfold")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present) and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit path. A missing file yields the defaults;
// a file that fails schema validation is an error.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := Validate(data); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
		var fileCfg AppConfig
		// decoded over the default so an explicit zero offset is kept
		fileCfg.Canvas.Offset = cfg.Canvas.Offset
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the config YAML to path, or to ConfigPath when path is empty.
func Save(cfg AppConfig, path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Canvas.Width > 0 {
		dst.Canvas.Width = src.Canvas.Width
	}
	if src.Canvas.Height > 0 {
		dst.Canvas.Height = src.Canvas.Height
	}
	dst.Canvas.Offset = src.Canvas.Offset
	// a zero or negative threshold is meaningful: nothing ever snaps
	if src.Snap.Threshold != 0 {
		dst.Snap.Threshold = src.Snap.Threshold
	}
	if src.Snap.CoarseStep > 0 {
		dst.Snap.CoarseStep = src.Snap.CoarseStep
	}
	if src.Snap.Precision > 0 {
		dst.Snap.Precision = src.Snap.Precision
	}
	if strings.TrimSpace(src.Snap.Pick) != "" {
		dst.Snap.Pick = strings.ToLower(strings.TrimSpace(src.Snap.Pick))
	}
	if src.Export.StrokeWidth > 0 {
		dst.Export.StrokeWidth = src.Export.StrokeWidth
	}
	if src.Export.IndicatorRadius > 0 {
		dst.Export.IndicatorRadius = src.Export.IndicatorRadius
	}
	if src.Export.DPI > 0 {
		dst.Export.DPI = src.Export.DPI
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func envFloat(key string, dst *float64) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && finite(f) {
			*dst = f
		}
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	envFloat(EnvSnapThreshold, &cfg.Snap.Threshold)
	envFloat(EnvSnapCoarseStep, &cfg.Snap.CoarseStep)
	envFloat(EnvSnapPrecision, &cfg.Snap.Precision)
	envFloat(EnvCanvasWidth, &cfg.Canvas.Width)
	envFloat(EnvCanvasHeight, &cfg.Canvas.Height)
	if v := strings.TrimSpace(os.Getenv(EnvSnapPick)); v != "" {
		cfg.Snap.Pick = strings.ToLower(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envKeys = map[string]string{
	"snap.threshold":   EnvSnapThreshold,
	"snap.coarse_step": EnvSnapCoarseStep,
	"snap.precision":   EnvSnapPrecision,
	"snap.pick":        EnvSnapPick,
	"canvas.width":     EnvCanvasWidth,
	"canvas.height":    EnvCanvasHeight,
	"logging.level":    EnvLogLevel,
	"logging.format":   EnvLogFormat,
	"logging.source":   EnvLogSource,
	"logging.file":     EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

// SessionOptions converts the canvas and snap sections into sketch options.
// Non-positive or non-finite search steps fall back to the defaults.
func (c AppConfig) SessionOptions() (sketch.Options, error) {
	opts := sketch.DefaultOptions()
	if c.Canvas.Width > 0 && c.Canvas.Height > 0 {
		opts.Canvas = vector.Size{W: c.Canvas.Width, H: c.Canvas.Height}
	}
	opts.Offset = c.Canvas.Offset
	opts.Threshold = c.Snap.Threshold
	if finite(c.Snap.CoarseStep) && c.Snap.CoarseStep > 0 {
		opts.Search.CoarseStep = c.Snap.CoarseStep
	}
	if finite(c.Snap.Precision) && c.Snap.Precision > 0 {
		opts.Search.Precision = c.Snap.Precision
	}
	pick, err := proximity.ParsePick(c.Snap.Pick)
	if err != nil {
		return opts, fmt.Errorf("snap.pick: %w", err)
	}
	opts.Pick = pick
	return opts, nil
}

func finite(f float64) bool { return !math.IsInf(f, 0) && !math.IsNaN(f) }

// LogOptions converts the logging section for log.Init.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		AddSource: c.Logging.Source,
		File:      c.Logging.File,
	}
}

// ExportOptions converts the export section for the renderers.
func (c AppConfig) ExportOptions() export.Options {
	o := export.DefaultOptions()
	if c.Export.DPI > 0 {
		o.DPI = c.Export.DPI
	}
	if c.Export.StrokeWidth > 0 {
		o.SegmentStroke.Width = c.Export.StrokeWidth
		o.BoundaryStroke.Width = c.Export.StrokeWidth
	}
	if c.Export.IndicatorRadius > 0 {
		o.IndicatorRadius = c.Export.IndicatorRadius
	}
	return o
}
