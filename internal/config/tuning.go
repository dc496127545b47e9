package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/echo.report/internal/echo"
)

// TuningConfig is the root JSON configuration for the echo classifier.
// All fields are optional; the Get* methods supply defaults so partial
// configs are safe. Validation happens once at load, before any scan is
// processed.
type TuningConfig struct {
	// Threshold is the score cut above which (inclusive) a gate classifies
	// as non-meteorological.
	Threshold *float64 `json:"threshold,omitempty"`

	// Weights maps moment names (rho, rho2, phi, zdr, dop, map) to fusion
	// weights. Zero or absent disables a moment.
	Weights map[string]float64 `json:"weights,omitempty"`

	// Membership transfer constants. These are uncalibrated shape defaults;
	// tune against site data before operational use.
	RhoCenter       *float64 `json:"rho_center,omitempty"`
	RhoSlope        *float64 `json:"rho_slope,omitempty"`
	Rho2Center      *float64 `json:"rho2_center,omitempty"`
	Rho2Slope       *float64 `json:"rho2_slope,omitempty"`
	PhiCenter       *float64 `json:"phi_center,omitempty"`
	PhiSlope        *float64 `json:"phi_slope,omitempty"`
	ZdrCenter       *float64 `json:"zdr_center,omitempty"`
	ZdrSlope        *float64 `json:"zdr_slope,omitempty"`
	DopHalfWidthMPS *float64 `json:"dop_half_width_mps,omitempty"`

	// TextureWindow is the odd window size used when texture channels are
	// derived from raw phi/zdr/rho inputs.
	TextureWindow *int `json:"texture_window,omitempty"`

	// Workers bounds row-parallelism within one scan. Zero means GOMAXPROCS.
	Workers *int `json:"workers,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with every field unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads and validates a TuningConfig from a JSON file.
// Fields omitted from the file retain their defaults.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration values. Anything that fails here is a
// fatal configuration error: classification never starts on a bad config.
func (c *TuningConfig) Validate() error {
	if c.Threshold != nil {
		if *c.Threshold < 0 || *c.Threshold > 1 {
			return fmt.Errorf("threshold must be between 0 and 1, got %f", *c.Threshold)
		}
	}

	if c.Weights != nil {
		if _, err := echo.WeightsFromNames(c.Weights); err != nil {
			return fmt.Errorf("weights: %w", err)
		}
	}

	if c.TextureWindow != nil {
		if *c.TextureWindow < 3 || *c.TextureWindow%2 == 0 {
			return fmt.Errorf("texture_window must be odd and >= 3, got %d", *c.TextureWindow)
		}
	}

	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}

	return nil
}

// GetThreshold returns the threshold value or the default.
func (c *TuningConfig) GetThreshold() float64 {
	if c.Threshold == nil {
		return 0.5
	}
	return *c.Threshold
}

// GetTextureWindow returns the texture_window value or the default.
func (c *TuningConfig) GetTextureWindow() int {
	if c.TextureWindow == nil {
		return 3
	}
	return *c.TextureWindow
}

// GetWorkers returns the workers value or the default.
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// GetWeights returns the configured weight table, or the classifier defaults
// when the config carries none.
func (c *TuningConfig) GetWeights() (echo.WeightTable, error) {
	if c.Weights == nil {
		return echo.DefaultWeights(), nil
	}
	return echo.WeightsFromNames(c.Weights)
}

// GetMembershipParams returns the transfer constants with config overrides
// applied over the defaults.
func (c *TuningConfig) GetMembershipParams() echo.MembershipParams {
	p := echo.DefaultMembershipParams()
	if c.RhoCenter != nil {
		p.RhoCenter = *c.RhoCenter
	}
	if c.RhoSlope != nil {
		p.RhoSlope = *c.RhoSlope
	}
	if c.Rho2Center != nil {
		p.Rho2Center = *c.Rho2Center
	}
	if c.Rho2Slope != nil {
		p.Rho2Slope = *c.Rho2Slope
	}
	if c.PhiCenter != nil {
		p.PhiCenter = *c.PhiCenter
	}
	if c.PhiSlope != nil {
		p.PhiSlope = *c.PhiSlope
	}
	if c.ZdrCenter != nil {
		p.ZdrCenter = *c.ZdrCenter
	}
	if c.ZdrSlope != nil {
		p.ZdrSlope = *c.ZdrSlope
	}
	if c.DopHalfWidthMPS != nil {
		p.DopHalfWidthMPS = *c.DopHalfWidthMPS
	}
	return p
}

// NewClassifier builds a configured echo.Classifier.
func (c *TuningConfig) NewClassifier() (*echo.Classifier, error) {
	weights, err := c.GetWeights()
	if err != nil {
		return nil, err
	}
	cl := &echo.Classifier{
		Params:    c.GetMembershipParams(),
		Weights:   weights,
		Threshold: c.GetThreshold(),
		Workers:   c.GetWorkers(),
	}
	if err := cl.Validate(); err != nil {
		return nil, err
	}
	return cl, nil
}
