package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig holds the hand-ray tuning parameters. All fields are
// pointers so a partial JSON file only overrides what it names; the
// Get* accessors supply defaults for everything else. The same schema
// serves startup configuration and runtime updates.
type TuningConfig struct {
	// Ray stabilizer
	StabilizerHalfLife *string `json:"stabilizer_half_life,omitempty"` // duration string like "10ms"

	// Pointing gate
	PointerGateDelay       *string  `json:"pointer_gate_delay,omitempty"` // duration string like "200ms"
	BackwardTolerance      *float64 `json:"backward_tolerance,omitempty"`
	UpTolerance            *float64 `json:"up_tolerance,omitempty"`
	FingerPointedTolerance *float64 `json:"finger_pointed_tolerance,omitempty"`

	// Pivot mapping (meters; X values stated for the right hand)
	PivotBaseY       *float64 `json:"pivot_base_y,omitempty"`
	PivotMultiplierY *float64 `json:"pivot_multiplier_y,omitempty"`
	PivotMinY        *float64 `json:"pivot_min_y,omitempty"`
	PivotMaxY        *float64 `json:"pivot_max_y,omitempty"`
	PivotBaseX       *float64 `json:"pivot_base_x,omitempty"`
	PivotMultiplierX *float64 `json:"pivot_multiplier_x,omitempty"`
	PivotMinX        *float64 `json:"pivot_min_x,omitempty"`
	PivotMaxX        *float64 `json:"pivot_max_x,omitempty"`
	HeadPivotOffsetZ *float64 `json:"head_pivot_offset_z,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must
// have a .json extension and stay under the max file size. Fields
// omitted from the JSON retain their defaults, so partial configs are
// safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
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

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath, searching upward from the current directory.
// Panics if the file cannot be loaded; intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are usable.
func (c *TuningConfig) Validate() error {
	if c.StabilizerHalfLife != nil && *c.StabilizerHalfLife != "" {
		d, err := time.ParseDuration(*c.StabilizerHalfLife)
		if err != nil {
			return fmt.Errorf("invalid stabilizer_half_life %q: %w", *c.StabilizerHalfLife, err)
		}
		if d <= 0 {
			return fmt.Errorf("stabilizer_half_life must be positive, got %s", d)
		}
	}

	if c.PointerGateDelay != nil && *c.PointerGateDelay != "" {
		if _, err := time.ParseDuration(*c.PointerGateDelay); err != nil {
			return fmt.Errorf("invalid pointer_gate_delay %q: %w", *c.PointerGateDelay, err)
		}
	}

	// Tolerances are dot-product thresholds: anything above 1 can never
	// trigger; negative values are the "criterion disabled" sentinel.
	tolerances := map[string]*float64{
		"backward_tolerance":       c.BackwardTolerance,
		"up_tolerance":             c.UpTolerance,
		"finger_pointed_tolerance": c.FingerPointedTolerance,
	}
	for name, tol := range tolerances {
		if tol != nil && *tol > 1 {
			return fmt.Errorf("%s must be at most 1, got %f", name, *tol)
		}
	}

	if c.PivotMinY != nil && c.PivotMaxY != nil && *c.PivotMinY > *c.PivotMaxY {
		return fmt.Errorf("pivot_min_y %f exceeds pivot_max_y %f", *c.PivotMinY, *c.PivotMaxY)
	}
	if c.PivotMinX != nil && c.PivotMaxX != nil && *c.PivotMinX > *c.PivotMaxX {
		return fmt.Errorf("pivot_min_x %f exceeds pivot_max_x %f", *c.PivotMinX, *c.PivotMaxX)
	}

	return nil
}

// GetStabilizerHalfLife parses and returns the stabilizer half-life.
func (c *TuningConfig) GetStabilizerHalfLife() time.Duration {
	if c.StabilizerHalfLife == nil || *c.StabilizerHalfLife == "" {
		return 10 * time.Millisecond // default
	}
	d, err := time.ParseDuration(*c.StabilizerHalfLife)
	if err != nil {
		return 10 * time.Millisecond // default on parse error
	}
	return d
}

// GetPointerGateDelay parses and returns the gate decay window.
func (c *TuningConfig) GetPointerGateDelay() time.Duration {
	if c.PointerGateDelay == nil || *c.PointerGateDelay == "" {
		return 200 * time.Millisecond // default
	}
	d, err := time.ParseDuration(*c.PointerGateDelay)
	if err != nil {
		return 200 * time.Millisecond // default on parse error
	}
	return d
}

// GetBackwardTolerance returns the backward_tolerance value or the default.
func (c *TuningConfig) GetBackwardTolerance() float64 {
	if c.BackwardTolerance == nil {
		return 0.5
	}
	return *c.BackwardTolerance
}

// GetUpTolerance returns the up_tolerance value or the default.
func (c *TuningConfig) GetUpTolerance() float64 {
	if c.UpTolerance == nil {
		return 0.8
	}
	return *c.UpTolerance
}

// GetFingerPointedTolerance returns the finger_pointed_tolerance value or the default.
func (c *TuningConfig) GetFingerPointedTolerance() float64 {
	if c.FingerPointedTolerance == nil {
		return 0.3
	}
	return *c.FingerPointedTolerance
}

// GetPivotBaseY returns the pivot_base_y value or the default.
func (c *TuningConfig) GetPivotBaseY() float64 {
	if c.PivotBaseY == nil {
		return -0.1
	}
	return *c.PivotBaseY
}

// GetPivotMultiplierY returns the pivot_multiplier_y value or the default.
func (c *TuningConfig) GetPivotMultiplierY() float64 {
	if c.PivotMultiplierY == nil {
		return 0.65
	}
	return *c.PivotMultiplierY
}

// GetPivotMinY returns the pivot_min_y value or the default.
func (c *TuningConfig) GetPivotMinY() float64 {
	if c.PivotMinY == nil {
		return -0.6
	}
	return *c.PivotMinY
}

// GetPivotMaxY returns the pivot_max_y value or the default.
func (c *TuningConfig) GetPivotMaxY() float64 {
	if c.PivotMaxY == nil {
		return -0.2
	}
	return *c.PivotMaxY
}

// GetPivotBaseX returns the pivot_base_x value or the default.
func (c *TuningConfig) GetPivotBaseX() float64 {
	if c.PivotBaseX == nil {
		return 0.03
	}
	return *c.PivotBaseX
}

// GetPivotMultiplierX returns the pivot_multiplier_x value or the default.
func (c *TuningConfig) GetPivotMultiplierX() float64 {
	if c.PivotMultiplierX == nil {
		return 0.65
	}
	return *c.PivotMultiplierX
}

// GetPivotMinX returns the pivot_min_x value or the default.
func (c *TuningConfig) GetPivotMinX() float64 {
	if c.PivotMinX == nil {
		return 0.08
	}
	return *c.PivotMinX
}

// GetPivotMaxX returns the pivot_max_x value or the default.
func (c *TuningConfig) GetPivotMaxX() float64 {
	if c.PivotMaxX == nil {
		return 0.15
	}
	return *c.PivotMaxX
}

// GetHeadPivotOffsetZ returns the head_pivot_offset_z value or the default.
func (c *TuningConfig) GetHeadPivotOffsetZ() float64 {
	if c.HeadPivotOffsetZ == nil {
		return 0.2
	}
	return *c.HeadPivotOffsetZ
}
