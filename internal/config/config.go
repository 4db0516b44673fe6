// Package config handles scene description files: logging and scene settings, the
// shapes to load and the rays to cast.
package config

import (
	"runtime"

	"github.com/akmonengine/prism"
)

// Config holds a scene description.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Scene   SceneConfig   `yaml:"scene"`
	Objects []ShapeConfig `yaml:"shapes"`
	Casts   []RayConfig   `yaml:"rays"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// SceneConfig holds the query settings of the scene.
type SceneConfig struct {
	Workers         int     `yaml:"workers"`
	CellSize        float64 `yaml:"cell_size"`
	Cells           int     `yaml:"cells"`
	BackfaceCulling bool    `yaml:"backface_culling"`
}

// ShapeConfig describes one shape. Kind selects which fields are read:
//
//	box:          min, max
//	sphere:       center, radius
//	plane:        normal, constant
//	ray:          origin, direction
//	triangle:     points (three vertices)
//	oriented_box: center, half_extents, rotation (w, x, y, z; identity when omitted)
type ShapeConfig struct {
	Kind        string      `yaml:"kind"`
	Min         []float64   `yaml:"min,omitempty"`
	Max         []float64   `yaml:"max,omitempty"`
	Center      []float64   `yaml:"center,omitempty"`
	Radius      float64     `yaml:"radius,omitempty"`
	Normal      []float64   `yaml:"normal,omitempty"`
	Constant    float64     `yaml:"constant,omitempty"`
	Origin      []float64   `yaml:"origin,omitempty"`
	Direction   []float64   `yaml:"direction,omitempty"`
	Points      [][]float64 `yaml:"points,omitempty"`
	HalfExtents []float64   `yaml:"half_extents,omitempty"`
	Rotation    []float64   `yaml:"rotation,omitempty"`
}

// RayConfig describes a ray cast against the scene.
type RayConfig struct {
	Origin    []float64 `yaml:"origin"`
	Direction []float64 `yaml:"direction"`
}

// Default returns a Config with sensible default values and no shape.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Scene: SceneConfig{
			Workers:         runtime.NumCPU(),
			CellSize:        prism.DEFAULT_CELL_SIZE,
			Cells:           prism.DEFAULT_CELLS,
			BackfaceCulling: false,
		},
	}
}
