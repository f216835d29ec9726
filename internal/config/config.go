package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"voxel-terrain/internal/meshing"
	"voxel-terrain/internal/noise"
	"voxel-terrain/internal/world"

	"gopkg.in/yaml.v3"
)

// Config is the complete, immutable description of one terrain instance.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Volume  VolumeConfig  `yaml:"volume"`
	Mesh    MeshConfig    `yaml:"mesh"`
	Runtime RuntimeConfig `yaml:"runtime"`
}

type TerrainConfig struct {
	Seed          int64                `yaml:"seed"`
	Octaves       int                  `yaml:"octaves"`
	Frequency     float64              `yaml:"frequency"`
	Scale         float64              `yaml:"scale"`
	Offset        float64              `yaml:"offset"`
	Height        float64              `yaml:"height"`
	Topology      noise.Topology       `yaml:"topology"`
	Basis         noise.Basis          `yaml:"basis"`
	Classifier    world.ClassifierKind `yaml:"classifier"`
	DirtThickness int                  `yaml:"dirtThickness"`
}

type VolumeConfig struct {
	ChunkSize  int            `yaml:"chunkSize"`
	Encoding   world.Encoding `yaml:"encoding"`
	GridBounds Extent         `yaml:"gridBounds"` // chunk coords span [-bound, bound) per axis
	ChunkCount Extent         `yaml:"chunkCount"` // chunks generated eagerly from the origin
}

type MeshConfig struct {
	Extractor meshing.Mode `yaml:"extractor"`
	UnitScale float64      `yaml:"unitScale"` // world units per voxel
}

type RuntimeConfig struct {
	Workers     int `yaml:"workers"`     // chunk builders, 0 = NumCPU
	MeshWorkers int `yaml:"meshWorkers"` // mesh extractors, 0 = NumCPU
	QueueSize   int `yaml:"queueSize"`   // mesh job queue depth
}

// Extent is a per-axis chunk count.
type Extent struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

func (e Extent) Vec() world.Vec3i {
	return world.Vec3i{X: e.X, Y: e.Y, Z: e.Z}
}

// Load reads a YAML (or JSON) file over the defaults. An empty path returns
// defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Default mirrors the classic setup: a 128x128x64 voxel planar patch made of
// 32³ chunks.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Seed:          123,
			Octaves:       3,
			Frequency:     0.01,
			Scale:         32,
			Offset:        0,
			Height:        64,
			Topology:      noise.Planar,
			Basis:         noise.BasisSimplex,
			Classifier:    world.ClassifierAuto,
			DirtThickness: world.DefaultDirtThickness,
		},
		Volume: VolumeConfig{
			ChunkSize:  32,
			Encoding:   world.Coarse,
			GridBounds: Extent{X: 8, Y: 8, Z: 4},
			ChunkCount: Extent{X: 4, Y: 4, Z: 2},
		},
		Mesh: MeshConfig{
			Extractor: meshing.Blocky,
			UnitScale: 100,
		},
		Runtime: RuntimeConfig{
			QueueSize: 64,
		},
	}
}

func (c *Config) Validate() error {
	t := c.Terrain
	if t.Octaves < 1 {
		return errors.New("terrain.octaves must be at least 1")
	}
	if t.Frequency <= 0 {
		return errors.New("terrain.frequency must be positive")
	}
	if t.Height <= 0 {
		return errors.New("terrain.height must be positive")
	}
	if t.DirtThickness < 0 {
		return errors.New("terrain.dirtThickness cannot be negative")
	}

	v := c.Volume
	if v.ChunkSize <= 0 {
		return errors.New("volume.chunkSize must be positive")
	}
	if v.GridBounds.X <= 0 || v.GridBounds.Y <= 0 || v.GridBounds.Z <= 0 {
		return errors.New("volume.gridBounds must be positive on every axis")
	}
	if v.ChunkCount.X < 0 || v.ChunkCount.Y < 0 || v.ChunkCount.Z < 0 {
		return errors.New("volume.chunkCount cannot be negative")
	}
	if v.ChunkCount.X > v.GridBounds.X || v.ChunkCount.Y > v.GridBounds.Y || v.ChunkCount.Z > v.GridBounds.Z {
		return fmt.Errorf("volume.chunkCount %v exceeds gridBounds %v", v.ChunkCount.Vec(), v.GridBounds.Vec())
	}

	if c.Mesh.UnitScale <= 0 {
		return errors.New("mesh.unitScale must be positive")
	}

	r := c.Runtime
	if r.Workers < 0 || r.MeshWorkers < 0 {
		return errors.New("runtime worker counts cannot be negative")
	}
	if r.QueueSize < 0 {
		return errors.New("runtime.queueSize cannot be negative")
	}
	return nil
}

// NoiseParams is the field graph key for this configuration.
func (c *Config) NoiseParams() noise.Params {
	t := c.Terrain
	return noise.Params{
		Seed:      t.Seed,
		Octaves:   t.Octaves,
		Frequency: t.Frequency,
		Scale:     t.Scale,
		Offset:    t.Offset,
		Height:    t.Height,
		Topology:  t.Topology,
		Basis:     t.Basis,
	}
}
