package world

import (
	"fmt"
	"strings"
)

// Material is the substance tag carried by every voxel.
type Material uint8

const (
	MaterialAir Material = iota
	MaterialStone
	MaterialDirt
	MaterialGrass
	MaterialOre
)

var materialNames = [...]string{
	MaterialAir:   "air",
	MaterialStone: "stone",
	MaterialDirt:  "dirt",
	MaterialGrass: "grass",
	MaterialOre:   "ore",
}

func (m Material) String() string {
	if int(m) < len(materialNames) {
		return materialNames[m]
	}
	return fmt.Sprintf("material%d", uint8(m))
}

// Voxel is a density/material pair. Density 0 means empty.
type Voxel struct {
	Density  uint8
	Material Material
}

// Air is the empty voxel.
var Air = Voxel{}

// Solid reports whether the voxel occupies space at binary granularity.
func (v Voxel) Solid() bool {
	return v.Density > 0
}

// Encoding is the bit layout a volume stores voxels in.
type Encoding int

const (
	// Fine stores 8 bits of density and 8 bits of material.
	Fine Encoding = iota
	// Coarse stores 4 bits of density and 4 bits of material.
	Coarse
)

func (e Encoding) String() string {
	switch e {
	case Fine:
		return "fine"
	case Coarse:
		return "coarse"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fine", "88", "8bit":
		return Fine, nil
	case "coarse", "44", "4bit":
		return Coarse, nil
	}
	return 0, fmt.Errorf("unknown voxel encoding %q", s)
}

func (e *Encoding) UnmarshalText(text []byte) error {
	v, err := ParseEncoding(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

func (e Encoding) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Bits is the width of each of the density and material fields.
func (e Encoding) Bits() uint {
	if e == Coarse {
		return 4
	}
	return 8
}

// MaxDensity is the density of a fully solid voxel.
func (e Encoding) MaxDensity() uint8 {
	return uint8(1<<e.Bits() - 1)
}

// Pack encodes v with material in the high field and density in the low
// field. Values wider than the encoding are truncated.
func (e Encoding) Pack(v Voxel) uint16 {
	bits := e.Bits()
	mask := uint16(1<<bits - 1)
	return (uint16(v.Material)&mask)<<bits | uint16(v.Density)&mask
}

func (e Encoding) Unpack(p uint16) Voxel {
	bits := e.Bits()
	mask := uint16(1<<bits - 1)
	return Voxel{
		Density:  uint8(p & mask),
		Material: Material((p >> bits) & mask),
	}
}
