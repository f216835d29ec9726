package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"voxel-terrain/internal/terrain"
	"voxel-terrain/internal/world"

	"golang.org/x/image/draw"
)

var materialColors = map[world.Material]color.RGBA{
	world.MaterialAir:   {0, 0, 0, 0},
	world.MaterialStone: {128, 128, 128, 255},
	world.MaterialDirt:  {134, 96, 67, 255},
	world.MaterialGrass: {91, 142, 58, 255},
	world.MaterialOre:   {196, 160, 60, 255},
}

// surfaceMap renders the top material of every column of the chunk grid,
// one pixel per column, shaded by height. North is up.
func surfaceMap(t *terrain.Terrain) *image.RGBA {
	cfg := t.Config()
	size := cfg.Volume.ChunkSize
	w, h := cfg.Volume.ChunkCount.X*size, cfg.Volume.ChunkCount.Y*size
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	top := float32(cfg.Volume.ChunkCount.Z * size)

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			z, ok := t.SurfaceZ(x, y)
			if !ok {
				continue
			}
			v := t.Store().Voxel(x, y, int(math.Floor(float64(z))))
			img.SetRGBA(x, h-1-y, shade(materialColors[v.Material], z/top))
		}
	}
	return img
}

func shade(c color.RGBA, f float32) color.RGBA {
	k := 0.5 + 0.5*min(max(f, 0), 1)
	return color.RGBA{
		R: uint8(float32(c.R) * k),
		G: uint8(float32(c.G) * k),
		B: uint8(float32(c.B) * k),
		A: c.A,
	}
}

// writePreview saves the surface map as a PNG upscaled by factor.
func writePreview(path string, t *terrain.Terrain, factor int) error {
	src := surfaceMap(t)
	if factor < 1 {
		factor = 1
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, dst); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return f.Close()
}
