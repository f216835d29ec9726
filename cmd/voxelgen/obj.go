package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"voxel-terrain/internal/meshing"
	"voxel-terrain/internal/world"

	"github.com/klauspost/compress/zstd"
)

// objSink writes one Wavefront OBJ file per chunk and material.
type objSink struct {
	dir      string
	compress bool
	log      *slog.Logger

	mu    sync.Mutex
	files int
	err   error
}

func newObjSink(dir string, compress bool, log *slog.Logger) (*objSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &objSink{dir: dir, compress: compress, log: log}, nil
}

func (s *objSink) Consume(coord world.ChunkCoord, slot int, meshes []*meshing.MaterialMesh) {
	for _, m := range meshes {
		path := filepath.Join(s.dir, objName(coord, m.Material, s.compress))
		err := s.writeFile(path, m)

		s.mu.Lock()
		if err != nil {
			if s.err == nil {
				s.err = err
			}
			s.mu.Unlock()
			s.log.Error("write mesh", "path", path, "err", err)
			continue
		}
		s.files++
		s.mu.Unlock()
		s.log.Debug("mesh written", "path", path, "slot", slot, "triangles", m.TriangleCount())
	}
}

// Result reports how many files were written and the first write error.
func (s *objSink) Result() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files, s.err
}

func objName(c world.ChunkCoord, m world.Material, compress bool) string {
	name := fmt.Sprintf("chunk_%d_%d_%d_%s.obj", c.X, c.Y, c.Z, m)
	if compress {
		name += ".zst"
	}
	return name
}

func (s *objSink) writeFile(path string, m *meshing.MaterialMesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if !s.compress {
		if err := writeOBJ(f, m); err != nil {
			return err
		}
		return f.Close()
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := writeOBJ(enc, m); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

// writeOBJ emits positions, normals and 1-based faces for m.
func writeOBJ(w io.Writer, m *meshing.MaterialMesh) error {
	bw := bufio.NewWriterSize(w, 64*1024)
	buf := make([]byte, 0, 64)

	fmt.Fprintf(bw, "o %s\n", m.Material)
	for _, p := range m.Positions {
		buf = appendTriple(append(buf[:0], 'v', ' '), p[0], p[1], p[2])
		bw.Write(buf)
	}
	for _, n := range m.Normals {
		buf = appendTriple(append(buf[:0], 'v', 'n', ' '), n[0], n[1], n[2])
		bw.Write(buf)
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		buf = append(buf[:0], 'f')
		for _, idx := range m.Indices[i : i+3] {
			n := strconv.FormatUint(uint64(idx)+1, 10)
			buf = append(buf, ' ')
			buf = append(buf, n...)
			buf = append(buf, '/', '/')
			buf = append(buf, n...)
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	return bw.Flush()
}

func appendTriple(buf []byte, a, b, c float32) []byte {
	buf = strconv.AppendFloat(buf, float64(a), 'f', -1, 32)
	buf = append(buf, ' ')
	buf = strconv.AppendFloat(buf, float64(b), 'f', -1, 32)
	buf = append(buf, ' ')
	buf = strconv.AppendFloat(buf, float64(c), 'f', -1, 32)
	return append(buf, '\n')
}
