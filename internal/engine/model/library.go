package model

import (
	"go.uber.org/zap"

	"github.com/Faultbox/claw-machine/internal/logger"
)

type entry struct {
	model *Model
	err   error
}

// Library caches loaded models by path so several nodes can share one mesh.
type Library struct {
	load  func(path string) (*Model, error)
	cache map[string]entry
}

// NewLibrary returns a library that loads glTF files from disk.
func NewLibrary() *Library {
	return &Library{load: Load, cache: make(map[string]entry)}
}

// Get returns the model at path, loading it on first use. Failures are
// cached too, so a missing file is reported once.
func (l *Library) Get(path string) (*Model, error) {
	if e, ok := l.cache[path]; ok {
		return e.model, e.err
	}
	m, err := l.load(path)
	if err != nil {
		logger.Warn("model load failed", zap.String("path", path), zap.Error(err))
	} else {
		logger.Info("model loaded",
			zap.String("path", path),
			zap.Int("meshes", len(m.Meshes)),
			zap.Int("triangles", m.TriangleCount()))
	}
	l.cache[path] = entry{model: m, err: err}
	return m, err
}

// Len returns the number of cached paths.
func (l *Library) Len() int { return len(l.cache) }
