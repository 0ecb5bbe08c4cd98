// Package staging keeps captured videos in a private directory until they are
// uploaded, and watches that directory so that files reappearing there can
// trigger a sync.
package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/jobkeeper/internal/filex"
	"github.com/google/uuid"
)

const defaultExt = ".mp4"

type Stager struct {
	dir string
}

// NewStager creates the staging directory if needed.
func NewStager(dir string) (*Stager, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("staging dir: %w", err)
	}
	return &Stager{dir: abs}, nil
}

func (s *Stager) Dir() string { return s.dir }

// Stage copies src into the staging directory under a fresh unique name and
// returns the staged path. The source file is left alone.
func (s *Stager) Stage(src string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", src, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("stage %s: is a directory", src)
	}

	ext := strings.ToLower(filepath.Ext(src))
	if ext == "" {
		ext = defaultExt
	}
	dst := filepath.Join(s.dir, uuid.NewString()+ext)
	if err := filex.CopyFile(src, dst); err != nil {
		return "", fmt.Errorf("stage %s: %w", src, err)
	}
	return dst, nil
}

// Discard removes a staged file. Paths outside the staging directory and
// files already gone are ignored.
func (s *Stager) Discard(path string) error {
	if !s.owns(path) {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("discard %s: %w", path, err)
	}
	return nil
}

func (s *Stager) owns(path string) bool {
	rel, err := filepath.Rel(s.dir, path)
	return err == nil && !strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel) && rel != "."
}
