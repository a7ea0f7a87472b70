package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/ordo/internal/client/imagex"
	"github.com/dmitrijs2005/ordo/internal/client/models"
)

var imageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// FileCamera treats a file or a directory as the camera feed. For a
// directory the newest image file is the current frame, so a phone sync
// folder or a screenshot directory works as a viewfinder.
type FileCamera struct {
	Source  string
	MaxEdge int
	Quality int
}

func NewFileCamera(source string) *FileCamera {
	return &FileCamera{Source: source, MaxEdge: imagex.CaptureMaxEdge, Quality: imagex.CaptureQuality}
}

func (c *FileCamera) Request(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Source == "" {
		return nil, fmt.Errorf("%w: no camera source configured", ErrPermissionDenied)
	}
	if _, err := os.Stat(c.Source); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return &fileStream{camera: c}, nil
}

type fileStream struct {
	camera   *FileCamera
	released atomic.Bool
}

func (s *fileStream) Capture(ctx context.Context) (models.Image, error) {
	if s.released.Load() {
		return models.Image{}, ErrReleased
	}
	if err := ctx.Err(); err != nil {
		return models.Image{}, err
	}

	path, mime, err := currentFrame(s.camera.Source)
	if err != nil {
		return models.Image{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Image{}, fmt.Errorf("%w: %v", ErrFrameNotReady, err)
	}

	still, err := imagex.Prepare(models.Image{MIMEType: mime, Data: data}, s.camera.MaxEdge, s.camera.Quality)
	if err != nil {
		return models.Image{}, fmt.Errorf("%w: %v", ErrFrameNotReady, err)
	}
	return still, nil
}

func (s *fileStream) Release() error {
	s.released.Store(true)
	return nil
}

func currentFrame(source string) (string, string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrFrameNotReady, err)
	}
	if !info.IsDir() {
		mime, ok := imageExts[strings.ToLower(filepath.Ext(source))]
		if !ok {
			return "", "", fmt.Errorf("%w: unsupported file %s", ErrFrameNotReady, source)
		}
		return source, mime, nil
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrFrameNotReady, err)
	}

	var (
		newest     string
		newestMIME string
		newestTime time.Time
	)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		mime, ok := imageExts[strings.ToLower(filepath.Ext(e.Name()))]
		if !ok {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || fi.ModTime().After(newestTime) {
			newest, newestMIME, newestTime = filepath.Join(source, e.Name()), mime, fi.ModTime()
		}
	}
	if newest == "" {
		return "", "", ErrFrameNotReady
	}
	return newest, newestMIME, nil
}
