package service

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/lehuyba/InterviewAce/config"
	"github.com/rs/zerolog/log"
)

// UploadService stores audio blobs under the uploads directory and hands back
// the relative URL the server serves statically.
type UploadService interface {
	SaveAudio(filename string, audio io.Reader) (string, error)
	// ResolveAudioURL re-derives a servable URL for a stored blob: if the
	// original URL no longer resolves, fall back to the static-file URL built
	// from the filename. An error here means the blob is genuinely gone and
	// the caller should surface a persistent error state.
	ResolveAudioURL(rawURL string) (string, error)
	Dir() string
}

type uploadService struct {
	dir string
}

func NewUploadService(cfg *config.Config) (UploadService, error) {
	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %q: %w", cfg.Upload.Dir, err)
	}
	return &uploadService{dir: cfg.Upload.Dir}, nil
}

func (s *uploadService) Dir() string {
	return s.dir
}

func (s *uploadService) SaveAudio(filename string, audio io.Reader) (string, error) {
	base := filepath.Base(filename)
	if base == "." || base == "/" || base == "" {
		base = "recording.webm"
	}
	name := uuid.NewString() + "-" + base

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, audio); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	url := "/uploads/" + name
	log.Info().Str("url", url).Msg("Audio blob stored")
	return url, nil
}

func (s *uploadService) ResolveAudioURL(rawURL string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("no audio URL to resolve")
	}

	name := path.Base(strings.TrimSuffix(rawURL, "/"))
	if name == "." || name == "/" {
		return "", fmt.Errorf("audio URL %q has no filename", rawURL)
	}

	if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("audio file %q not found: %w", name, err)
	}
	return "/uploads/" + name, nil
}
