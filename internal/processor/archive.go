package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// archive compresses a processed transcript into the archived folder and
// removes the original so it is not picked up again
func (p *implProcessor) archive(ctx context.Context, path string) (string, error) {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(path)+".zst")
	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}

	enc, err := zstd.NewWriter(dst)
	if err != nil {
		dst.Close()
		return "", fmt.Errorf("create encoder: %w", err)
	}

	if _, err := io.Copy(enc, src); err != nil {
		enc.Close()
		dst.Close()
		return "", fmt.Errorf("compress: %w", err)
	}
	if err := enc.Close(); err != nil {
		dst.Close()
		return "", fmt.Errorf("flush encoder: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close archive: %w", err)
	}

	src.Close()
	if err := os.Remove(path); err != nil {
		return destPath, fmt.Errorf("remove source: %w", err)
	}

	p.logger.Info(ctx, "Archived: %s -> %s", path, destPath)
	return destPath, nil
}
