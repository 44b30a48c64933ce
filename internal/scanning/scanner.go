// Package scanning acquires raw receipt text from photographs. The Gemini
// backend does the heavy lifting; this package normalizes image formats
// and fans multiple photos of one receipt out to concurrent scans.
package scanning

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Scanner converts one receipt photograph into raw text lines.
type Scanner interface {
	ScanReceipt(ctx context.Context, imageData []byte, contentType string) (string, error)
	Close() error
}

// Image is a receipt photograph ready for scanning.
type Image struct {
	Path        string
	Data        []byte
	ContentType string
}

var extContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".heic": "image/heic",
	".heif": "image/heif",
}

// LoadImage reads a receipt photograph from disk, rejecting unsupported
// extensions and files over maxBytes.
func LoadImage(path string, maxBytes int64) (Image, error) {
	contentType, ok := extContentTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return Image{}, fmt.Errorf("unsupported image extension %q (supported: jpg, jpeg, png, gif, heic, heif)", filepath.Ext(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return Image{}, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return Image{}, fmt.Errorf("path is a directory: %s", path)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return Image{}, fmt.Errorf("image too large: %d bytes (max %d)", info.Size(), maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	return Image{Path: path, Data: data, ContentType: contentType}, nil
}

// ScanAll scans several photographs of one receipt concurrently, limited to
// the given number of workers, and concatenates the extracted text in input
// order so downstream parsing sees the receipt top to bottom.
func ScanAll(ctx context.Context, scanner Scanner, images []Image, workers int) (string, error) {
	if workers < 1 {
		workers = 1
	}

	texts := make([]string, len(images))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, img := range images {
		g.Go(func() error {
			text, err := scanner.ScanReceipt(ctx, img.Data, img.ContentType)
			if err != nil {
				return fmt.Errorf("scanning %s: %w", img.Path, err)
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return strings.Join(texts, "\n"), nil
}
