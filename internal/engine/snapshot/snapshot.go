// Package snapshot writes rendered frames to PNG or WebP files.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// Format is an output image format.
type Format int

const (
	PNG Format = iota
	WebP
)

// ErrUnknownFormat is returned for unsupported extensions or names.
var ErrUnknownFormat = errors.New("unknown image format")

// String returns the format name, which is also its file extension.
func (f Format) String() string {
	switch f {
	case WebP:
		return "webp"
	default:
		return "png"
	}
}

// ParseFormat converts "png" or "webp".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return PNG, nil
	case "webp":
		return WebP, nil
	default:
		return PNG, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Encode writes img in the given format. WebP output is lossless.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case WebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("encoding WebP: %w", err)
		}
	default:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encoding PNG: %w", err)
		}
	}
	return nil
}

// Save writes img to path, choosing the format by extension and creating
// the parent directory if needed.
func Save(img image.Image, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := Encode(file, img, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Capture writes timestamped snapshots into a directory.
type Capture struct {
	outputDir string
	prefix    string
	format    Format
	now       func() time.Time
}

// NewCapture creates a snapshot writer.
func NewCapture(outputDir, prefix string, format Format) *Capture {
	return &Capture{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
		now:       time.Now,
	}
}

// SetOutputDir sets the output directory for snapshots.
func (c *Capture) SetOutputDir(dir string) {
	c.outputDir = dir
}

// CaptureImage saves img under a generated name and returns the path.
func (c *Capture) CaptureImage(img image.Image) (string, error) {
	filename := c.GenerateFilename()
	if err := Save(img, filename); err != nil {
		return "", err
	}
	return filename, nil
}

// GenerateFilename returns prefix_timestamp.ext inside the output directory.
func (c *Capture) GenerateFilename() string {
	timestamp := c.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.%s", c.prefix, timestamp, c.format)
	if c.outputDir != "" {
		filename = filepath.Join(c.outputDir, filename)
	}
	return filename
}
