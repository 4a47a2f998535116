// Package capture writes captured viewport frames to disk and to the wire.
package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/mapview/internal/logger"
)

const timestampLayout = "2006-01-02_15-04-05"

// ErrNoFrame is returned when there is nothing to export yet.
var ErrNoFrame = errors.New("no captured frame")

// Exporter saves frames as timestamped PNG files.
type Exporter struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewExporter creates a new exporter writing into outputDir.
func NewExporter(outputDir, prefix string) *Exporter {
	if prefix == "" {
		prefix = "map"
	}
	return &Exporter{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Filename generates the next file name without saving.
func (e *Exporter) Filename() string {
	return e.filename(0)
}

func (e *Exporter) filename(seq int) string {
	name := fmt.Sprintf("%s_%s.png", e.prefix, e.now().Format(timestampLayout))
	if seq > 0 {
		name = fmt.Sprintf("%s_%s_%d.png", e.prefix, e.now().Format(timestampLayout), seq)
	}
	if e.outputDir != "" {
		name = filepath.Join(e.outputDir, name)
	}
	return name
}

// Save writes img as PNG and returns the path. Saves within the same second
// get a numeric suffix instead of overwriting each other.
func (e *Exporter) Save(img image.Image) (string, error) {
	if img == nil {
		return "", ErrNoFrame
	}

	if e.outputDir != "" {
		if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	var (
		file *os.File
		path string
		err  error
	)
	for seq := 0; ; seq++ {
		path = e.filename(seq)
		file, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("creating file: %w", err)
		}
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing %s: %w", path, err)
	}

	logger.Info("frame exported", zap.String("path", path))
	return path, nil
}

// WritePNG encodes img as PNG into w.
func WritePNG(w io.Writer, img image.Image) error {
	if img == nil {
		return ErrNoFrame
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// EncodePNG returns img encoded as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
