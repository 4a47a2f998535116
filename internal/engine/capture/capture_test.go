package capture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedExporter(dir string) *Exporter {
	e := NewExporter(dir, "scene")
	e.now = func() time.Time {
		return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	}
	return e
}

func TestFilename(t *testing.T) {
	e := fixedExporter("out")
	want := filepath.Join("out", "scene_2024-03-05_14-07-09.png")
	if got := e.Filename(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if NewExporter("", "").Filename()[:4] != "map_" {
		t.Error("expected default prefix map")
	}
}

func TestSaveWritesPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	e := fixedExporter(dir)

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.SetRGBA(3, 2, color.RGBA{10, 20, 30, 255})

	path, err := e.Save(img)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open exported file: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode exported file: %v", err)
	}
	if r, g, b, _ := decoded.At(3, 2).RGBA(); r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("unexpected pixel %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestSaveDoesNotOverwrite(t *testing.T) {
	e := fixedExporter(t.TempDir())
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))

	first, err := e.Save(img)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Save(img)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Errorf("second save reused %s", first)
	}
}

func TestSaveNilFrame(t *testing.T) {
	if _, err := fixedExporter(t.TempDir()).Save(nil); !errors.Is(err, ErrNoFrame) {
		t.Errorf("expected ErrNoFrame, got %v", err)
	}
	if _, err := EncodePNG(nil); !errors.Is(err, ErrNoFrame) {
		t.Errorf("expected ErrNoFrame, got %v", err)
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if err != nil {
		t.Fatal(err)
	}
	if string(data[1:4]) != "PNG" {
		t.Errorf("expected PNG signature, got %q", data[:8])
	}
}

func TestSaveEncodeFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	e := fixedExporter(dir)

	// png.Encode rejects empty images.
	if _, err := e.Save(image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Fatal("expected an encoding error")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files left behind, got %d", len(entries))
	}
}
