package images

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return &buf
}

func TestProcessResizesWideImages(t *testing.T) {
	src := encodePNG(t, 3000, 1500)

	processed, err := Process(src)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if processed.Width != maxImageWidth {
		t.Errorf("expected width %d, got %d", maxImageWidth, processed.Width)
	}
	if processed.Height != 600 {
		t.Errorf("expected aspect-preserving height 600, got %d", processed.Height)
	}

	// Output must decode as JPEG.
	if _, err := jpeg.Decode(bytes.NewReader(processed.Data)); err != nil {
		t.Errorf("output is not valid jpeg: %v", err)
	}
}

func TestProcessKeepsSmallImages(t *testing.T) {
	src := encodePNG(t, 400, 300)

	processed, err := Process(src)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if processed.Width != 400 || processed.Height != 300 {
		t.Errorf("expected 400x300 untouched, got %dx%d", processed.Width, processed.Height)
	}
}

func TestProcessRejectsGarbage(t *testing.T) {
	if _, err := Process(strings.NewReader("not an image")); err == nil {
		t.Error("expected error for non-image input")
	}
}

func TestUploadWithoutBackend(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.Upload(context.Background(), "logo.png", encodePNG(t, 10, 10))
	if err != ErrUnavailable {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestUploadToLocalStorage(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:8787/uploads")
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}
	svc := NewService(storage)

	url, err := svc.Upload(context.Background(), "Hero Image.PNG", encodePNG(t, 10, 10))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:8787/uploads/") {
		t.Errorf("unexpected url %q", url)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Errorf("expected .jpg suffix after recompression, got %q", url)
	}
}

func TestObjectURLContainsBucketOnce(t *testing.T) {
	url := objectURL("http://minio:9000/vitrine-uploads", "1700000000000-logo.jpg")
	if url != "http://minio:9000/vitrine-uploads/1700000000000-logo.jpg" {
		t.Errorf("unexpected url %q", url)
	}
	if strings.Count(url, "vitrine-uploads") != 1 {
		t.Errorf("bucket segment repeated in %q", url)
	}
}

func TestObjectNameSanitizes(t *testing.T) {
	name := objectName("../..//Weird Name!.png")
	if strings.ContainsAny(name, "/\\! ") {
		t.Errorf("object name not sanitized: %q", name)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("expected .jpg suffix, got %q", name)
	}
}
