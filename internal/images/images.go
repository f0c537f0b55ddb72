// Package images processes uploaded site images (resize and recompress) and
// stores them in an S3-compatible bucket or a local uploads directory.
package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 80

	// MaxUploadSize bounds the multipart body accepted by the upload handler.
	MaxUploadSize = 10 << 20 // 10MB
)

// ErrUnavailable is returned when no image backend is configured; the upload
// endpoint maps it to 503.
var ErrUnavailable = errors.New("image storage unavailable")

// Processed holds a recompressed image ready for storage.
type Processed struct {
	Data   []byte
	Width  int
	Height int
}

// Process decodes an image (jpeg, png or gif), downscales it to maxImageWidth
// when wider, and re-encodes it as JPEG.
func Process(src io.Reader) (Processed, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Processed{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Processed{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return Processed{Data: buf.Bytes(), Width: w, Height: h}, nil
}

// Storage persists a processed image and returns its public URL.
type Storage interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// Service ties processing to a storage backend. storage may be nil, in which
// case uploads fail with ErrUnavailable.
type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

// Available reports whether an image backend is configured.
func (s *Service) Available() bool {
	return s.storage != nil
}

// Upload processes src and stores the result under a timestamped name derived
// from the original filename.
func (s *Service) Upload(ctx context.Context, originalName string, src io.Reader) (string, error) {
	if s.storage == nil {
		return "", ErrUnavailable
	}
	processed, err := Process(src)
	if err != nil {
		return "", err
	}
	name := objectName(originalName)
	url, err := s.storage.Save(ctx, name, processed.Data)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}

// objectName builds a collision-safe storage name: unix-millis prefix plus a
// sanitized stem of the original filename, always .jpg since Process
// re-encodes.
func objectName(originalName string) string {
	stem := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	var b strings.Builder
	for _, r := range strings.ToLower(stem) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		clean = "image"
	}
	return fmt.Sprintf("%d-%s.jpg", time.Now().UnixMilli(), clean)
}

// MinioStorage stores images in an S3-compatible bucket.
type MinioStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinioStorage(endpoint, accessKey, secretKey, bucket, baseURL string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &MinioStorage{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *MinioStorage) Save(ctx context.Context, name string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/jpeg"})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return objectURL(s.baseURL, name), nil
}

// objectURL joins a stored object onto the base URL objects are served under.
// The base already names the bucket or uploads path; only the object name is
// appended.
func objectURL(baseURL, name string) string {
	return baseURL + "/" + name
}

// LocalStorage writes images under an uploads directory served as static
// files. The development fallback when no bucket is configured.
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStorage{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *LocalStorage) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return objectURL(s.baseURL, name), nil
}

// Dir exposes the uploads directory so the HTTP layer can serve it.
func (s *LocalStorage) Dir() string { return s.dir }
