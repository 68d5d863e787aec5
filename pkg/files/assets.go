package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported file type")

// ImageTypes are accepted for course images
var ImageTypes = []string{"image/jpeg", "image/png"}

// Asset is an uploaded file
type Asset struct {
	DisplayName string
	URL         string
	ContentType string
}

// AssetStore copies uploads into <dataDir>/assets under generated names
type AssetStore struct {
	dir     string
	baseURL string
}

// NewAssetStore creates a store. Asset URLs are baseURL + "/" + stored name.
func NewAssetStore(dataDir, baseURL string) *AssetStore {
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	if baseURL == "" {
		baseURL = "/" + AssetsDir
	}
	return &AssetStore{dir: filepath.Join(dataDir, AssetsDir), baseURL: baseURL}
}

// Upload copies the file at path when its sniffed content type is one of
// mimeTypes
func (s *AssetStore) Upload(ctx context.Context, path string, mimeTypes []string) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}
	src, err := os.Open(path)
	if err != nil {
		return Asset{}, fmt.Errorf("failed to open upload %s: %w", path, err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Asset{}, fmt.Errorf("failed to read upload %s: %w", path, err)
	}
	contentType := http.DetectContentType(head[:n])
	if !allowed(contentType, mimeTypes) {
		return Asset{}, fmt.Errorf("%w: %s (files must be in JPEG or PNG format)", ErrUnsupportedType, contentType)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return Asset{}, fmt.Errorf("failed to read upload %s: %w", path, err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return Asset{}, fmt.Errorf("failed to create assets directory: %w", err)
	}
	name := uuid.NewString() + filepath.Ext(path)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return Asset{}, fmt.Errorf("failed to store upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return Asset{}, fmt.Errorf("failed to store upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return Asset{}, fmt.Errorf("failed to store upload: %w", err)
	}

	return Asset{
		DisplayName: filepath.Base(path),
		URL:         s.baseURL + "/" + name,
		ContentType: contentType,
	}, nil
}

func allowed(contentType string, mimeTypes []string) bool {
	if len(mimeTypes) == 0 {
		return true
	}
	for _, t := range mimeTypes {
		if t == contentType {
			return true
		}
	}
	return false
}
