package helper

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
)

// BlobService: kontrak minimal penyimpanan file (foto siswa).
type BlobService interface {
	UploadToDir(ctx context.Context, dir string, fh *multipart.FileHeader) (publicURL, key string, err error)
	DeleteObject(ctx context.Context, key string) error
}

var ErrBlobDisabled = errors.New("penyimpanan file belum dikonfigurasi")

// NewBlobService: OSS kalau env lengkap, selain itu disabled (upload → error).
func NewBlobService(o Options) (BlobService, error) {
	if !o.Configured() {
		return DisabledBlobService{}, nil
	}
	return NewOSSService(o)
}

type DisabledBlobService struct{}

func (DisabledBlobService) UploadToDir(context.Context, string, *multipart.FileHeader) (string, string, error) {
	return "", "", ErrBlobDisabled
}

func (DisabledBlobService) DeleteObject(context.Context, string) error { return nil }

/* =========================
   Mock (untuk test)
   ========================= */

type MockBlobService struct {
	mu      sync.Mutex
	Objects map[string]string // key → dir
	Deleted []string
	BaseURL string
}

func NewMockBlobService() *MockBlobService {
	return &MockBlobService{Objects: map[string]string{}, BaseURL: "https://blob.test"}
}

func (m *MockBlobService) UploadToDir(_ context.Context, dir string, fh *multipart.FileHeader) (string, string, error) {
	if fh == nil {
		return "", "", errors.New("nil file header")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dir + "/" + fh.Filename
	m.Objects[key] = dir
	return m.BaseURL + "/" + key, key, nil
}

func (m *MockBlobService) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}

/* =========================
   Multipart helpers
   ========================= */

// IsMultipart menilai request multipart/form-data
func IsMultipart(c *fiber.Ctx) bool {
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	return strings.HasPrefix(ct, "multipart/form-data")
}

var defaultImageFields = []string{"photo", "image", "file"}

// GetImageFile mencari file dari beberapa kemungkinan field form.
// Jika tidak ada file, kembalikan (nil, nil) supaya controller bisa balas 422.
func GetImageFile(c *fiber.Ctx, fieldNames ...string) (*multipart.FileHeader, error) {
	if !IsMultipart(c) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Gunakan multipart/form-data")
	}
	names := fieldNames
	if len(names) == 0 {
		names = defaultImageFields
	}
	for _, fn := range names {
		if fh, err := c.FormFile(fn); err == nil && fh != nil {
			return fh, nil
		}
	}
	return nil, nil
}
