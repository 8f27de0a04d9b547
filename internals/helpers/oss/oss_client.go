// internals/helpers/oss/oss_client.go
package helper

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"go.uber.org/zap"
)

// batas ukuran upload (foto siswa / bukti pembayaran)
var maxUploadSize = int64(5 * 1024 * 1024)

type Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	SecurityToken string
	Bucket        string
	PublicBase    string // optional: CDN / custom domain
	Prefix        string // optional: "paud/"
}

func (o Options) Configured() bool {
	return o.Endpoint != "" && o.AccessKey != "" && o.SecretKey != "" && o.Bucket != ""
}

/* =======================================================================
   OSS Service
======================================================================= */

type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	PublicBase string
	Prefix     string
}

func NewOSSService(o Options) (*OSSService, error) {
	if !o.Configured() {
		return nil, fmt.Errorf("missing config: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var (
		client *oss.Client
		err    error
	)
	if o.SecurityToken != "" {
		client, err = oss.New(o.Endpoint, o.AccessKey, o.SecretKey, oss.SecurityToken(o.SecurityToken))
	} else {
		client, err = oss.New(o.Endpoint, o.AccessKey, o.SecretKey)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(o.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// Verifikasi ringan lokasi bucket
	if loc, err := client.GetBucketLocation(o.Bucket); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 && se.Code == "AccessDenied" {
			zap.L().Warn("[OSS] skip location check due to AccessDenied", zap.String("bucket", o.Bucket))
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		zap.L().Info("[OSS] bucket ready", zap.String("bucket", o.Bucket), zap.String("location", loc))
	}

	return &OSSService{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   o.Endpoint,
		BucketName: o.Bucket,
		PublicBase: strings.TrimRight(o.PublicBase, "/"),
		Prefix:     strings.Trim(o.Prefix, "/"),
	}, nil
}

// UploadToDir: upload apa adanya (tanpa recompress) ke dir/<nama>_<ts>_<rand>.<ext>
func (s *OSSService) UploadToDir(ctx context.Context, dir string, fh *multipart.FileHeader) (publicURL, key string, err error) {
	if fh == nil {
		return "", "", fmt.Errorf("nil file header")
	}
	if fh.Size > maxUploadSize {
		return "", "", fmt.Errorf("file too large (max %d bytes)", maxUploadSize)
	}

	src, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	ct, reader, err := detectContentType(src, fh.Filename)
	if err != nil {
		return "", "", err
	}

	key = s.buildObjectKey(dir, fh.Filename)
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(ct),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := s.Bucket.PutObject(key, reader, opts...); err != nil {
		return "", "", err
	}
	return s.PublicURL(key), key, nil
}

func (s *OSSService) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

/* =======================================================================
   Public URL & Key utils
======================================================================= */

func (s *OSSService) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.PublicBase != "" {
		return s.PublicBase + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, end, key)
}

func (s *OSSService) buildObjectKey(dir, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" {
		base = "file"
	}
	ts := time.Now().Format("20060102_150405")

	parts := make([]string, 0, 3)
	for _, p := range []string{s.Prefix, strings.Trim(dir, "/")} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, fmt.Sprintf("%s_%s_%s%s", slugify(base), ts, randHex(3), ext))
	return strings.Join(parts, "/")
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "file"
	}
	return out
}

func randHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "000000"[:n*2]
	}
	return hex.EncodeToString(buf)
}

// detectContentType sniff 512 byte pertama; fallback ke ekstensi file.
func detectContentType(src multipart.File, filename string) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, fmt.Errorf("read file: %w", err)
	}
	head = head[:n]

	ct := http.DetectContentType(head)
	if ct == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
			ct = byExt
		}
	}
	return ct, io.MultiReader(strings.NewReader(string(head)), src), nil
}
