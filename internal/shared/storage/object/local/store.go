package local

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"practice-backend/internal/shared/storage/object"
)

// FilesRoute is the path prefix under which signed local downloads are served.
const FilesRoute = "/api/v1/referrals/files/"

var (
	// ErrSigningDisabled is returned when no signing key is configured.
	ErrSigningDisabled = errors.New("local signing key not configured")
	// ErrInvalidSignature is returned for tampered or expired download links.
	ErrInvalidSignature = errors.New("invalid or expired signature")
)

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir    string
	baseURL    string
	signingKey []byte
	now        func() time.Time
}

// New creates a new local object store rooted at baseDir. Signed URLs point at
// baseURL + FilesRoute and are only available when signingKey is non-empty.
func New(baseDir, baseURL, signingKey string) *Store {
	return &Store{
		baseDir:    baseDir,
		baseURL:    strings.TrimRight(baseURL, "/"),
		signingKey: []byte(signingKey),
		now:        time.Now,
	}
}

// Create writes the reader to disk at key, failing if the file already exists.
// The declared content type is not persisted; the download route always
// serves local objects as application/pdf.
func (s *Store) Create(ctx context.Context, key string, _ string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	fullPath, err := s.resolve(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return 0, fmt.Errorf("key=%s: %w", key, object.ErrObjectExists)
		}
		return 0, fmt.Errorf("open file: %w", err)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(fullPath)
		return 0, fmt.Errorf("write body: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(fullPath)
		return 0, fmt.Errorf("close file: %w", err)
	}
	return written, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("key=%s: %w", key, object.ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

// SignedURL returns an HMAC-signed download link for key.
func (s *Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.signingKey) == 0 {
		return "", ErrSigningDisabled
	}
	if _, err := s.resolve(key); err != nil {
		return "", err
	}

	expires := s.now().Add(object.ClampTTL(ttl)).Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", s.sign(key, expires))
	return s.baseURL + FilesRoute + url.PathEscape(key) + "?" + q.Encode(), nil
}

// Verify checks a signature produced by SignedURL.
func (s *Store) Verify(key, expiresRaw, signature string) error {
	if len(s.signingKey) == 0 {
		return ErrSigningDisabled
	}
	expires, err := strconv.ParseInt(expiresRaw, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	if s.now().Unix() > expires {
		return ErrInvalidSignature
	}
	want := s.sign(key, expires)
	if !hmac.Equal([]byte(want), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

func (s *Store) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, s.signingKey)
	mac.Write([]byte(key))
	mac.Write([]byte{'\n'})
	mac.Write([]byte(strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Store) resolve(key string) (string, error) {
	clean := filepath.Clean(key)
	if key == "" || clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(s.baseDir, clean), nil
}

var _ object.ObjectStore = (*Store)(nil)
