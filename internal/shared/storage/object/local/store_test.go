package local

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"practice-backend/internal/shared/storage/object"
)

func TestCreateNeverOverwrites(t *testing.T) {
	store := New(t.TempDir(), "http://localhost:8080", "secret")
	ctx := context.Background()

	n, err := store.Create(ctx, "1700000000000_jean.pdf", "application/pdf", strings.NewReader("%PDF-1.4 first"))
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if n != int64(len("%PDF-1.4 first")) {
		t.Fatalf("unexpected size %d", n)
	}

	_, err = store.Create(ctx, "1700000000000_jean.pdf", "application/pdf", strings.NewReader("%PDF-1.4 second"))
	if !errors.Is(err, object.ErrObjectExists) {
		t.Fatalf("expected ErrObjectExists, got %v", err)
	}

	rc, err := store.Open(ctx, "1700000000000_jean.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "%PDF-1.4 first" {
		t.Fatalf("content replaced: %q", data)
	}
}

func TestCreateRejectsTraversal(t *testing.T) {
	store := New(t.TempDir(), "", "")
	if _, err := store.Create(context.Background(), "../escape.pdf", "application/pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
}

func TestOpenMissingReturnsNotFound(t *testing.T) {
	store := New(t.TempDir(), "", "")
	_, err := store.Open(context.Background(), "missing.pdf")
	if !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSignedURLRoundTrip(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	store := New(t.TempDir(), "https://practice.example/", "secret")
	store.now = func() time.Time { return now }

	raw, err := store.SignedURL(context.Background(), "1700000000000_jean.pdf", 7*24*time.Hour)
	if err != nil {
		t.Fatalf("signed url: %v", err)
	}
	if !strings.HasPrefix(raw, "https://practice.example"+FilesRoute+"1700000000000_jean.pdf?") {
		t.Fatalf("unexpected url %s", raw)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := parsed.Query()
	wantExpires := now.Add(7 * 24 * time.Hour).Unix()
	if q.Get("expires") != strconv.FormatInt(wantExpires, 10) {
		t.Fatalf("unexpected expires %s", q.Get("expires"))
	}
	if err := store.Verify("1700000000000_jean.pdf", q.Get("expires"), q.Get("signature")); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := store.Verify("other.pdf", q.Get("expires"), q.Get("signature")); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected signature mismatch for other key, got %v", err)
	}

	store.now = func() time.Time { return now.Add(8 * 24 * time.Hour) }
	if err := store.Verify("1700000000000_jean.pdf", q.Get("expires"), q.Get("signature")); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestSignedURLRequiresKey(t *testing.T) {
	store := New(t.TempDir(), "http://localhost:8080", "")
	if _, err := store.SignedURL(context.Background(), "a.pdf", time.Hour); !errors.Is(err, ErrSigningDisabled) {
		t.Fatalf("expected ErrSigningDisabled, got %v", err)
	}
}
