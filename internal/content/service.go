package content

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"practice-backend/internal/shared/metrics"
	"practice-backend/internal/shared/telemetry"
)

var (
	ErrUnknownLanguage = errors.New("Unknown language")
	ErrNotConfigured   = errors.New("Content storage is not configured")
	ErrInvalidDocument = errors.New("Invalid content document")
)

// Service resolves site content. Repo and Cache are optional; without a
// Repo the embedded defaults are served unchanged.
type Service struct {
	Repo  Repo
	Cache Cache
	TTL   time.Duration

	defaults map[string]any
}

// NewService loads the embedded defaults.
func NewService(repo Repo, cache Cache, ttl time.Duration) (*Service, error) {
	defaults, err := Defaults()
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{Repo: repo, Cache: cache, TTL: ttl, defaults: defaults}, nil
}

// Resolved returns defaults merged with any stored overrides. Load and
// cache failures are logged and never surfaced.
func (s *Service) Resolved(ctx context.Context) map[string]any {
	if doc, ok := s.fromCache(ctx); ok {
		return doc
	}

	overrides, ok := s.loadOverrides(ctx)
	resolved := Resolve(s.defaults, overrides)
	if ok {
		s.toCache(ctx, resolved)
	}
	return resolved
}

// Language returns the resolved document for one language.
func (s *Service) Language(ctx context.Context, lang string) (map[string]any, error) {
	doc, ok := s.Resolved(ctx)[lang].(map[string]any)
	if !ok || !knownLanguage(lang) {
		return nil, ErrUnknownLanguage
	}
	return doc, nil
}

// SaveOverrides stores doc as the override document and drops the cached
// resolution.
func (s *Service) SaveOverrides(ctx context.Context, doc map[string]any) error {
	if s.Repo == nil {
		return ErrNotConfigured
	}
	if doc == nil {
		return ErrInvalidDocument
	}
	if err := s.Repo.Save(ctx, doc); err != nil {
		return err
	}
	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, CacheKey); err != nil {
			telemetry.Warn("content.cache.invalidate_failed", map[string]any{"error": err})
		}
	}
	telemetry.Info("content.overrides.saved", map[string]any{"keys": len(doc)})
	return nil
}

// loadOverrides reports ok=false when the stored document could not be read,
// in which case the result must not be cached.
func (s *Service) loadOverrides(ctx context.Context) (map[string]any, bool) {
	if s.Repo == nil {
		return nil, true
	}
	doc, err := s.Repo.Load(ctx)
	switch {
	case errors.Is(err, ErrNoOverrides):
		return nil, true
	case err != nil:
		metrics.IncContentOverrideFailure()
		telemetry.Warn("content.overrides.load_failed", map[string]any{"error": err})
		return nil, false
	}
	return doc, true
}

func (s *Service) fromCache(ctx context.Context) (map[string]any, bool) {
	if s.Cache == nil {
		return nil, false
	}
	raw, ok, err := s.Cache.Get(ctx, CacheKey)
	if err != nil {
		telemetry.Warn("content.cache.get_failed", map[string]any{"error": err})
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		telemetry.Warn("content.cache.decode_failed", map[string]any{"error": err})
		return nil, false
	}
	return doc, true
}

func (s *Service) toCache(ctx context.Context, doc map[string]any) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, CacheKey, raw, s.TTL); err != nil {
		telemetry.Warn("content.cache.set_failed", map[string]any{"error": err})
	}
}

func knownLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}
