// Package sharing issues expiring links to a single clip.
package sharing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"sitecam/internal/platform/metrics"
	"sitecam/internal/timeline"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultTTL is how long a share stays valid when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

var (
	ErrNotFound     = errors.New("share not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Share is a link to one clip. Recipients are recorded only; delivery is
// handled elsewhere.
type Share struct {
	Token      string    `json:"token"`
	ClipKey    string    `json:"clipKey"`
	Date       string    `json:"date"`
	StartTime  string    `json:"startTime"`
	URL        string    `json:"url"`
	Message    string    `json:"message,omitempty"`
	Recipients []string  `json:"recipients,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// CreateRequest is the body of POST /api/shares.
type CreateRequest struct {
	ClipKey    string   `json:"clipKey" validate:"required"`
	Message    string   `json:"message" validate:"max=500"`
	Recipients []string `json:"recipients" validate:"max=20,dive,email"`
}

// Service keeps shares in memory until they expire.
type Service struct {
	resolver timeline.URLResolver
	ttl      time.Duration
	now      func() time.Time
	validate *validator.Validate
	log      *slog.Logger
	metrics  *metrics.Metrics

	mu     sync.Mutex
	shares map[string]Share
}

// NewService returns a Service checking clips through resolver.
// ttl <= 0 means DefaultTTL; log and m may be nil.
func NewService(resolver timeline.URLResolver, ttl time.Duration, log *slog.Logger, m *metrics.Metrics) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{
		resolver: resolver,
		ttl:      ttl,
		now:      time.Now,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
		metrics:  m,
		shares:   make(map[string]Share),
	}
}

// Create issues a share for the clip named in req.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Share, error) {
	const op = "sharing.Service.Create"

	if err := s.validate.Struct(req); err != nil {
		return Share{}, fmt.Errorf("%s: %w: %s", op, ErrInvalidInput, err)
	}

	date, start, ok := timeline.ParseClipKey(req.ClipKey)
	if !ok {
		return Share{}, fmt.Errorf("%s: %w: malformed clip key %q", op, ErrInvalidInput, req.ClipKey)
	}

	u, err := s.resolver.ResolveURL(ctx, req.ClipKey)
	if err != nil {
		return Share{}, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	sh := Share{
		Token:      uuid.New().String(),
		ClipKey:    req.ClipKey,
		Date:       date,
		StartTime:  start.Key(),
		URL:        u,
		Message:    strings.TrimSpace(req.Message),
		Recipients: req.Recipients,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}

	s.mu.Lock()
	s.shares[sh.Token] = sh
	s.mu.Unlock()

	s.log.Info("share created",
		slog.String("op", op),
		slog.String("clip_key", sh.ClipKey),
		slog.Int("recipients", len(sh.Recipients)),
		slog.Time("expires_at", sh.ExpiresAt))
	s.metrics.IncSharesCreated()
	return sh, nil
}

// Get returns the share issued under token. Expired shares are dropped and
// reported as ErrNotFound.
func (s *Service) Get(_ context.Context, token string) (Share, error) {
	const op = "sharing.Service.Get"

	s.mu.Lock()
	defer s.mu.Unlock()

	sh, ok := s.shares[token]
	if !ok {
		return Share{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if !s.now().Before(sh.ExpiresAt) {
		delete(s.shares, token)
		return Share{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return sh, nil
}

// Purge drops every expired share and returns how many were removed.
func (s *Service) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for token, sh := range s.shares {
		if !now.Before(sh.ExpiresAt) {
			delete(s.shares, token)
			n++
		}
	}
	return n
}
