package footage

import (
	"context"
	"fmt"
	"log/slog"

	"sitecam/internal/platform/logger"
	"sitecam/internal/timecode"
	"sitecam/internal/timeline"
)

// Service is the clip repository used by the HTTP layer and the CLI.
type Service struct {
	catalog  Catalog
	resolver *Resolver
	window   int
	log      *slog.Logger
}

// NewService returns a Service listing clips from catalog and resolving URLs
// through resolver. Playlists hold at most window clips; window <= 0 means
// DefaultPlaylistWindow.
func NewService(catalog Catalog, resolver *Resolver, window int, log *slog.Logger) *Service {
	if window <= 0 {
		window = DefaultPlaylistWindow
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{catalog: catalog, resolver: resolver, window: window, log: log}
}

// Resolver exposes the URL resolver for a Player.
func (s *Service) Resolver() *Resolver { return s.resolver }

// ListClips returns the clips of date sorted by start time.
func (s *Service) ListClips(ctx context.Context, date string) ([]timeline.Clip, error) {
	const op = "footage.Service.ListClips"

	clips, err := s.catalog.ListClips(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	timeline.SortClips(clips)

	s.log.Debug("clips listed",
		slog.String("op", op),
		slog.String("date", date),
		slog.Int("count", len(clips)))
	return clips, nil
}

// ResolveURL returns the playable URL of the clip stored under key.
func (s *Service) ResolveURL(ctx context.Context, key string) (string, error) {
	const op = "footage.Service.ResolveURL"

	u, err := s.resolver.ResolveURL(ctx, key)
	if err != nil {
		s.log.Debug("clip url not resolved", slog.String("op", op), slog.String("key", key), logger.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Playlist renders the consecutive run of date starting at from (HH:MM, or
// empty for the first clip of the day). from must name an existing clip.
func (s *Service) Playlist(ctx context.Context, date, from string) (string, error) {
	const op = "footage.Service.Playlist"

	if from != "" {
		m, err := timecode.ParseKey(from)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, ErrClipNotFound)
		}
		from = m.Key()
	}

	clips, err := s.ListClips(ctx, date)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	run, complete := ConsecutiveRun(clips, from, s.window)
	if from != "" && len(run) == 0 {
		return "", fmt.Errorf("%s: %s %s: %w", op, date, from, ErrClipNotFound)
	}

	entries := make([]PlaylistEntry, 0, len(run))
	for _, c := range run {
		u, err := s.resolver.ResolveURL(ctx, c.Key)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		entries = append(entries, PlaylistEntry{Clip: c, URL: u})
	}

	return BuildPlaylist(entries, complete), nil
}

// LatestClip returns the most recent clip of date, or nil when there is none.
func (s *Service) LatestClip(ctx context.Context, date string) (*timeline.Clip, error) {
	const op = "footage.Service.LatestClip"

	clips, err := s.ListClips(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(clips) == 0 {
		return nil, nil
	}
	latest := clips[len(clips)-1]
	return &latest, nil
}
