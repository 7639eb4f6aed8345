package annotations

import (
	"context"
	"fmt"
	"log/slog"

	"sitecam/internal/timecode"
	"sitecam/internal/timeline"

	"github.com/brianvoe/gofakeit/v6"
)

// Seed fills the store with n demo artifacts spread over clips, written the
// way older clients recorded clip times (canonical, compact, unpadded and
// file-name forms). It bypasses request validation and returns how many
// artifacts were stored.
func (s *Service) Seed(ctx context.Context, clips []timeline.Clip, n int, seed int64) (int, error) {
	const op = "annotations.Service.Seed"

	if len(clips) == 0 || n <= 0 {
		return 0, nil
	}

	faker := gofakeit.New(seed)
	created := 0
	for i := 0; i < n; i++ {
		c := clips[faker.IntRange(0, len(clips)-1)]
		kind := timeline.Kinds[faker.IntRange(0, len(timeline.Kinds)-1)]

		a := timeline.Artifact{
			Kind:      kind,
			Date:      c.Date,
			ClipTime:  legacyClipTime(faker, c),
			VideoTime: timecode.SecondsToClock(float64(faker.IntRange(0, timecode.SlotMinutes*60-1))),
			Content:   faker.Sentence(faker.IntRange(3, 8)),
		}
		if kind == timeline.KindNoteFlag {
			a.IsFlag = faker.Bool()
		}

		if _, err := s.store.Create(ctx, a); err != nil {
			return created, fmt.Errorf("%s: %w", op, err)
		}
		s.metrics.IncArtifactsCreated(string(kind))
		created++
	}

	s.log.Info("demo artifacts seeded", slog.String("op", op), slog.Int("count", created))
	return created, nil
}

func legacyClipTime(faker *gofakeit.Faker, c timeline.Clip) string {
	m, err := timecode.ParseKey(c.StartTime)
	if err != nil {
		return c.StartTime
	}
	switch faker.IntRange(0, 3) {
	case 1:
		return fmt.Sprintf("%02d%02d", m.Hour(), m.MinuteOfHour())
	case 2:
		return fmt.Sprintf("%d%02d", m.Hour(), m.MinuteOfHour())
	case 3:
		return c.Key
	default:
		return m.Key()
	}
}
