package annotations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"sitecam/internal/platform/logger"
	"sitecam/internal/platform/metrics"
	"sitecam/internal/timecode"
	"sitecam/internal/timeline"

	"github.com/go-playground/validator/v10"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// CreateRequest is the body of a create call. ClipTime may be any format the
// clip-time normalizer accepts; it is stored as a canonical HH:MM key.
type CreateRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	ClipTime  string `json:"clipTime" validate:"required,max=64"`
	VideoTime string `json:"videoTime" validate:"omitempty,clock"`
	Content   string `json:"content" validate:"max=2000"`
	IsFlag    bool   `json:"isFlag"`
}

// UpdateRequest is the body of a partial update. Nil fields are left as is.
type UpdateRequest struct {
	ClipTime  *string `json:"clipTime" validate:"omitempty,max=64"`
	VideoTime *string `json:"videoTime" validate:"omitempty,clock"`
	Content   *string `json:"content" validate:"omitempty,max=2000"`
	IsFlag    *bool   `json:"isFlag"`
}

// SearchHit is one artifact matched by Search, ranked by Distance.
type SearchHit struct {
	timeline.Artifact
	Distance int `json:"distance"`
}

// Service applies validation and business rules and delegates storage to Store.
type Service struct {
	store    Store
	validate *validator.Validate
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// NewService returns a Service over store. log and m may be nil.
func NewService(store Store, log *slog.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:    store,
		validate: newValidator(),
		log:      log,
		metrics:  m,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return isClock(fl.Field().String())
	})
	return v
}

// isClock accepts MM:SS video positions as produced by timecode.SecondsToClock.
func isClock(s string) bool {
	mm, ss, ok := strings.Cut(s, ":")
	if !ok || len(ss) != 2 || mm == "" || len(mm) > 4 {
		return false
	}
	for _, r := range mm + ss {
		if r < '0' || r > '9' {
			return false
		}
	}
	return ss[0] <= '5'
}

// List returns the artifacts of kind on date.
func (s *Service) List(ctx context.Context, kind timeline.Kind, date string) ([]timeline.Artifact, error) {
	const op = "annotations.Service.List"

	if !kind.Valid() {
		return nil, fmt.Errorf("%s: %q: %w", op, kind, ErrUnknownKind)
	}

	items, err := s.store.List(ctx, kind, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// ForDay returns every artifact of every kind on date, ready for the matcher.
func (s *Service) ForDay(ctx context.Context, date string) ([]timeline.Artifact, error) {
	const op = "annotations.Service.ForDay"

	var all []timeline.Artifact
	for _, kind := range timeline.Kinds {
		items, err := s.store.List(ctx, kind, date)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		all = append(all, items...)
	}
	return all, nil
}

// Get returns one artifact.
func (s *Service) Get(ctx context.Context, kind timeline.Kind, id int64) (timeline.Artifact, error) {
	const op = "annotations.Service.Get"

	if !kind.Valid() {
		return timeline.Artifact{}, fmt.Errorf("%s: %q: %w", op, kind, ErrUnknownKind)
	}

	a, err := s.store.Get(ctx, kind, id)
	if err != nil {
		return timeline.Artifact{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// Create validates req and stores a new artifact of kind.
func (s *Service) Create(ctx context.Context, kind timeline.Kind, req CreateRequest) (timeline.Artifact, error) {
	const op = "annotations.Service.Create"

	if !kind.Valid() {
		return timeline.Artifact{}, fmt.Errorf("%s: %q: %w", op, kind, ErrUnknownKind)
	}
	if err := s.validate.Struct(req); err != nil {
		return timeline.Artifact{}, fmt.Errorf("%s: %w: %s", op, ErrInvalidInput, validationMessage(err))
	}

	clipTime, err := canonicalClipTime(req.ClipTime)
	if err != nil {
		return timeline.Artifact{}, fmt.Errorf("%s: %w", op, err)
	}

	a := timeline.Artifact{
		Kind:      kind,
		Date:      req.Date,
		ClipTime:  clipTime,
		VideoTime: req.VideoTime,
		Content:   strings.TrimSpace(req.Content),
		IsFlag:    req.IsFlag,
	}
	if err := checkKindRules(a); err != nil {
		return timeline.Artifact{}, fmt.Errorf("%s: %w", op, err)
	}

	a, err = s.store.Create(ctx, a)
	if err != nil {
		s.log.Error("create artifact failed", slog.String("op", op), logger.Err(err))
		return timeline.Artifact{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("artifact created",
		slog.String("op", op),
		slog.String("kind", string(kind)),
		slog.Int64("id", a.ID),
		slog.String("date", a.Date),
		slog.String("clip_time", a.ClipTime))
	s.metrics.IncArtifactsCreated(string(kind))
	return a, nil
}

// Update applies the non-nil fields of req to the artifact.
func (s *Service) Update(ctx context.Context, kind timeline.Kind, id int64, req UpdateRequest) (timeline.Artifact, error) {
	const op = "annotations.Service.Update"

	if !kind.Valid() {
		return timeline.Artifact{}, fmt.Errorf("%s: %q: %w", op, kind, ErrUnknownKind)
	}
	if err := s.validate.Struct(req); err != nil {
		return timeline.Artifact{}, fmt.Errorf("%s: %w: %s", op, ErrInvalidInput, validationMessage(err))
	}

	a, err := s.store.Get(ctx, kind, id)
	if err != nil {
		return timeline.Artifact{}, fmt.Errorf("%s: %w", op, err)
	}

	if req.ClipTime != nil {
		clipTime, err := canonicalClipTime(*req.ClipTime)
		if err != nil {
			return timeline.Artifact{}, fmt.Errorf("%s: %w", op, err)
		}
		a.ClipTime = clipTime
	}
	if req.VideoTime != nil {
		a.VideoTime = *req.VideoTime
	}
	if req.Content != nil {
		a.Content = strings.TrimSpace(*req.Content)
	}
	if req.IsFlag != nil {
		a.IsFlag = *req.IsFlag
	}
	if err := checkKindRules(a); err != nil {
		return timeline.Artifact{}, fmt.Errorf("%s: %w", op, err)
	}

	a, err = s.store.Update(ctx, a)
	if err != nil {
		return timeline.Artifact{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// Delete removes one artifact.
func (s *Service) Delete(ctx context.Context, kind timeline.Kind, id int64) error {
	const op = "annotations.Service.Delete"

	if !kind.Valid() {
		return fmt.Errorf("%s: %q: %w", op, kind, ErrUnknownKind)
	}
	if err := s.store.Delete(ctx, kind, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("artifact deleted", slog.String("op", op), slog.String("kind", string(kind)), slog.Int64("id", id))
	s.metrics.IncArtifactsDeleted(string(kind))
	return nil
}

// Search ranks the artifacts of kind on date whose content fuzzily contains q.
// Closest matches come first.
func (s *Service) Search(ctx context.Context, kind timeline.Kind, date, q string) ([]SearchHit, error) {
	const op = "annotations.Service.Search"

	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%s: %w: empty query", op, ErrInvalidInput)
	}

	items, err := s.List(ctx, kind, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	contents := make([]string, len(items))
	for i, a := range items {
		contents[i] = a.Content
	}

	ranks := fuzzy.RankFindNormalizedFold(q, contents)
	hits := make([]SearchHit, 0, len(ranks))
	for _, r := range ranks {
		hits = append(hits, SearchHit{Artifact: items[r.OriginalIndex], Distance: r.Distance})
	}
	slices.SortStableFunc(hits, func(a, b SearchHit) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return int(a.ID - b.ID)
	})
	return hits, nil
}

// Counts returns how many artifacts of each kind are stored.
func (s *Service) Counts(ctx context.Context) (map[timeline.Kind]int, error) {
	const op = "annotations.Service.Counts"

	out := make(map[timeline.Kind]int, len(timeline.Kinds))
	for _, kind := range timeline.Kinds {
		n, err := s.store.Count(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out[kind] = n
	}
	return out, nil
}

func canonicalClipTime(raw string) (string, error) {
	n, err := timecode.NormalizeClipTime(raw)
	if err != nil {
		return "", fmt.Errorf("%w: clipTime: %s", ErrInvalidInput, err)
	}
	return n.Minute.Key(), nil
}

// checkKindRules rejects artifacts that would be invisible in every view.
func checkKindRules(a timeline.Artifact) error {
	switch a.Kind {
	case timeline.KindAnnotation:
		if a.Content == "" {
			return fmt.Errorf("%w: annotation content is required", ErrInvalidInput)
		}
	case timeline.KindNoteFlag:
		if a.Content == "" && !a.IsFlag {
			return fmt.Errorf("%w: a note/flag needs content or isFlag", ErrInvalidInput)
		}
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, ", ")
}
