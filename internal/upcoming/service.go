package upcoming

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultMaxItems    = 20
	DefaultExpiryGrace = 24 * time.Hour
)

// Input is the full field set supplied for both create and update.
type Input struct {
	Title        string
	ContentType  ContentType
	Genres       []string
	ReleaseDate  time.Time
	Order        string
	RatingType   *RatingType
	Directors    []string
	Writers      []string
	Cast         []string
	Description  string
	ThumbnailURL string
	TrailerURL   string
}

type Service interface {
	Create(ctx context.Context, in Input) (*Content, error)
	GetByID(ctx context.Context, id string) (*Content, error)
	List(ctx context.Context) ([]*Content, error)
	Update(ctx context.Context, id string, in Input) (*Content, error)
	Delete(ctx context.Context, id string) error
}

// Options tunes the registry. Zero values fall back to the defaults.
type Options struct {
	MaxItems    int
	ExpiryGrace time.Duration
	Now         func() time.Time
	Logger      zerolog.Logger
}

type service struct {
	repo        Repository
	cache       Cache
	notifier    Notifier
	maxItems    int
	expiryGrace time.Duration
	now         func() time.Time
	logger      zerolog.Logger

	// listGen advances on every invalidation. A List read only fills the
	// cache if no invalidation happened while it was reading.
	listMu  sync.Mutex
	listGen uint64
}

func NewService(repo Repository, cache Cache, notifier Notifier, opts Options) Service {
	s := &service{
		repo:        repo,
		cache:       cache,
		notifier:    notifier,
		maxItems:    opts.MaxItems,
		expiryGrace: opts.ExpiryGrace,
		now:         opts.Now,
		logger:      opts.Logger.With().Str("component", "upcoming").Logger(),
	}
	if s.maxItems <= 0 {
		s.maxItems = DefaultMaxItems
	}
	if s.expiryGrace <= 0 {
		s.expiryGrace = DefaultExpiryGrace
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Create(ctx context.Context, in Input) (*Content, error) {
	c, err := build(in)
	if err != nil {
		s.fail(ctx, "create", err)
		return nil, err
	}

	err = s.repo.WithinTx(ctx, func(repo Repository) error {
		if err := repo.LockOrdering(ctx); err != nil {
			return err
		}

		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if n >= s.maxItems {
			return ErrCapacityExceeded
		}

		if err := s.makeRoom(ctx, repo, c.Order, ""); err != nil {
			return err
		}
		return repo.Create(ctx, c)
	})
	if err != nil {
		s.fail(ctx, "create", err)
		return nil, err
	}

	s.invalidateList()
	s.succeed(ctx, "create", "upcoming content created")
	s.sweepExpired(ctx)

	return c, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Content, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Content, error) {
	if items, ok := s.cache.Get(CollectionKey); ok {
		return items, nil
	}

	s.listMu.Lock()
	gen := s.listGen
	s.listMu.Unlock()

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.listMu.Lock()
	if s.listGen == gen {
		s.cache.Set(CollectionKey, items)
	}
	s.listMu.Unlock()
	return items, nil
}

func (s *service) Update(ctx context.Context, id string, in Input) (*Content, error) {
	c, err := build(in)
	if err != nil {
		s.fail(ctx, "update", err)
		return nil, err
	}
	c.ID = id

	err = s.repo.WithinTx(ctx, func(repo Repository) error {
		if err := repo.LockOrdering(ctx); err != nil {
			return err
		}

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if c.Order != current.Order {
			if err := s.makeRoom(ctx, repo, c.Order, id); err != nil {
				return err
			}
		}
		return repo.Update(ctx, c)
	})
	if err != nil {
		s.fail(ctx, "update", err)
		return nil, err
	}

	s.invalidateList()
	s.succeed(ctx, "update", "upcoming content updated")
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.fail(ctx, "delete", err)
		return err
	}

	s.invalidateList()
	s.succeed(ctx, "delete", "upcoming content deleted")
	return nil
}

// makeRoom frees target for the caller's record by pushing every other record
// at or above it up by one.
func (s *service) makeRoom(ctx context.Context, repo Repository, target int, excludeID string) error {
	taken, err := repo.OrderTaken(ctx, target, excludeID)
	if err != nil {
		return err
	}
	if !taken {
		return nil
	}

	slots, err := repo.SlotsFrom(ctx, target, excludeID)
	if err != nil {
		return err
	}

	shifts := PlanShift(slots, target, excludeID)
	for _, sh := range shifts {
		if err := repo.SetOrder(ctx, sh.ID, sh.To); err != nil {
			return err
		}
	}

	s.logger.Debug().Int("target", target).Int("shifted", len(shifts)).Msg("made room in content order")
	return nil
}

// sweepExpired removes entries released more than the grace period ago.
// Failures are logged and never reach the caller.
func (s *service) sweepExpired(ctx context.Context) {
	cutoff := truncateDate(s.now()).Add(-s.expiryGrace)

	n, err := s.repo.DeleteReleasedBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error().Err(err).Time("cutoff", cutoff).Msg("expiry sweep failed")
		return
	}
	if n > 0 {
		s.invalidateList()
		s.logger.Info().Int64("removed", n).Time("cutoff", cutoff).Msg("expired upcoming contents removed")
	}
}

func (s *service) invalidateList() {
	s.listMu.Lock()
	defer s.listMu.Unlock()

	s.listGen++
	s.cache.Invalidate(CollectionKey)
}

func (s *service) succeed(ctx context.Context, action, msg string) {
	s.notifier.Notify(ctx, Notice{Level: NoticeSuccess, Action: action, Message: msg})
}

func (s *service) fail(ctx context.Context, action string, err error) {
	s.notifier.Notify(ctx, Notice{Level: NoticeError, Action: action, Message: ErrorMessage(err)})
}

func build(in Input) (*Content, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if !in.ContentType.Valid() {
		return nil, ErrInvalidContentType
	}
	if in.RatingType != nil && !in.RatingType.Valid() {
		return nil, ErrInvalidRatingType
	}

	order, err := ParseOrder(in.Order)
	if err != nil {
		return nil, err
	}

	return &Content{
		Title:        title,
		ContentType:  in.ContentType,
		Genres:       uniqueTags(in.Genres),
		ReleaseDate:  truncateDate(in.ReleaseDate),
		Order:        order,
		RatingType:   in.RatingType,
		Directors:    cleanList(in.Directors),
		Writers:      cleanList(in.Writers),
		Cast:         cleanList(in.Cast),
		Description:  in.Description,
		ThumbnailURL: strings.TrimSpace(in.ThumbnailURL),
		TrailerURL:   strings.TrimSpace(in.TrailerURL),
	}, nil
}

// uniqueTags trims tags and drops blanks and duplicates, keeping first-seen order.
func uniqueTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
