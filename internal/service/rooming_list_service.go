package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"rooming-data/internal/domain"
	"rooming-data/internal/engine"
	"rooming-data/internal/metrics"
	"rooming-data/internal/querystate"
	"rooming-data/internal/repository"

	"go.uber.org/zap"
)

// Catalog is an immutable snapshot of the collection and its status catalog.
type Catalog struct {
	Records  []*domain.RoomingList
	Statuses []string
	LoadedAt time.Time
}

func newCatalog(records []*domain.RoomingList, at time.Time) *Catalog {
	return &Catalog{Records: records, Statuses: engine.Statuses(records), LoadedAt: at}
}

// RoomingListService serves queries over the rooming list catalog.
type RoomingListService interface {
	// Load returns the current snapshot, loading it on first use.
	Load(ctx context.Context) (*Catalog, error)
	// Reload reads the source again. On failure the previous snapshot stays.
	Reload(ctx context.Context) (*Catalog, error)
	// Snapshot returns the current snapshot without loading.
	Snapshot() (*Catalog, bool)

	ListRoomingLists(ctx context.Context, req ListRoomingListsRequest) (*ListRoomingListsResponse, error)
	GetRoomingList(ctx context.Context, roomingListID int) (*domain.RoomingList, error)
	ListStatuses(ctx context.Context) ([]string, error)

	CreateRoomingList(ctx context.Context, list *domain.RoomingList) (*domain.RoomingList, error)
	UpdateRoomingList(ctx context.Context, roomingListID int, list *domain.RoomingList) (*domain.RoomingList, error)
	DeleteRoomingList(ctx context.Context, roomingListID int) error
}

type ListRoomingListsRequest struct {
	Query querystate.State
}

type ListRoomingListsResponse struct {
	Groups   []domain.EventGroup
	Matched  int
	Total    int
	Statuses []string
}

// Invalidator is implemented by cached repositories; Reload calls it before
// reading the source again.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// ReloadPublisher announces a new catalog snapshot.
type ReloadPublisher interface {
	PublishReload(ctx context.Context, c *Catalog) error
}

type RoomingListServiceOptions struct {
	Metrics   *metrics.Metrics
	Publisher ReloadPublisher
	Now       func() time.Time
}

type roomingListService struct {
	repo      repository.RoomingListsRepository
	metrics   *metrics.Metrics
	publisher ReloadPublisher
	now       func() time.Time
	logger    *zap.Logger

	loadMu  sync.Mutex
	current atomic.Pointer[Catalog]
}

func NewRoomingListService(repo repository.RoomingListsRepository, opts RoomingListServiceOptions, logger *zap.Logger) RoomingListService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &roomingListService{
		repo:      repo,
		metrics:   opts.Metrics,
		publisher: opts.Publisher,
		now:       now,
		logger:    logger,
	}
}

func (s *roomingListService) Snapshot() (*Catalog, bool) {
	c := s.current.Load()
	return c, c != nil
}

func (s *roomingListService) Load(ctx context.Context) (*Catalog, error) {
	if c := s.current.Load(); c != nil {
		return c, nil
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	// another caller may have finished loading while we waited
	if c := s.current.Load(); c != nil {
		return c, nil
	}
	return s.loadLocked(ctx, "initial")
}

func (s *roomingListService) Reload(ctx context.Context) (*Catalog, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if inv, ok := s.repo.(Invalidator); ok {
		if err := inv.Invalidate(ctx); err != nil {
			s.logger.Warn("Failed to invalidate cached snapshot", zap.Error(err))
		}
	}
	return s.loadLocked(ctx, "reload")
}

func (s *roomingListService) loadLocked(ctx context.Context, reason string) (*Catalog, error) {
	records, err := s.repo.ListRoomingLists(ctx)
	if err != nil {
		s.metrics.CatalogLoadFailed()
		s.logger.Error("Failed to load rooming lists",
			zap.String("reason", reason),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to load rooming lists: %w", err)
	}

	c := newCatalog(records, s.now())
	s.current.Store(c)
	s.metrics.CatalogLoaded(len(records), c.LoadedAt)
	s.logger.Info("Rooming list catalog loaded",
		zap.String("reason", reason),
		zap.Int("records", len(records)),
		zap.Int("statuses", len(c.Statuses)),
	)

	if s.publisher != nil {
		if err := s.publisher.PublishReload(ctx, c); err != nil {
			s.logger.Warn("Failed to publish catalog reload event", zap.Error(err))
		}
	}
	return c, nil
}

func (s *roomingListService) ListRoomingLists(ctx context.Context, req ListRoomingListsRequest) (*ListRoomingListsResponse, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.QueryEvaluated()

	view := engine.Apply(c.Records, req.Query)
	return &ListRoomingListsResponse{
		Groups:   view.Groups,
		Matched:  view.Matched,
		Total:    view.Total,
		Statuses: c.Statuses,
	}, nil
}

func (s *roomingListService) GetRoomingList(ctx context.Context, roomingListID int) (*domain.RoomingList, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range c.Records {
		if r.RoomingListID == roomingListID {
			return r, nil
		}
	}
	return nil, fmt.Errorf("rooming list %d: %w", roomingListID, repository.ErrNotFound)
}

func (s *roomingListService) ListStatuses(ctx context.Context) ([]string, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return c.Statuses, nil
}

func (s *roomingListService) CreateRoomingList(ctx context.Context, list *domain.RoomingList) (*domain.RoomingList, error) {
	return nil, repository.ErrNotImplemented
}

func (s *roomingListService) UpdateRoomingList(ctx context.Context, roomingListID int, list *domain.RoomingList) (*domain.RoomingList, error) {
	return nil, repository.ErrNotImplemented
}

func (s *roomingListService) DeleteRoomingList(ctx context.Context, roomingListID int) error {
	return repository.ErrNotImplemented
}
