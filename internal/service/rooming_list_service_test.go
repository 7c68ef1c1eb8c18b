package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"rooming-data/internal/domain"
	"rooming-data/internal/metrics"
	"rooming-data/internal/querystate"
	"rooming-data/internal/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleLists() []*domain.RoomingList {
	return []*domain.RoomingList{
		{RoomingListID: 1, Status: "Approved", RFPName: "Ultra Gala", AgreementType: "leisure", EventID: "E1", EventName: "Spring Expo"},
		{RoomingListID: 2, Status: "Pending", RFPName: "Rolling Block", AgreementType: "staff", EventID: "E2", EventName: "Fall Expo"},
		{RoomingListID: 3, Status: "Approved", RFPName: "Crew", AgreementType: "artist", EventID: "E1", EventName: "Spring Expo"},
	}
}

// stubRepo counts loads and can be switched to fail.
type stubRepo struct {
	mu          sync.Mutex
	lists       []*domain.RoomingList
	err         error
	loads       int32
	invalidated int32
}

func (r *stubRepo) ListRoomingLists(ctx context.Context) ([]*domain.RoomingList, error) {
	atomic.AddInt32(&r.loads, 1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.lists, nil
}

func (r *stubRepo) Invalidate(ctx context.Context) error {
	atomic.AddInt32(&r.invalidated, 1)
	return nil
}

func (r *stubRepo) setErr(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

type recordingPublisher struct {
	events []*Catalog
}

func (p *recordingPublisher) PublishReload(ctx context.Context, c *Catalog) error {
	p.events = append(p.events, c)
	return nil
}

func newTestService(repo repository.RoomingListsRepository, opts RoomingListServiceOptions) RoomingListService {
	return NewRoomingListService(repo, opts, zap.NewNop())
}

func TestListRoomingLists_LazyLoadsOnce(t *testing.T) {
	repo := &stubRepo{lists: sampleLists()}
	svc := newTestService(repo, RoomingListServiceOptions{})

	_, loaded := svc.Snapshot()
	assert.False(t, loaded)

	resp, err := svc.ListRoomingLists(context.Background(), ListRoomingListsRequest{Query: querystate.New("ultra")})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Matched)
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, domain.ID("E1"), resp.Groups[0].EventID)
	assert.Equal(t, []string{"Approved", "Pending"}, resp.Statuses)

	_, err = svc.ListRoomingLists(context.Background(), ListRoomingListsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&repo.loads))
}

func TestLoad_ConcurrentCallersShareOneLoad(t *testing.T) {
	repo := &stubRepo{lists: sampleLists()}
	svc := newTestService(repo, RoomingListServiceOptions{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Load(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&repo.loads))
}

func TestLoad_FailureLeavesCatalogUnloaded(t *testing.T) {
	m := metrics.New()
	repo := &stubRepo{err: errors.New("upstream 500")}
	svc := newTestService(repo, RoomingListServiceOptions{Metrics: m})

	_, err := svc.ListStatuses(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream 500")
	_, loaded := svc.Snapshot()
	assert.False(t, loaded)
	assert.Equal(t, 1, testutil.CollectAndCount(m.Registry(), "rooming_data_catalog_loads_total"))
}

func TestReload_KeepsPreviousSnapshotOnFailure(t *testing.T) {
	repo := &stubRepo{lists: sampleLists()}
	pub := &recordingPublisher{}
	at := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(repo, RoomingListServiceOptions{Publisher: pub, Now: func() time.Time { return at }})

	first, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, at, first.LoadedAt)

	repo.setErr(errors.New("gone"))
	_, err = svc.Reload(context.Background())
	require.Error(t, err)

	cur, ok := svc.Snapshot()
	require.True(t, ok)
	assert.Same(t, first, cur)
	assert.Equal(t, int32(1), atomic.LoadInt32(&repo.invalidated))

	repo.setErr(nil)
	repo.lists = sampleLists()[:1]
	next, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Len(t, next.Records, 1)
	assert.Equal(t, []string{"Approved"}, next.Statuses)
	assert.Len(t, pub.events, 2)
}

func TestGetRoomingList(t *testing.T) {
	svc := newTestService(&stubRepo{lists: sampleLists()}, RoomingListServiceOptions{})

	r, err := svc.GetRoomingList(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Rolling Block", r.RFPName)

	_, err = svc.GetRoomingList(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMutationsAreNotImplemented(t *testing.T) {
	svc := newTestService(&stubRepo{lists: sampleLists()}, RoomingListServiceOptions{})
	ctx := context.Background()

	_, err := svc.CreateRoomingList(ctx, &domain.RoomingList{})
	assert.ErrorIs(t, err, repository.ErrNotImplemented)
	_, err = svc.UpdateRoomingList(ctx, 1, &domain.RoomingList{})
	assert.ErrorIs(t, err, repository.ErrNotImplemented)
	assert.ErrorIs(t, svc.DeleteRoomingList(ctx, 1), repository.ErrNotImplemented)
}
