package service

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"rooming-data/internal/domain"
	"rooming-data/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type countingFileRepo struct {
	*repository.FileRoomingListsRepo
	loads int32
}

func (c *countingFileRepo) ListRoomingLists(ctx context.Context) ([]*domain.RoomingList, error) {
	atomic.AddInt32(&c.loads, 1)
	return c.FileRoomingListsRepo.ListRoomingLists(ctx)
}

func TestFileWatcher_ReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	path := filepath.Join(dir, "rfp-data.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"roomingListId":1,"eventId":"E1","status":"Pending"}]`), 0o644))

	repo := &countingFileRepo{FileRoomingListsRepo: repository.NewFileRoomingListsRepo(path)}
	svc := newTestService(repo, RoomingListServiceOptions{})
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	fw, err := NewFileWatcher(path, svc, 20*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		fw.Run(ctx)
		close(done)
	}()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(`[{"roomingListId":1,"eventId":"E1","status":"Pending"},{"roomingListId":2,"eventId":"E1","status":"Approved"}]`), 0o644))

	assert.Eventually(t, func() bool {
		c, ok := svc.Snapshot()
		return ok && len(c.Records) == 2
	}, 2*time.Second, 20*time.Millisecond)

	assert.GreaterOrEqual(t, atomic.LoadInt32(&repo.loads), int32(2))

	cancel()
	<-done
}

func TestNewFileWatcher_MissingDirectory(t *testing.T) {
	_, err := NewFileWatcher(filepath.Join(t.TempDir(), "nope", "x.json"), nil, time.Millisecond, zap.NewNop())
	assert.Error(t, err)
}
