package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"rooming-data/internal/domain"
	"rooming-data/internal/store"

	"go.uber.org/zap"
)

const DefaultSnapshotKey = "rooming-data:rooming-lists:snapshot"

// CachedRoomingListsRepo keeps the last loaded collection in the KV store so
// restarts and sibling instances skip the upstream read until the TTL ends.
type CachedRoomingListsRepo struct {
	next   RoomingListsRepository
	kv     store.KV
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedRoomingListsRepo(next RoomingListsRepository, kv store.KV, key string, ttl time.Duration, logger *zap.Logger) *CachedRoomingListsRepo {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &CachedRoomingListsRepo{next: next, kv: kv, key: key, ttl: ttl, logger: logger}
}

var _ RoomingListsRepository = (*CachedRoomingListsRepo)(nil)

func (r *CachedRoomingListsRepo) ListRoomingLists(ctx context.Context) ([]*domain.RoomingList, error) {
	raw, err := r.kv.Get(ctx, r.key)
	switch {
	case err == nil:
		lists, derr := domain.DecodeRoomingLists([]byte(raw))
		if derr == nil {
			return lists, nil
		}
		r.logger.Warn("Discarding unreadable rooming list snapshot", zap.String("key", r.key), zap.Error(derr))
	case !errors.Is(err, store.ErrMiss):
		r.logger.Warn("Snapshot cache read failed", zap.String("key", r.key), zap.Error(err))
	}

	lists, err := r.next.ListRoomingLists(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(lists); err == nil {
		if err := r.kv.Set(ctx, r.key, string(b), r.ttl); err != nil {
			r.logger.Warn("Snapshot cache write failed", zap.String("key", r.key), zap.Error(err))
		}
	}
	return lists, nil
}

// Invalidate drops the cached snapshot so the next load reads upstream.
func (r *CachedRoomingListsRepo) Invalidate(ctx context.Context) error {
	return r.kv.Del(ctx, r.key)
}
