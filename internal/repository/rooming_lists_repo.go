package repository

import (
	"context"
	"errors"

	"rooming-data/internal/domain"
)

var (
	ErrNotFound       = errors.New("rooming list not found")
	ErrNotImplemented = errors.New("not implemented")
)

// RoomingListsRepository loads the whole rooming list collection. Sources are
// read-only: filtering and lookups happen above this layer.
type RoomingListsRepository interface {
	ListRoomingLists(ctx context.Context) ([]*domain.RoomingList, error)
}

// MemoryRoomingListsRepo serves a fixed collection. Err, when set, is
// returned by every call.
type MemoryRoomingListsRepo struct {
	Lists []*domain.RoomingList
	Err   error
}

func NewMemoryRoomingListsRepo(lists []*domain.RoomingList) *MemoryRoomingListsRepo {
	return &MemoryRoomingListsRepo{Lists: lists}
}

var _ RoomingListsRepository = (*MemoryRoomingListsRepo)(nil)

func (r *MemoryRoomingListsRepo) ListRoomingLists(ctx context.Context) ([]*domain.RoomingList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*domain.RoomingList, len(r.Lists))
	copy(out, r.Lists)
	return out, nil
}
