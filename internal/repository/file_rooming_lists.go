package repository

import (
	"context"
	"fmt"
	"os"

	"rooming-data/internal/domain"
)

// FileRoomingListsRepo reads a JSON array document from disk.
type FileRoomingListsRepo struct {
	path string
}

func NewFileRoomingListsRepo(path string) *FileRoomingListsRepo {
	return &FileRoomingListsRepo{path: path}
}

var _ RoomingListsRepository = (*FileRoomingListsRepo)(nil)

func (r *FileRoomingListsRepo) ListRoomingLists(ctx context.Context) ([]*domain.RoomingList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rooming lists from %s: %w", r.path, err)
	}
	return domain.DecodeRoomingLists(data)
}
