package repository

import (
	"context"
	"fmt"
	"time"

	"rooming-data/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// HTTPRoomingListsRepo fetches the JSON document from a URL.
type HTTPRoomingListsRepo struct {
	httpClient *resty.Client
	url        string
	logger     *zap.Logger
}

// NewHTTPRoomingListsRepo builds a resty client. retryCount 0 means one
// attempt per load.
func NewHTTPRoomingListsRepo(url string, timeout time.Duration, retryCount int, logger *zap.Logger) *HTTPRoomingListsRepo {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")

	return &HTTPRoomingListsRepo{
		httpClient: client,
		url:        url,
		logger:     logger,
	}
}

var _ RoomingListsRepository = (*HTTPRoomingListsRepo)(nil)

func (r *HTTPRoomingListsRepo) ListRoomingLists(ctx context.Context) ([]*domain.RoomingList, error) {
	resp, err := r.httpClient.R().
		SetContext(ctx).
		Get(r.url)
	if err != nil {
		r.logger.Error("Rooming list fetch failed", zap.String("url", r.url), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch rooming lists: %w", err)
	}
	if resp.IsError() {
		r.logger.Error("Rooming list fetch returned error status",
			zap.String("url", r.url),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("failed to fetch rooming lists: %s", resp.Status())
	}

	lists, err := domain.DecodeRoomingLists(resp.Body())
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Fetched rooming lists", zap.String("url", r.url), zap.Int("count", len(lists)))
	return lists, nil
}
