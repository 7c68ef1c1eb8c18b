package service

import (
	"context"
	"fmt"

	commonredis "rooming-data/internal/common/redis"
)

// CatalogReloadedEvent is written to the reload stream after every load.
type CatalogReloadedEvent struct {
	Type     string   `json:"type"`
	Records  int      `json:"records"`
	Statuses []string `json:"statuses"`
	LoadedAt int64    `json:"loaded_at"`
}

// StreamReloadPublisher appends CatalogReloadedEvent entries to a Redis stream.
type StreamReloadPublisher struct {
	client *commonredis.Client
	stream string
}

func NewStreamReloadPublisher(client *commonredis.Client, stream string) *StreamReloadPublisher {
	return &StreamReloadPublisher{client: client, stream: stream}
}

func (p *StreamReloadPublisher) PublishReload(ctx context.Context, c *Catalog) error {
	_, err := commonredis.PublishJSONToStream(ctx, p.client, p.stream, CatalogReloadedEvent{
		Type:     "catalog.reloaded",
		Records:  len(c.Records),
		Statuses: c.Statuses,
		LoadedAt: c.LoadedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.stream, err)
	}
	return nil
}
