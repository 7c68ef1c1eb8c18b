package repository

import (
	"context"
	"fmt"
	"io"

	commoncfg "rooming-data/internal/common/config"
	"rooming-data/internal/domain"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3RoomingListsRepo reads the JSON document from one S3 (or MinIO) object.
type S3RoomingListsRepo struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3RoomingListsRepo resolves credentials from the default AWS chain.
func NewS3RoomingListsRepo(ctx context.Context, cfg commoncfg.S3Config) (*S3RoomingListsRepo, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("s3 bucket and key required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3RoomingListsRepoWithClient(client, cfg.Bucket, cfg.Key), nil
}

func NewS3RoomingListsRepoWithClient(client *s3.Client, bucket, key string) *S3RoomingListsRepo {
	return &S3RoomingListsRepo{client: client, bucket: bucket, key: key}
}

var _ RoomingListsRepository = (*S3RoomingListsRepo)(nil)

func (r *S3RoomingListsRepo) ListRoomingLists(ctx context.Context) ([]*domain.RoomingList, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &r.bucket, Key: &r.key})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", r.bucket, r.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", r.bucket, r.key, err)
	}
	return domain.DecodeRoomingLists(data)
}
