package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	commoncfg "rooming-data/internal/common/config"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// objectRoundTripper answers path-style GETs for a fixed object set.
type objectRoundTripper struct {
	objects map[string][]byte // "bucket/key" -> body
}

func (o *objectRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	path := strings.TrimPrefix(req.URL.Path, "/")
	body, ok := o.objects[path]
	if req.Method != http.MethodGet || !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader(`<?xml version="1.0"?><Error><Code>NoSuchKey</Code></Error>`)),
			Header:     http.Header{"Content-Type": {"application/xml"}},
		}, nil
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header: http.Header{
			"Content-Length": {fmt.Sprintf("%d", len(body))},
			"Content-Type":   {"application/json"},
		},
	}, nil
}

func newFakeS3Client(t *testing.T, objects map[string][]byte) *s3.Client {
	t.Helper()
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: &objectRoundTripper{objects: objects}}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})
}

func TestS3RoomingListsRepo(t *testing.T) {
	client := newFakeS3Client(t, map[string][]byte{"rfp/data/rfp-data.json": []byte(sampleDoc)})

	lists, err := NewS3RoomingListsRepoWithClient(client, "rfp", "data/rfp-data.json").ListRoomingLists(context.Background())
	require.NoError(t, err)
	assert.Len(t, lists, 2)

	_, err = NewS3RoomingListsRepoWithClient(client, "rfp", "missing.json").ListRoomingLists(context.Background())
	assert.Error(t, err)
}

func TestNewS3RoomingListsRepo_RequiresBucketAndKey(t *testing.T) {
	_, err := NewS3RoomingListsRepo(context.Background(), commoncfg.S3Config{Key: "k"})
	assert.Error(t, err)
	_, err = NewS3RoomingListsRepo(context.Background(), commoncfg.S3Config{Bucket: "b"})
	assert.Error(t, err)
}
