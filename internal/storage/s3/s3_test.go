package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpavlovs/attachd/internal/storage"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := New(context.Background(), Config{
		User:         "admin",
		Password:     "secretpassword",
		Bucket:       "attachments",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000/",
	})
	require.NoError(t, err)
	return b
}

func TestStore_SendsBucketKeyAndBody(t *testing.T) {
	b := newTestBackend(t)

	orig := putObject
	defer func() { putObject = orig }()

	var gotBucket, gotKey, gotBody string
	putObject = func(c *awss3.Client, ctx context.Context, in *awss3.PutObjectInput) (*awss3.PutObjectOutput, error) {
		gotBucket = *in.Bucket
		gotKey = *in.Key
		body, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		gotBody = string(body)
		return &awss3.PutObjectOutput{}, nil
	}

	n, err := b.Store(context.Background(), "prefix/x.bin", strings.NewReader("bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "attachments", gotBucket)
	assert.Equal(t, "prefix/x.bin", gotKey)
	assert.Equal(t, "bytes", gotBody)
}

func TestStore_PutError(t *testing.T) {
	b := newTestBackend(t)

	orig := putObject
	defer func() { putObject = orig }()

	putObject = func(c *awss3.Client, ctx context.Context, in *awss3.PutObjectInput) (*awss3.PutObjectOutput, error) {
		return nil, errors.New("endpoint unreachable")
	}

	_, err := b.Store(context.Background(), "k", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint unreachable")
}

func TestRetrieve_MapsNoSuchKey(t *testing.T) {
	b := newTestBackend(t)

	orig := getObject
	defer func() { getObject = orig }()

	getObject = func(c *awss3.Client, ctx context.Context, in *awss3.GetObjectInput) (*awss3.GetObjectOutput, error) {
		return nil, &types.NoSuchKey{}
	}

	_, err := b.Retrieve(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestRetrieve_ReturnsBody(t *testing.T) {
	b := newTestBackend(t)

	orig := getObject
	defer func() { getObject = orig }()

	getObject = func(c *awss3.Client, ctx context.Context, in *awss3.GetObjectInput) (*awss3.GetObjectOutput, error) {
		return &awss3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("stored"))}, nil
	}

	rc, err := b.Retrieve(context.Background(), "k")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "stored", string(got))
}

func TestDelete_ForwardsKey(t *testing.T) {
	b := newTestBackend(t)

	orig := deleteObject
	defer func() { deleteObject = orig }()

	var gotKey string
	deleteObject = func(c *awss3.Client, ctx context.Context, in *awss3.DeleteObjectInput) (*awss3.DeleteObjectOutput, error) {
		gotKey = *in.Key
		return &awss3.DeleteObjectOutput{}, nil
	}

	require.NoError(t, b.Delete(context.Background(), "prefix/x.bin"))
	assert.Equal(t, "prefix/x.bin", gotKey)
}
