package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}, types: map[string]string{}}
}

func (b *fakeBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if b.putErr != nil {
		return nil, b.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[aws.ToString(in.Key)] = data
	b.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (b *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (b *fakeBucket) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var keys []string
	for k := range b.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestR2Store(t *testing.T) {
	ctx := context.Background()
	bucket := newFakeBucket()
	store := newR2Store(bucket, "leagues", "leagues", YAMLCodec{})

	want := sampleLeague(t)
	require.NoError(t, store.Save(ctx, want))
	assert.Contains(t, bucket.objects, "leagues/Spring_Cup.yaml")
	assert.Equal(t, "application/yaml", bucket.types["leagues/Spring_Cup.yaml"])

	got, err := store.Load(ctx, "Spring Cup")
	require.NoError(t, err)
	assertSameLeague(t, want, got)

	bucket.objects["leagues/archive/old.yaml"] = []byte("name: old")
	bucket.objects["other/Elsewhere.yaml"] = []byte("name: elsewhere")
	bucket.objects["leagues/readme.txt"] = []byte("hi")
	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Spring_Cup"}, keys)
}

func TestR2StoreErrors(t *testing.T) {
	ctx := context.Background()
	bucket := newFakeBucket()
	store := newR2Store(bucket, "leagues", "", nil)

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrLeagueNotFound)

	bucket.objects["bad.json"] = []byte("[]")
	_, err = store.Load(ctx, "bad")
	assert.ErrorIs(t, err, ErrMalformedRecord)

	bucket.objects["renamed.json"] = []byte(`{"name": "Spring Cup", "current_round": 1}`)
	_, err = store.Load(ctx, "renamed")
	assert.ErrorIs(t, err, ErrMalformedRecord)

	bucket.putErr = errors.New("bucket offline")
	err = store.Save(ctx, sampleLeague(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket offline")
}

func TestNewR2StoreRequiresCredentials(t *testing.T) {
	_, err := NewR2Store(context.Background(), R2Config{AccountID: "acc"}, nil)
	assert.Error(t, err)
}
