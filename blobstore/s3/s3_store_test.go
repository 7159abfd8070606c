package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contactgo/blobstore"
)

// fakeS3 implements Client on an in-memory object map.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) HeadObject(_ context.Context, params *awss3.HeadObjectInput, _ ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &awss3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (f *fakeS3) GetObject(_ context.Context, params *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}

	start, end := int64(0), int64(len(data)-1)
	if rng := aws.ToString(params.Range); rng != "" {
		if _, err := fmt.Sscanf(rng, "bytes=%d-%d", &start, &end); err != nil {
			return nil, err
		}
		if end >= int64(len(data)) {
			end = int64(len(data) - 1)
		}
	}
	body := make([]byte, end-start+1)
	copy(body, data[start:end+1])

	return &awss3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
	}, nil
}

func (f *fakeS3) PutObject(_ context.Context, params *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(params.Key)] = data
	return &awss3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, params *awss3.DeleteObjectInput, _ ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(params.Key))
	return &awss3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, params *awss3.ListObjectsV2Input, _ ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := aws.ToString(params.Prefix)
	var contents []types.Object
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			contents = append(contents, types.Object{Key: aws.String(key)})
		}
	}
	sort.Slice(contents, func(i, j int) bool {
		return aws.ToString(contents[i].Key) < aws.ToString(contents[j].Key)
	})
	return &awss3.ListObjectsV2Output{Contents: contents}, nil
}

func (f *fakeS3) UploadPart(context.Context, *awss3.UploadPartInput, ...func(*awss3.Options)) (*awss3.UploadPartOutput, error) {
	return nil, errors.New("multipart not supported by fake")
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *awss3.CreateMultipartUploadInput, ...func(*awss3.Options)) (*awss3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported by fake")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *awss3.CompleteMultipartUploadInput, ...func(*awss3.Options)) (*awss3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported by fake")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *awss3.AbortMultipartUploadInput, ...func(*awss3.Options)) (*awss3.AbortMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported by fake")
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newFakeS3(), "bucket", "contact-maps")

	_, err := store.Open(ctx, "missing.cmap")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, store.Put(ctx, "maps/a.cmap", []byte("alpha")))
	require.NoError(t, store.Put(ctx, "maps/b.cmap", []byte("beta")))

	data, err := blobstore.ReadAll(ctx, store, "maps/a.cmap")
	require.NoError(t, err)
	assert.Equal(t, []byte("alpha"), data)

	blob, err := store.Open(ctx, "maps/a.cmap")
	require.NoError(t, err)
	assert.Equal(t, int64(5), blob.Size())

	p := make([]byte, 3)
	n, err := blob.ReadAt(ctx, p, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte("pha"), p)
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "maps/")
	require.NoError(t, err)
	assert.Equal(t, []string{"maps/a.cmap", "maps/b.cmap"}, names)

	require.NoError(t, store.Delete(ctx, "maps/a.cmap"))
	_, err = store.Open(ctx, "maps/a.cmap")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestStore_StreamingCreate(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newFakeS3(), "bucket", "")

	wb, err := store.Create(ctx, "snap.cmap")
	require.NoError(t, err)

	_, err = wb.Write([]byte("part one, "))
	require.NoError(t, err)
	_, err = wb.Write([]byte("part two"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	data, err := blobstore.ReadAll(ctx, store, "snap.cmap")
	require.NoError(t, err)
	assert.Equal(t, []byte("part one, part two"), data)

	// Double close is rejected, not a hang.
	assert.Error(t, wb.Close())
}

// fakeDDB implements DDBClient with conditional-write semantics on the
// (base_uri, version) key.
type fakeDDB struct {
	mu    sync.Mutex
	items map[string]map[uint64]string // base_uri -> version -> snapshot name
}

func newFakeDDB() *fakeDDB {
	return &fakeDDB{items: make(map[string]map[uint64]string)}
}

func (f *fakeDDB) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	uri := params.Item["base_uri"].(*ddbtypes.AttributeValueMemberS).Value
	version, err := strconv.ParseUint(params.Item["version"].(*ddbtypes.AttributeValueMemberN).Value, 10, 64)
	if err != nil {
		return nil, err
	}
	name := params.Item["snapshot_name"].(*ddbtypes.AttributeValueMemberS).Value

	if f.items[uri] == nil {
		f.items[uri] = make(map[uint64]string)
	}
	if _, exists := f.items[uri][version]; exists {
		return nil, &ddbtypes.ConditionalCheckFailedException{}
	}
	f.items[uri][version] = name
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDDB) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	uri := params.ExpressionAttributeValues[":uri"].(*ddbtypes.AttributeValueMemberS).Value
	versions := f.items[uri]
	if len(versions) == 0 {
		return &dynamodb.QueryOutput{}, nil
	}

	var latest uint64
	for v := range versions {
		if v > latest {
			latest = v
		}
	}
	return &dynamodb.QueryOutput{Items: []map[string]ddbtypes.AttributeValue{{
		"base_uri":      &ddbtypes.AttributeValueMemberS{Value: uri},
		"version":       &ddbtypes.AttributeValueMemberN{Value: strconv.FormatUint(latest, 10)},
		"snapshot_name": &ddbtypes.AttributeValueMemberS{Value: versions[latest]},
	}}}, nil
}

func TestCommitStore_CurrentPointer(t *testing.T) {
	ctx := context.Background()
	store := NewCommitStore(NewStore(newFakeS3(), "bucket", ""), newFakeDDB(), "commits", "s3://bucket")

	_, err := store.Open(ctx, CurrentName)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, store.Put(ctx, "snap-001.cmap", []byte("payload")))
	require.NoError(t, store.Put(ctx, CurrentName, []byte("snap-001.cmap")))

	current, err := blobstore.ReadAll(ctx, store, CurrentName)
	require.NoError(t, err)
	assert.Equal(t, "snap-001.cmap", string(current))

	// A second commit advances the pointer.
	require.NoError(t, store.Put(ctx, CurrentName, []byte("snap-002.cmap")))
	current, err = blobstore.ReadAll(ctx, store, CurrentName)
	require.NoError(t, err)
	assert.Equal(t, "snap-002.cmap", string(current))
}

func TestCommitStore_ConcurrentCommit(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDDB()
	store := NewCommitStore(NewStore(newFakeS3(), "bucket", ""), ddb, "commits", "s3://bucket")

	require.NoError(t, store.Put(ctx, CurrentName, []byte("snap-001.cmap")))

	// Simulate a racing writer that took version 2 between our query and put.
	ddb.items["s3://bucket"][2] = "snap-other.cmap"

	err := store.Put(ctx, CurrentName, []byte("snap-002.cmap"))
	assert.ErrorIs(t, err, ErrConcurrentCommit)
}
