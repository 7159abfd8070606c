package blobstore

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// CachingStore is a read-through cache in front of a remote BlobStore.
// Opened blobs are downloaded once into a local store (typically a
// LocalStore, so cached reads are memory-mapped) and served from there.
//
// Writes go straight to the remote and invalidate the cached copy.
type CachingStore struct {
	remote BlobStore
	cache  BlobStore

	mu       sync.Mutex
	inflight map[string]chan error
}

// NewCachingStore creates a read-through cache over remote using cache for
// local copies.
func NewCachingStore(remote, cache BlobStore) *CachingStore {
	return &CachingStore{
		remote:   remote,
		cache:    cache,
		inflight: make(map[string]chan error),
	}
}

// Open opens a blob, filling the cache on miss. Concurrent opens of the same
// blob download it once.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if blob, err := s.cache.Open(ctx, name); err == nil {
		return blob, nil
	}

	if err := s.fill(ctx, name); err != nil {
		return nil, err
	}
	return s.cache.Open(ctx, name)
}

// fill downloads a blob into the cache, deduplicating concurrent requests.
func (s *CachingStore) fill(ctx context.Context, name string) error {
	s.mu.Lock()
	if ch, ok := s.inflight[name]; ok {
		s.mu.Unlock()
		select {
		case err := <-ch:
			ch <- err // re-arm for other waiters
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	ch := make(chan error, 1)
	s.inflight[name] = ch
	s.mu.Unlock()

	data, err := ReadAll(ctx, s.remote, name)
	if err == nil {
		err = s.cache.Put(ctx, name, data)
	}

	s.mu.Lock()
	delete(s.inflight, name)
	s.mu.Unlock()
	ch <- err
	return err
}

// Prefetch warms the cache for several blobs concurrently.
func (s *CachingStore) Prefetch(ctx context.Context, names ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			if _, err := s.cache.Open(ctx, name); err == nil {
				return nil
			}
			return s.fill(ctx, name)
		})
	}
	return g.Wait()
}

// Create creates a blob on the remote and drops any stale cached copy.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	_ = s.cache.Delete(ctx, name)
	return s.remote.Create(ctx, name)
}

// Put writes a blob to the remote and drops any stale cached copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	_ = s.cache.Delete(ctx, name)
	return s.remote.Put(ctx, name, data)
}

// Delete removes a blob from the remote and the cache.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	_ = s.cache.Delete(ctx, name)
	return s.remote.Delete(ctx, name)
}

// List lists blobs on the remote.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.remote.List(ctx, prefix)
}
