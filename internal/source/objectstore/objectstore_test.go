package objectstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/stackburn/internal/config"
	"github.com/dbsmedya/stackburn/internal/filetype"
	"github.com/dbsmedya/stackburn/internal/logger"
	"github.com/dbsmedya/stackburn/internal/payload"
	"github.com/dbsmedya/stackburn/internal/session"
)

var listTime = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

type fakeLister struct {
	objects []minio.ObjectInfo
	bucket  string
	opts    minio.ListObjectsOptions
}

func (f *fakeLister) ListObjects(_ context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	f.bucket = bucket
	f.opts = opts
	ch := make(chan minio.ObjectInfo, len(f.objects))
	for _, obj := range f.objects {
		ch <- obj
	}
	close(ch)
	return ch
}

func storeConfig() config.ObjectStoreConfig {
	cfg := config.DefaultConfig().ObjectStore
	cfg.Enabled = true
	cfg.Endpoint = "localhost:9000"
	cfg.Bucket = "backups"
	cfg.Prefix = "photos/"
	return cfg
}

func object(key string, size int64, age time.Duration, contentType string) minio.ObjectInfo {
	return minio.ObjectInfo{
		Key:          key,
		Size:         size,
		LastModified: listTime.Add(-age),
		ContentType:  contentType,
		ETag:         "etag-" + key,
	}
}

func TestBuild(t *testing.T) {
	day := 24 * time.Hour
	objects := []minio.ObjectInfo{
		object("photos/", 0, 0, ""),
		object("photos/a.jpg", 300, 400*day, "image/jpeg"),
		object("photos/b.png", 100, 10*day, ""),
		object("photos/clip", 900, 30*day, "video/mp4"),
		object("photos/report.pdf", 50, 800*day, ""),
		object("photos/blob.zzq", 10, 5*day, "application/octet-stream"),
	}

	p := Build(objects, 2, 3, listTime)

	assert.Equal(t, int64(6), p.TotalFiles)
	assert.Equal(t, int64(1360), p.TotalSize)
	assert.Equal(t, map[string]int64{
		filetype.Folders: 1,
		filetype.Images:  2,
		filetype.Videos:  1,
		filetype.PDFs:    1,
		filetype.Other:   1,
	}, p.FileTypes)

	require.Len(t, p.OldestFiles, 2)
	assert.Equal(t, "photos/report.pdf", p.OldestFiles[0].Name)
	assert.Equal(t, "photos/a.jpg", p.OldestFiles[1].Name)
	assert.Equal(t, payload.FormatTime(listTime.Add(-800*day)), p.OldestFiles[0].ModifiedTime)
	assert.Equal(t, "application/pdf", p.OldestFiles[0].MimeType)

	require.Len(t, p.LargestFiles, 3)
	assert.Equal(t, "photos/clip", p.LargestFiles[0].Name)
	assert.Equal(t, "photos/a.jpg", p.LargestFiles[1].Name)
	assert.Equal(t, "photos/b.png", p.LargestFiles[2].Name)
	assert.Equal(t, "etag-photos/clip", p.LargestFiles[0].ID)

	assert.Equal(t, payload.FormatTime(listTime), p.ScanTimestamp)
}

func TestBuildEmpty(t *testing.T) {
	p := Build(nil, 10, 10, listTime)

	assert.Zero(t, p.TotalFiles)
	assert.NotNil(t, p.OldestFiles)
	assert.NotNil(t, p.LargestFiles)
	assert.Empty(t, p.FileTypes)
}

func TestBuildTieBreaksByKey(t *testing.T) {
	objects := []minio.ObjectInfo{
		object("z.txt", 5, time.Hour, "text/plain"),
		object("a.txt", 5, time.Hour, "text/plain"),
	}

	p := Build(objects, 10, 10, listTime)
	assert.Equal(t, "a.txt", p.OldestFiles[0].Name)
	assert.Equal(t, "a.txt", p.LargestFiles[0].Name)
}

func TestCollect(t *testing.T) {
	lister := &fakeLister{objects: []minio.ObjectInfo{
		object("photos/a.jpg", 10, time.Hour, "image/jpeg"),
		{Key: ""},
		object("photos/b.jpg", 20, 2*time.Hour, "image/jpeg"),
	}}

	c, err := NewWithLister(lister, storeConfig(), logger.NewNop())
	require.NoError(t, err)
	c.SetClock(func() time.Time { return listTime })

	p, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "backups", lister.bucket)
	assert.Equal(t, "photos/", lister.opts.Prefix)
	assert.True(t, lister.opts.Recursive)
	assert.Equal(t, int64(2), p.TotalFiles)
	assert.Equal(t, int64(2), p.FileTypes[filetype.Images])
}

func TestCollectListError(t *testing.T) {
	lister := &fakeLister{objects: []minio.ObjectInfo{
		object("photos/a.jpg", 10, time.Hour, "image/jpeg"),
		{Err: errors.New("access denied")},
	}}

	c, err := NewWithLister(lister, storeConfig(), logger.NewNop())
	require.NoError(t, err)

	_, err = c.Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestCollectCanceled(t *testing.T) {
	c, err := NewWithLister(&fakeLister{}, storeConfig(), logger.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewWithListerRequiresBucket(t *testing.T) {
	cfg := storeConfig()
	cfg.Bucket = "  "

	_, err := NewWithLister(&fakeLister{}, cfg, logger.NewNop())
	assert.Error(t, err)
}

func TestNewFromSession(t *testing.T) {
	now := listTime
	store := session.NewStore(config.DefaultConfig().Session, logger.NewNop())
	store.SetClock(func() time.Time { return now })
	t.Cleanup(store.Close)

	s3, err := store.Create(Provider, "AKIDEXAMPLE", "secret")
	require.NoError(t, err)
	other, err := store.Create("github", "octocat", "token")
	require.NoError(t, err)

	tests := []struct {
		name      string
		store     *session.Store
		sessionID string
		modify    func(*config.ObjectStoreConfig)
		wantErr   bool
		errIs     error
	}{
		{"valid", store, s3.ID, nil, false, nil},
		{"unknown session", store, "missing", nil, true, session.ErrNotFound},
		{"wrong provider", store, other.ID, nil, true, nil},
		{"no store", nil, s3.ID, nil, true, nil},
		{"missing endpoint", store, s3.ID, func(c *config.ObjectStoreConfig) { c.Endpoint = "" }, true, nil},
		{"missing bucket", store, s3.ID, func(c *config.ObjectStoreConfig) { c.Bucket = "" }, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := storeConfig()
			if tt.modify != nil {
				tt.modify(&cfg)
			}
			c, err := New(cfg, tt.store, tt.sessionID, logger.NewNop())
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					assert.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestNewRejectsExpiredSession(t *testing.T) {
	now := listTime
	cfg := config.DefaultConfig().Session
	store := session.NewStore(cfg, logger.NewNop())
	store.SetClock(func() time.Time { return now })
	t.Cleanup(store.Close)

	sess, err := store.Create(Provider, "AKIDEXAMPLE", "secret")
	require.NoError(t, err)

	now = now.Add(cfg.TTL + time.Second)

	_, err = New(storeConfig(), store, sess.ID, logger.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrExpired)
	assert.Zero(t, store.Len(), "expired session is removed on lookup")
}

func ExampleBuild() {
	p := Build([]minio.ObjectInfo{
		{Key: "a.png", Size: 10, ContentType: "image/png"},
		{Key: "docs/", Size: 0},
	}, 10, 10, listTime)
	fmt.Println(p.TotalFiles, p.FileTypes[filetype.Images], p.FileTypes[filetype.Folders])
	// Output: 2 1 1
}
