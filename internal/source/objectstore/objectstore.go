// Package objectstore produces cloud payloads from an S3-compatible bucket.
package objectstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dbsmedya/stackburn/internal/config"
	"github.com/dbsmedya/stackburn/internal/filetype"
	"github.com/dbsmedya/stackburn/internal/logger"
	"github.com/dbsmedya/stackburn/internal/payload"
	"github.com/dbsmedya/stackburn/internal/session"
)

// Provider is the session provider name for object store credentials.
const Provider = "s3"

// Lister lists the objects of a bucket. *minio.Client implements it.
type Lister interface {
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// Collector lists a bucket and summarizes it as a cloud payload.
type Collector struct {
	lister       Lister
	bucket       string
	prefix       string
	oldestLimit  int
	largestLimit int
	logger       *logger.Logger
	now          func() time.Time
}

// New creates a Collector backed by a minio client. Credentials come from
// the session sessionID in sessions, which must be a live session of the s3
// provider. An expired or unknown session is an error wrapping
// session.ErrExpired or session.ErrNotFound.
//
// Parameters:
//   - cfg: endpoint, bucket and sampling limits
//   - sessions: store holding the access key (Principal) and secret key (Secret)
//   - sessionID: identifier returned by sessions.Create
//   - log: logger for listing progress (uses default if nil)
func New(cfg config.ObjectStoreConfig, sessions *session.Store, sessionID string, log *logger.Logger) (*Collector, error) {
	if sessions == nil {
		return nil, fmt.Errorf("object store session store is required")
	}
	sess, err := sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("resolve object store session: %w", err)
	}
	if sess.Provider != Provider {
		return nil, fmt.Errorf("session provider %q cannot access an object store", sess.Provider)
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("object store endpoint is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(sess.Principal, sess.Secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}

	return NewWithLister(client, cfg, log)
}

// NewWithLister creates a Collector over any Lister.
func NewWithLister(lister Lister, cfg config.ObjectStoreConfig, log *logger.Logger) (*Collector, error) {
	if log == nil {
		log = logger.NewDefault()
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("object store bucket is required")
	}

	return &Collector{
		lister:       lister,
		bucket:       bucket,
		prefix:       cfg.Prefix,
		oldestLimit:  cfg.OldestLimit,
		largestLimit: cfg.LargestLimit,
		logger:       log.WithBucket(bucket),
		now:          time.Now,
	}, nil
}

// SetClock replaces the clock used for the payload timestamp.
func (c *Collector) SetClock(now func() time.Time) {
	c.now = now
}

// Collect lists every object under the configured prefix and builds the
// cloud payload. A listing error aborts the collection.
func (c *Collector) Collect(ctx context.Context) (*payload.Cloud, error) {
	c.logger.Infof("Listing objects under %q", c.prefix)

	var objects []minio.ObjectInfo
	for obj := range c.lister.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    c.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list bucket %s: %w", c.bucket, obj.Err)
		}
		if obj.Key == "" {
			continue
		}
		objects = append(objects, obj)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list bucket %s: %w", c.bucket, err)
	}

	p := Build(objects, c.oldestLimit, c.largestLimit, c.now())
	c.logger.WithFields(map[string]interface{}{
		"objects": p.TotalFiles,
		"bytes":   p.TotalSize,
	}).Info("Listing complete")
	return p, nil
}

// Build summarizes objects as a cloud payload: totals, per-bucket counts,
// and the oldest and largest objects up to the given limits. Keys ending in
// "/" are folder markers; they count as Folders but are never sampled.
func Build(objects []minio.ObjectInfo, oldestLimit, largestLimit int, now time.Time) *payload.Cloud {
	p := &payload.Cloud{
		FileTypes:     make(map[string]int64),
		OldestFiles:   []payload.CloudFile{},
		LargestFiles:  []payload.CloudFile{},
		ScanTimestamp: payload.FormatTime(now),
	}

	files := make([]minio.ObjectInfo, 0, len(objects))
	for _, obj := range objects {
		p.TotalFiles++
		if strings.HasSuffix(obj.Key, "/") {
			p.FileTypes[filetype.Folders]++
			continue
		}
		p.TotalSize += obj.Size
		p.FileTypes[bucketOf(obj)]++
		files = append(files, obj)
	}

	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].LastModified.Equal(files[j].LastModified) {
			return files[i].LastModified.Before(files[j].LastModified)
		}
		return files[i].Key < files[j].Key
	})
	for i := 0; i < len(files) && i < oldestLimit; i++ {
		p.OldestFiles = append(p.OldestFiles, cloudFile(files[i]))
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Size != files[j].Size {
			return files[i].Size > files[j].Size
		}
		return files[i].Key < files[j].Key
	})
	for i := 0; i < len(files) && i < largestLimit; i++ {
		p.LargestFiles = append(p.LargestFiles, cloudFile(files[i]))
	}

	return p
}

func bucketOf(obj minio.ObjectInfo) string {
	if obj.ContentType != "" && obj.ContentType != "application/octet-stream" {
		return filetype.Bucket(obj.ContentType)
	}
	return filetype.FromName(obj.Key)
}

func cloudFile(obj minio.ObjectInfo) payload.CloudFile {
	mimeType := obj.ContentType
	if mimeType == "" {
		mimeType = filetype.ByExtension(obj.Key)
	}
	return payload.CloudFile{
		ID:           obj.ETag,
		Name:         obj.Key,
		MimeType:     mimeType,
		Size:         obj.Size,
		ModifiedTime: payload.FormatTime(obj.LastModified),
	}
}
