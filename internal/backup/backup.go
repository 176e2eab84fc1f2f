// Package backup uploads gzip-compressed library snapshots to S3 and keeps
// only the newest few.
package backup

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

const (
	keyStem   = "paperlib-"
	keySuffix = ".json.gz"
	keyLayout = "2006-01-02T15-04-05Z"
)

// ObjectStore is the subset of *s3.Client used here.
type ObjectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// SnapshotFunc returns the encoded library snapshot to back up.
type SnapshotFunc func() ([]byte, error)

// Uploader writes backups to one bucket prefix.
type Uploader struct {
	store  ObjectStore
	bucket string
	prefix string
	keep   int
	now    func() time.Time
	logger *zap.Logger
}

// NewUploader returns an Uploader that retains keep backups under prefix.
func NewUploader(store ObjectStore, bucket, prefix string, keep int, logger *zap.Logger) (*Uploader, error) {
	if bucket == "" {
		return nil, errors.New("backup bucket is not configured")
	}
	if keep < 1 {
		return nil, fmt.Errorf("backup keep must be at least 1, got %d", keep)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{store: store, bucket: bucket, prefix: prefix, keep: keep, now: time.Now, logger: logger}, nil
}

// Key returns the object key for a backup taken at t.
func (u *Uploader) Key(t time.Time) string {
	return u.prefix + keyStem + t.UTC().Format(keyLayout) + keySuffix
}

// Run compresses the snapshot, uploads it and prunes old backups. It returns
// the key of the new object.
func (u *Uploader) Run(ctx context.Context, snapshot SnapshotFunc) (string, error) {
	data, err := snapshot()
	if err != nil {
		return "", fmt.Errorf("snapshot library: %w", err)
	}
	compressed, err := gzipBytes(data)
	if err != nil {
		return "", fmt.Errorf("compress snapshot: %w", err)
	}

	key := u.Key(u.now())
	_, err = u.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(u.bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(compressed),
		ContentType:     aws.String("application/json"),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		return "", fmt.Errorf("upload s3://%s/%s: %w", u.bucket, key, err)
	}
	u.logger.Info("backup uploaded",
		zap.String("bucket", u.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(compressed)),
	)

	if _, err := u.Prune(ctx); err != nil {
		return key, err
	}
	return key, nil
}

// Prune deletes all but the newest keep backups and returns the deleted keys.
// A failed delete is logged and does not stop the rest.
func (u *Uploader) Prune(ctx context.Context) ([]string, error) {
	objects, err := u.list(ctx)
	if err != nil {
		return nil, err
	}
	if len(objects) <= u.keep {
		return nil, nil
	}
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].modified.After(objects[j].modified)
	})

	var deleted []string
	for _, obj := range objects[u.keep:] {
		_, err := u.store.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(u.bucket),
			Key:    aws.String(obj.key),
		})
		if err != nil {
			u.logger.Warn("delete old backup failed", zap.String("key", obj.key), zap.Error(err))
			continue
		}
		u.logger.Info("old backup deleted", zap.String("key", obj.key))
		deleted = append(deleted, obj.key)
	}
	return deleted, nil
}

type object struct {
	key      string
	modified time.Time
}

// list pages through the prefix and keeps only objects named like backups.
func (u *Uploader) list(ctx context.Context) ([]object, error) {
	var (
		objects []object
		token   *string
	)
	for {
		out, err := u.store.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(u.bucket),
			Prefix:            aws.String(u.prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list backups: %w", err)
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			name := strings.TrimPrefix(key, u.prefix)
			if !strings.HasPrefix(name, keyStem) || !strings.HasSuffix(name, keySuffix) {
				continue
			}
			objects = append(objects, object{key: key, modified: aws.ToTime(obj.LastModified)})
		}
		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			return objects, nil
		}
		token = out.NextContinuationToken
	}
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
