package backup

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObject struct {
	body     []byte
	modified time.Time
}

// fakeS3 keeps objects in memory and pages listings two at a time.
type fakeS3 struct {
	mu        sync.Mutex
	objects   map[string]fakeObject
	clock     time.Time
	failPut   error
	failKey   string
	listCalls int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]fakeObject{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut != nil {
		return nil, f.failPut
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.clock = f.clock.Add(time.Minute)
	f.objects[aws.ToString(in.Key)] = fakeObject{body: body, modified: f.clock}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	start := 0
	if in.ContinuationToken != nil {
		for i, k := range keys {
			if k == *in.ContinuationToken {
				start = i
			}
		}
	}
	end := start + 2
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	if end < len(keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(keys[end])
	} else {
		end = len(keys)
	}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k), LastModified: aws.Time(f.objects[k].modified)})
	}
	return out, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Key)
	if key == f.failKey {
		return nil, errors.New("access denied")
	}
	delete(f.objects, key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func snapshotOf(s string) SnapshotFunc {
	return func() ([]byte, error) { return []byte(s), nil }
}

func gunzip(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(out)
}

func TestRunUploadsCompressedSnapshot(t *testing.T) {
	store := newFakeS3()
	u, err := NewUploader(store, "bucket", "paperlib/", 3, nil)
	require.NoError(t, err)
	u.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	key, err := u.Run(context.Background(), snapshotOf(`{"version":1,"papers":[]}`))
	require.NoError(t, err)

	assert.Equal(t, "paperlib/paperlib-2024-05-06T07-08-09Z.json.gz", key)
	assert.Equal(t, `{"version":1,"papers":[]}`, gunzip(t, store.objects[key].body))
}

func TestRunPrunesToKeep(t *testing.T) {
	store := newFakeS3()
	store.objects["paperlib/notes.txt"] = fakeObject{modified: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	u, err := NewUploader(store, "bucket", "paperlib/", 2, nil)
	require.NoError(t, err)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var keys []string
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		u.now = func() time.Time { return at }
		key, err := u.Run(context.Background(), snapshotOf("{}"))
		require.NoError(t, err)
		keys = append(keys, key)
	}

	assert.ElementsMatch(t, []string{keys[3], keys[4], "paperlib/notes.txt"}, store.keys())
	assert.Greater(t, store.listCalls, 5, "listing should follow continuation tokens")
}

func TestPruneContinuesAfterDeleteFailure(t *testing.T) {
	store := newFakeS3()
	u, err := NewUploader(store, "bucket", "", 1, nil)
	require.NoError(t, err)

	var keys []string
	for i := 0; i < 3; i++ {
		at := time.Date(2024, 1, 1, i, 0, 0, 0, time.UTC)
		keys = append(keys, u.Key(at))
		store.objects[u.Key(at)] = fakeObject{modified: at}
	}
	store.failKey = keys[0]

	deleted, err := u.Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{keys[1]}, deleted)
	assert.ElementsMatch(t, []string{keys[0], keys[2]}, store.keys())
}

func TestRunErrors(t *testing.T) {
	store := newFakeS3()
	u, err := NewUploader(store, "bucket", "", 1, nil)
	require.NoError(t, err)

	_, err = u.Run(context.Background(), func() ([]byte, error) { return nil, errors.New("locked") })
	assert.ErrorContains(t, err, "snapshot library")

	store.failPut = errors.New("no such bucket")
	_, err = u.Run(context.Background(), snapshotOf("{}"))
	assert.ErrorContains(t, err, "no such bucket")
	assert.Empty(t, store.keys())
}

func TestNewUploaderValidates(t *testing.T) {
	_, err := NewUploader(newFakeS3(), "", "", 1, nil)
	assert.Error(t, err)
	_, err = NewUploader(newFakeS3(), "b", "", 0, nil)
	assert.Error(t, err)
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("PAPERLIB_BACKUP_S3_ACCESS_KEY", "AKIA")
	t.Setenv("PAPERLIB_BACKUP_S3_SECRET_KEY", "secret")
	c, err := LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, Credentials{AccessKey: "AKIA", SecretKey: "secret"}, c)

	t.Setenv("PAPERLIB_BACKUP_S3_SECRET_KEY", "")
	_, err = LoadCredentials()
	assert.Error(t, err)
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	u, err := NewUploader(newFakeS3(), "b", "", 1, nil)
	require.NoError(t, err)
	_, err = Schedule("every tuesday", u, snapshotOf("{}"), nil)
	assert.Error(t, err)

	c, err := Schedule("@every 1h", u, snapshotOf("{}"), nil)
	require.NoError(t, err)
	c.Stop()
}
