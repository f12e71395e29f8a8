package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// mockS3Client implements s3Client for testing.
type mockS3Client struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMockS3() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte)}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) ListObjectsV2(_ context.Context, input *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, aws.ToString(input.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k), Size: aws.Int64(int64(len(m.objects[k])))})
	}
	return out, nil
}

func (m *mockS3Client) DeleteObject(_ context.Context, input *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func newTestArchiver(keep int) (*Archiver, *mockS3Client) {
	mock := newMockS3()
	a := New(S3Config{}, keep, slog.Default())
	a.client = mock
	a.bucket = "test-bucket"
	a.status = Status{State: StateIdle}
	n := 0
	a.suffix = func() string {
		n++
		return fmt.Sprintf("%04d", n)
	}
	return a, mock
}

func TestNewState(t *testing.T) {
	if s := New(S3Config{}, 0, slog.Default()).Status().State; s != StateDisabled {
		t.Errorf("state = %q, want %q", s, StateDisabled)
	}
	a := New(S3Config{Bucket: "b", AccessKey: "k", SecretKey: "s", Region: "us-east-1"}, 0, slog.Default())
	if a.Status().State != StateIdle || !a.Configured() {
		t.Errorf("state = %q, configured = %v", a.Status().State, a.Configured())
	}
}

func TestUploadNotConfigured(t *testing.T) {
	a := New(S3Config{}, 0, slog.Default())
	if _, err := a.Upload(context.Background(), "c1", []byte("x")); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestUploadKeyAndStatus(t *testing.T) {
	a, mock := newTestArchiver(0)
	a.now = func() time.Time { return time.Date(2024, 1, 6, 9, 30, 5, 0, time.UTC) }

	obj, err := a.Upload(context.Background(), "chart-1", []byte("Child,Chore\n"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if obj.Key != "charts/chart-1/2024-01-06T093005.000Z-0001.csv" {
		t.Errorf("key = %q", obj.Key)
	}
	if string(mock.objects[obj.Key]) != "Child,Chore\n" {
		t.Errorf("stored = %q", mock.objects[obj.Key])
	}
	st := a.Status()
	if st.State != StateIdle || st.LastArchive == nil {
		t.Errorf("status = %+v", st)
	}
}

func TestUploadErrorSetsStatus(t *testing.T) {
	a, mock := newTestArchiver(0)
	mock.putErr = errors.New("boom")

	if _, err := a.Upload(context.Background(), "chart-1", []byte("x")); err == nil {
		t.Fatal("expected error")
	}
	if st := a.Status(); st.State != StateError || st.Error != "boom" {
		t.Errorf("status = %+v", st)
	}
}

func TestUploadPrunesOldExports(t *testing.T) {
	a, mock := newTestArchiver(2)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		a.now = func() time.Time { return at }
		if _, err := a.Upload(context.Background(), "chart-1", []byte("x")); err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
	}
	if _, err := a.Upload(context.Background(), "chart-2", []byte("y")); err != nil {
		t.Fatalf("upload other chart: %v", err)
	}

	objs, err := a.List(context.Background(), "chart-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("kept %d exports, want 2: %+v", len(objs), objs)
	}
	if objs[0].Key != "charts/chart-1/2024-01-01T030000.000Z-0004.csv" {
		t.Errorf("newest = %q", objs[0].Key)
	}
	if len(mock.objects) != 3 {
		t.Errorf("bucket holds %d objects, want 3", len(mock.objects))
	}
}

func TestUploadSameInstantKeepsBoth(t *testing.T) {
	a, mock := newTestArchiver(0)
	a.now = func() time.Time { return time.Date(2024, 1, 6, 9, 30, 5, 0, time.UTC) }
	a.suffix = func() string { return uuid.NewString()[:8] }

	first, err := a.Upload(context.Background(), "chart-1", []byte("first"))
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	second, err := a.Upload(context.Background(), "chart-1", []byte("second"))
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if first.Key == second.Key {
		t.Fatalf("both uploads used key %q", first.Key)
	}
	if len(mock.objects) != 2 || string(mock.objects[first.Key]) != "first" {
		t.Errorf("bucket = %v", mock.objects)
	}
}
