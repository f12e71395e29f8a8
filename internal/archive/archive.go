package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// keyLayout sorts lexically in upload order.
const keyLayout = "2006-01-02T150405.000Z"

// ErrNotConfigured is returned when no bucket or credentials are set.
var ErrNotConfigured = errors.New("archive not configured: S3 credentials missing")

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

func (c S3Config) complete() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

type Status struct {
	State       State      `json:"state"`
	LastArchive *time.Time `json:"lastArchive,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Object is one stored chart export.
type Object struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// Archiver uploads chart CSV exports to S3-compatible storage under
// charts/<chartID>/ and keeps a bounded history per chart.
type Archiver struct {
	mu     sync.RWMutex
	bucket string
	keep   int
	client s3Client
	status Status
	logger *slog.Logger
	now    func() time.Time
	suffix func() string
}

// New returns an Archiver. keep bounds how many exports are retained per
// chart; zero or less keeps everything.
func New(cfg S3Config, keep int, logger *slog.Logger) *Archiver {
	a := &Archiver{
		bucket: cfg.Bucket,
		keep:   keep,
		logger: logger,
		now:    time.Now,
		suffix: func() string { return uuid.NewString()[:8] },
		status: Status{State: StateDisabled},
	}
	if cfg.complete() {
		a.client = newS3Client(cfg)
		a.status.State = StateIdle
	}
	return a
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func (a *Archiver) Configured() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.client != nil
}

func (a *Archiver) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

func (a *Archiver) setStatus(s Status) {
	a.mu.Lock()
	a.status = s
	a.mu.Unlock()
}

func prefix(chartID string) string {
	return fmt.Sprintf("charts/%s/", chartID)
}

// Upload stores data as charts/<chartID>/<timestamp>-<suffix>.csv and prunes older
// exports beyond the retention limit. A pruning failure is logged, not
// returned.
func (a *Archiver) Upload(ctx context.Context, chartID string, data []byte) (Object, error) {
	a.mu.RLock()
	client, bucket := a.client, a.bucket
	a.mu.RUnlock()
	if client == nil {
		return Object{}, ErrNotConfigured
	}

	a.setStatus(Status{State: StateRunning})

	now := a.now().UTC()
	key := fmt.Sprintf("%s%s-%s.csv", prefix(chartID), now.Format(keyLayout), a.suffix())

	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("text/csv"),
	})
	if err != nil {
		a.setStatus(Status{State: StateError, Error: err.Error()})
		return Object{}, fmt.Errorf("upload to s3: %w", err)
	}

	a.setStatus(Status{State: StateIdle, LastArchive: &now})
	a.logger.Info("chart archived", "chart_id", chartID, "key", key, "bytes", len(data))

	if err := a.prune(ctx, chartID); err != nil {
		a.logger.Warn("archive prune failed", "chart_id", chartID, "error", err)
	}

	return Object{Key: key, Size: int64(len(data)), LastModified: now}, nil
}

// List returns a chart's stored exports, newest first.
func (a *Archiver) List(ctx context.Context, chartID string) ([]Object, error) {
	a.mu.RLock()
	client, bucket := a.client, a.bucket
	a.mu.RUnlock()
	if client == nil {
		return nil, ErrNotConfigured
	}

	var objects []Object
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix(chartID)),
	}
	for {
		out, err := client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list s3 objects: %w", err)
		}
		for _, obj := range out.Contents {
			o := Object{Key: aws.ToString(obj.Key), Size: aws.ToInt64(obj.Size)}
			if obj.LastModified != nil {
				o.LastModified = *obj.LastModified
			}
			objects = append(objects, o)
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		input.ContinuationToken = out.NextContinuationToken
	}

	// Keys embed the upload time, so key order is upload order.
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key > objects[j].Key })
	return objects, nil
}

func (a *Archiver) prune(ctx context.Context, chartID string) error {
	if a.keep <= 0 {
		return nil
	}
	objects, err := a.List(ctx, chartID)
	if err != nil {
		return err
	}
	if len(objects) <= a.keep {
		return nil
	}

	a.mu.RLock()
	client, bucket := a.client, a.bucket
	a.mu.RUnlock()

	for _, obj := range objects[a.keep:] {
		_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(obj.Key),
		})
		if err != nil {
			return fmt.Errorf("delete %s: %w", obj.Key, err)
		}
	}
	return nil
}
