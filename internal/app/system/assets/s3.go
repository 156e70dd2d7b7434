package assets

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// S3Config configures the S3-compatible adapter.
type S3Config struct {
	Endpoint  string // host[:port], no scheme
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Prefix    string // optional key prefix, e.g. "collegesite"
	PublicURL string // optional CDN/base URL; defaults to the bucket URL
}

// S3 stores objects in a bucket. The external id is the object key.
type S3 struct {
	cli    *minio.Client
	bucket string
	prefix string
	public string
	log    *zap.Logger
}

// NewS3 builds the client; it does not contact the server.
func NewS3(cfg S3Config, logger *zap.Logger) (*S3, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("new minio client: %w", err)
	}

	public := strings.TrimRight(cfg.PublicURL, "/")
	if public == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		public = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &S3{
		cli:    cli,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		public: public,
		log:    logger,
	}, nil
}

// EnsureBucket creates the bucket if it does not exist.
func (s *S3) EnsureBucket(ctx context.Context) error {
	ok, err := s.cli.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", s.bucket, err)
	}
	if ok {
		return nil
	}
	if err := s.cli.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket %q: %w", s.bucket, err)
	}
	s.log.Info("created asset bucket", zap.String("bucket", s.bucket))
	return nil
}

func (s *S3) Store(ctx context.Context, up Upload, opts Options) (Stored, error) {
	p, err := Prepare(up, opts)
	if err != nil {
		return Stored{}, err
	}

	key := objectKey(opts.Folder, p.Format)
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	info, err := s.cli.PutObject(ctx, s.bucket, key, bytes.NewReader(p.Data), int64(len(p.Data)),
		minio.PutObjectOptions{ContentType: p.MIME})
	if err != nil {
		return Stored{}, &DelegateError{Op: "store", Err: err}
	}
	s.log.Debug("asset stored",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int64("size", info.Size))

	return Stored{
		URL:          s.public + "/" + key,
		ExternalID:   key,
		Format:       p.Format,
		MIME:         p.MIME,
		Bytes:        int64(len(p.Data)),
		Width:        p.Width,
		Height:       p.Height,
		ResourceType: p.ResourceType,
	}, nil
}

func (s *S3) Delete(ctx context.Context, externalID string, _ ResourceType) error {
	if err := s.cli.RemoveObject(ctx, s.bucket, externalID, minio.RemoveObjectOptions{}); err != nil {
		return &DelegateError{Op: "delete", Err: err}
	}
	return nil
}
