// Package storage publishes generated podcast files to S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/nadzzz/podcaster/internal/config"
)

// S3Publisher uploads files under {prefix}/{run_id}/{file name}.
type S3Publisher struct {
	client   *s3.S3
	bucket   string
	prefix   string
	region   string
	endpoint string
}

// NewS3Publisher creates a publisher using the default AWS credential chain.
func NewS3Publisher(cfg config.S3Config) (*S3Publisher, error) {
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.PathStyle),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("creating aws session: %w", err)
	}

	return &S3Publisher{
		client:   s3.New(sess),
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(cfg.Prefix, "/"),
		region:   cfg.Region,
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
	}, nil
}

// Publish uploads every file and returns their URLs in the same order.
func (p *S3Publisher) Publish(ctx context.Context, runID string, paths ...string) ([]string, error) {
	urls := make([]string, 0, len(paths))
	for _, fp := range paths {
		key := path.Join(p.prefix, runID, filepath.Base(fp))
		if err := p.upload(ctx, key, fp); err != nil {
			return nil, err
		}
		urls = append(urls, p.url(key))
		slog.Info("published file", "bucket", p.bucket, "key", key)
	}
	return urls, nil
}

func (p *S3Publisher) upload(ctx context.Context, key, fp string) error {
	f, err := os.Open(fp)
	if err != nil {
		return fmt.Errorf("opening %s: %w", fp, err)
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(fp))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("uploading %s to s3: %w", key, err)
	}
	return nil
}

func (p *S3Publisher) url(key string) string {
	if p.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", p.endpoint, p.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, key)
}
