package uploads

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Storage persists an uploaded file and returns its public URL.
type Storage interface {
	Put(ctx context.Context, key, contentType string, body io.ReadSeeker) (string, error)
}

type S3Storage struct {
	svc    *s3.S3
	bucket string
	region string
	prefix string
}

// NewS3Storage returns nil when the region or bucket is not configured,
// which keeps uploads working locally without forwarding to S3.
func NewS3Storage(region, bucket, prefix string) (*S3Storage, error) {
	region = strings.TrimSpace(region)
	bucket = strings.TrimSpace(bucket)
	if region == "" || bucket == "" {
		return nil, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}

	return &S3Storage{
		svc:    s3.New(sess),
		bucket: bucket,
		region: region,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

func (s *S3Storage) Put(ctx context.Context, key, contentType string, body io.ReadSeeker) (string, error) {
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	_, err := s.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
