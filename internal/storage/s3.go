// Package storage holds project files and profile images in S3, addressed by
// deterministic keys under asset/ and read back through the CDN domain.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aiquanty/Quanty-Backend/pkg/config"
)

type Service struct {
	client     *s3.Client
	bucket     string
	cdnDomain  string
	httpClient *http.Client
}

func New(ctx context.Context, cfg *config.AWSConfig) (*Service, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return &Service{
		client:     s3.NewFromConfig(awsCfg),
		bucket:     cfg.BucketName,
		cdnDomain:  cfg.CloudFrontDomain,
		httpClient: &http.Client{},
	}, nil
}

// Upload writes an object under the given key.
func (s *Service) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	return nil
}

// Delete removes an object.
func (s *Service) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the CDN URL an object is served from.
func (s *Service) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.cdnDomain, key)
}

// Stream proxies an object from the CDN to the response writer.
func (s *Service) Stream(ctx context.Context, w io.Writer, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.PublicURL(key), nil)
	if err != nil {
		return fmt.Errorf("building cdn request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %d", key, resp.StatusCode)
	}

	_, err = io.Copy(w, resp.Body)
	return err
}
