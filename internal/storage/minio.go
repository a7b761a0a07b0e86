package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient stores objects on MinIO. It works with any S3 compatible
// provider that minio-go can reach.
type MinioClient struct {
	client     *minio.Client
	bucket     string
	publicBase string
	presignTTL time.Duration
}

type MinioOptions struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	Region     string
	UseSSL     bool
	PublicBase string
	PresignTTL time.Duration
}

func NewMinioClient(opts MinioOptions) (*MinioClient, error) {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ttl := opts.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &MinioClient{
		client:     client,
		bucket:     opts.Bucket,
		publicBase: strings.TrimRight(opts.PublicBase, "/"),
		presignTTL: ttl,
	}, nil
}

// EnsureBucket creates the bucket when missing and, when a public base is
// configured, opens it for anonymous reads.
func (m *MinioClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %q: %w", m.bucket, err)
		}
	}

	if m.publicBase == "" {
		return nil
	}
	if err := m.client.SetBucketPolicy(ctx, m.bucket, publicReadPolicy(m.bucket)); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}

	return nil
}

func (m *MinioClient) Ref(path string) Ref {
	return Ref{Bucket: m.bucket, Key: path}
}

func (m *MinioClient) Put(ctx context.Context, ref Ref, data []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, ref.Bucket, ref.Key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", ref.Key, err)
	}
	return nil
}

func (m *MinioClient) DownloadURL(ctx context.Context, ref Ref) (string, error) {
	if m.publicBase != "" {
		return m.publicBase + "/" + ref.Key, nil
	}

	u, err := m.client.PresignedGetObject(ctx, ref.Bucket, ref.Key, m.presignTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object %q: %w", ref.Key, err)
	}
	return u.String(), nil
}

const publicReadPolicyFormat = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":"*","Action":"s3:GetObject","Resource":"arn:aws:s3:::%s/*"}]}`

// publicReadPolicy allows anonymous GET on every object of the bucket.
func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(publicReadPolicyFormat, bucket)
}
