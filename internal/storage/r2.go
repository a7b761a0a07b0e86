package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// R2Client talks to Cloudflare R2 or any other S3 compatible endpoint.
type R2Client struct {
	client      *s3.Client
	presigner   *s3.PresignClient
	bucketName  string
	publicURL   string
	presignTTL  time.Duration
	publicReads bool
}

type R2Options struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	// PublicURL, when set, is used to build download URLs directly.
	// Otherwise a presigned GET valid for PresignTTL is returned.
	PublicURL  string
	PresignTTL time.Duration
}

func NewR2Client(ctx context.Context, opts R2Options) (*R2Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	})

	ttl := opts.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &R2Client{
		client:      client,
		presigner:   s3.NewPresignClient(client),
		bucketName:  opts.BucketName,
		publicURL:   strings.TrimSuffix(opts.PublicURL, "/"),
		presignTTL:  ttl,
		publicReads: opts.PublicURL != "",
	}, nil
}

func (r *R2Client) Ref(path string) Ref {
	return Ref{Bucket: r.bucketName, Key: path}
}

func (r *R2Client) Put(ctx context.Context, ref Ref, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(ref.Bucket),
		Key:           aws.String(ref.Key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if r.publicReads {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	if _, err := r.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s to R2: %w", ref, err)
	}

	return nil
}

func (r *R2Client) DownloadURL(ctx context.Context, ref Ref) (string, error) {
	if r.publicReads {
		return fmt.Sprintf("%s/%s/%s", r.publicURL, ref.Bucket, ref.Key), nil
	}

	req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	}, s3.WithPresignExpires(r.presignTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", ref, err)
	}

	return req.URL, nil
}
