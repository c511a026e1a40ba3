package vault

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vortisllc/memre-backend/internal/config"
)

// S3Vault stores backup artifacts in an S3 bucket under a backups/ prefix.
type S3Vault struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

func NewS3Vault(cfg *config.Config) (*S3Vault, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.VaultRegion),
	}
	if cfg.VaultAccess != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.VaultAccess, cfg.VaultSecret, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Vault{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.VaultBucket,
	}, nil
}

func (v *S3Vault) key(name string) string {
	return "backups/" + name
}

func (v *S3Vault) Put(ctx context.Context, name string, data []byte) (string, error) {
	key := v.key(name)
	_, err := v.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(v.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/sql"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload artifact: %w", err)
	}
	return "s3://" + v.bucket + "/" + key, nil
}

func (v *S3Vault) Get(ctx context.Context, name string) ([]byte, error) {
	out, err := v.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.key(name)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artifact: %w", err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

var _ Vault = (*S3Vault)(nil)
