package backup

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kelseyhightower/envconfig"
)

// Credentials are read from PAPERLIB_BACKUP_S3_ACCESS_KEY and
// PAPERLIB_BACKUP_S3_SECRET_KEY. When both are empty the default AWS
// credential chain applies.
type Credentials struct {
	AccessKey string `envconfig:"BACKUP_S3_ACCESS_KEY"`
	SecretKey string `envconfig:"BACKUP_S3_SECRET_KEY"`
}

// LoadCredentials reads Credentials from the environment.
func LoadCredentials() (Credentials, error) {
	var c Credentials
	if err := envconfig.Process("PAPERLIB", &c); err != nil {
		return Credentials{}, fmt.Errorf("backup credentials: %w", err)
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return Credentials{}, fmt.Errorf("backup credentials: access key and secret key must be set together")
	}
	return c, nil
}

// NewS3Client builds a client for region. A non-empty endpoint targets an
// S3-compatible service with path-style addressing.
func NewS3Client(ctx context.Context, region, endpoint string, creds Credentials) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if creds.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKey, creds.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
