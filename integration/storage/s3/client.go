package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds the connection settings of the configuration bucket.
type Config struct {
	Bucket         string `env:"CONFIG_S3_BUCKET"`
	Key            string `env:"CONFIG_S3_KEY" envDefault:"config.env"`
	Region         string `env:"CONFIG_S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"CONFIG_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"CONFIG_S3_SECRET_KEY"`
	Endpoint       string `env:"CONFIG_S3_ENDPOINT"`         // For S3-compatible services like MinIO
	ForcePathStyle bool   `env:"CONFIG_S3_FORCE_PATH_STYLE"` // Required for MinIO and some S3-compatible services
}

// ClientOption customizes the underlying aws-sdk client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	loadOptions   []func(*awsconfig.LoadOptions) error
	clientOptions []func(*s3aws.Options)
}

// WithLoadOption adds an AWS config load option.
func WithLoadOption(opt func(*awsconfig.LoadOptions) error) ClientOption {
	return func(o *clientOptions) {
		o.loadOptions = append(o.loadOptions, opt)
	}
}

// WithS3ClientOption adds an S3 client option.
func WithS3ClientOption(opt func(*s3aws.Options)) ClientOption {
	return func(o *clientOptions) {
		o.clientOptions = append(o.clientOptions, opt)
	}
}

// NewClient creates an S3 client for cfg.
// Static credentials are used when both keys are set; otherwise the default
// AWS credential chain applies.
func NewClient(ctx context.Context, cfg Config, opts ...ClientOption) (*s3aws.Client, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required", ErrInvalidConfig)
	}

	options := &clientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		loadOptions = append(loadOptions,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretKey,
				"",
			)),
		)
	}
	loadOptions = append(loadOptions, options.loadOptions...)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	return s3aws.NewFromConfig(awsCfg, func(o *s3aws.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle

		for _, opt := range options.clientOptions {
			opt(o)
		}
	}), nil
}
