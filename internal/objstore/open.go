package objstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/52poke/kura/internal/config"
)

// instanceIDHeader scopes requests to a service instance on IBM COS.
const instanceIDHeader = "ibm-service-instance-id"

// Open builds the Store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.RemoteConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverMinio:
		client, err := newMinioClient(cfg)
		if err != nil {
			return nil, err
		}
		return NewMinioStore(client, cfg.Bucket, cfg.Prefix, cfg.StorageClass), nil
	case config.DriverS3, "":
		client, err := newS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Store(cfg.Bucket, cfg.Prefix, cfg.StorageClass, client), nil
	default:
		return nil, fmt.Errorf("unknown object store driver %q", cfg.Driver)
	}
}

func newS3Client(ctx context.Context, cfg config.RemoteConfig) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.HasStaticCredentials() {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, s3Options(cfg)), nil
}

func s3Options(cfg config.RemoteConfig) func(*s3.Options) {
	return func(o *s3.Options) {
		o.UsePathStyle = true
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.InstanceID != "" {
			o.APIOptions = append(o.APIOptions, smithyhttp.AddHeaderValue(instanceIDHeader, cfg.InstanceID))
		}
	}
}

func newMinioClient(cfg config.RemoteConfig) (*minio.Client, error) {
	host, secure, err := splitEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	creds := miniocreds.NewEnvAWS()
	if cfg.HasStaticCredentials() {
		creds = miniocreds.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  creds,
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return client, nil
}

// splitEndpoint turns "https://host:port" into the host form minio.New wants.
// A bare host is treated as TLS.
func splitEndpoint(endpoint string) (string, bool, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", false, fmt.Errorf("endpoint required")
	}
	if !strings.Contains(endpoint, "://") {
		return strings.TrimRight(endpoint, "/"), true, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse endpoint: %w", err)
	}
	switch u.Scheme {
	case "https":
		return u.Host, true, nil
	case "http":
		return u.Host, false, nil
	default:
		return "", false, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
}
