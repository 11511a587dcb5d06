package objstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/52poke/kura/internal/config"
)

func configWithEndpoint(endpoint, instanceID string) config.RemoteConfig {
	return config.RemoteConfig{
		Endpoint:   endpoint,
		InstanceID: instanceID,
		Bucket:     "pages",
		Driver:     config.DriverS3,
		Region:     "us-east-1",
	}
}

func TestSplitEndpoint(t *testing.T) {
	cases := []struct {
		in     string
		host   string
		secure bool
	}{
		{in: "https://s3.example.com", host: "s3.example.com", secure: true},
		{in: "http://localhost:9000", host: "localhost:9000", secure: false},
		{in: "s3.example.com/", host: "s3.example.com", secure: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			host, secure, err := splitEndpoint(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.host, host)
			assert.Equal(t, tc.secure, secure)
		})
	}
}

func TestSplitEndpointErrors(t *testing.T) {
	for _, in := range []string{"", "ftp://host"} {
		_, _, err := splitEndpoint(in)
		assert.Error(t, err, in)
	}
}

func TestOpenS3(t *testing.T) {
	cfg := configWithEndpoint("http://localhost:9000", "")
	cfg.AccessKeyID = "a"
	cfg.SecretAccessKey = "s"

	store, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &S3Store{}, store)
}

func TestOpenMinio(t *testing.T) {
	cfg := config.RemoteConfig{
		Endpoint:        "http://localhost:9000",
		Bucket:          "pages",
		Driver:          config.DriverMinio,
		Region:          "us-east-1",
		AccessKeyID:     "a",
		SecretAccessKey: "s",
	}

	store, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &MinioStore{}, store)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.RemoteConfig{Bucket: "b", Driver: "ftp"})
	require.Error(t, err)
}
