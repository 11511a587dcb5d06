package objstore

import (
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

type MinioStore struct {
	client       *minio.Client
	bucket       string
	prefix       string
	storageClass string
}

func NewMinioStore(client *minio.Client, bucket, prefix, storageClass string) *MinioStore {
	return &MinioStore{
		client:       client,
		bucket:       bucket,
		prefix:       strings.Trim(prefix, "/"),
		storageClass: storageClass,
	}
}

func (s *MinioStore) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

func (s *MinioStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.key(prefix),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := obj.Key
		if s.prefix != "" {
			name = strings.TrimPrefix(name, s.prefix+"/")
		}
		names = append(names, name)
	}
	return names, nil
}

func (s *MinioStore) Get(ctx context.Context, key string) (string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(key), minio.GetObjectOptions{})
	if err != nil {
		return "", minioErr(err)
	}
	defer obj.Close()

	// GetObject is lazy; a missing key only shows up on first read.
	body, err := io.ReadAll(obj)
	if err != nil {
		return "", minioErr(err)
	}
	return string(body), nil
}

func (s *MinioStore) Put(ctx context.Context, key, contents string) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(key), strings.NewReader(contents), int64(len(contents)), minio.PutObjectOptions{
		ContentType:  textContentType,
		StorageClass: s.storageClass,
	})
	return err
}

func minioErr(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NotFound" {
		return ErrNotFound
	}
	return err
}
