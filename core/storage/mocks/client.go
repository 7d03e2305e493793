// Package mocks provides testify mocks for the storage package.
package mocks

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
)

// Client mocks storage.Client.
type Client struct {
	mock.Mock
}

// NewClient returns a mock whose expectations are asserted when the test ends.
func NewClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *Client {
	m := &Client{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	ret := m.Called(ctx, bucketName)
	if fn, ok := ret.Get(0).(func(context.Context, string) (bool, error)); ok {
		return fn(ctx, bucketName)
	}
	return ret.Bool(0), ret.Error(1)
}

func (m *Client) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucketName, opts).Error(0)
}

// PutObject receives the reader unread; a Run hook on the call can capture
// the uploaded bytes.
func (m *Client) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	ret := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	info, _ := ret.Get(0).(minio.UploadInfo)
	return info, ret.Error(1)
}

func (m *Client) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	ret := m.Called(ctx, bucketName, objectName, opts)
	rc, _ := ret.Get(0).(io.ReadCloser)
	return rc, ret.Error(1)
}
