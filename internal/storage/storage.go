// Package storage is the blob-storage half of the remote gateway: named
// buckets holding uploaded job attachments, addressable by public URL.
package storage

import (
	"context"
	"io"
)

// BucketOptions configure a bucket at creation time.
type BucketOptions struct {
	Public    bool  `json:"public"`
	SizeLimit int64 `json:"sizeLimit"`
}

// BucketInfo describes an existing bucket.
type BucketInfo struct {
	Name string `json:"name"`
	BucketOptions
}

// Store is the bucket abstraction offered by the hosted backends.
type Store interface {
	ListBuckets(ctx context.Context) ([]BucketInfo, error)
	CreateBucket(ctx context.Context, name string, opts BucketOptions) error
	// Upload stores the blob under bucket/path and returns its size.
	Upload(ctx context.Context, bucket, path string, r io.Reader) (int64, error)
	PublicURL(bucket, path string) string
	Remove(ctx context.Context, bucket string, paths ...string) error
}

// JobFilesBucket is the bucket holding job attachments.
const JobFilesBucket = "zakazky-files"

// JobFilesBucketOptions are the options used when the attachment bucket is
// first created.
var JobFilesBucketOptions = BucketOptions{Public: true, SizeLimit: 10 << 20}

// EnsureBucket creates the bucket if it does not exist yet.
func EnsureBucket(ctx context.Context, s Store, name string, opts BucketOptions) error {
	buckets, err := s.ListBuckets(ctx)
	if err != nil {
		return err
	}
	for _, b := range buckets {
		if b.Name == name {
			return nil
		}
	}
	return s.CreateBucket(ctx, name, opts)
}
