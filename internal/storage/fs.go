package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "paintpro/internal/errors"
)

const bucketMetaFile = ".bucket.json"

// FS is a filesystem-backed Store. Each bucket is a directory under the root
// with a small metadata file; public URLs are served off baseURL.
type FS struct {
	root    string
	baseURL string
}

var _ Store = (*FS)(nil)

// NewFS creates a filesystem store rooted at dir.
func NewFS(dir, baseURL string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &FS{root: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root returns the directory files are served from.
func (f *FS) Root() string { return f.root }

func (f *FS) ListBuckets(_ context.Context) ([]BucketInfo, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, err
	}
	var buckets []BucketInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info := BucketInfo{Name: e.Name()}
		meta, err := os.ReadFile(filepath.Join(f.root, e.Name(), bucketMetaFile))
		if err == nil {
			_ = json.Unmarshal(meta, &info.BucketOptions)
		}
		buckets = append(buckets, info)
	}
	return buckets, nil
}

func (f *FS) CreateBucket(_ context.Context, name string, opts BucketOptions) error {
	dir := filepath.Join(f.root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bucket %s: %w", name, err)
	}
	meta, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, bucketMetaFile), meta, 0o644)
}

func (f *FS) Upload(_ context.Context, bucket, path string, r io.Reader) (int64, error) {
	opts, err := f.bucketOptions(bucket)
	if err != nil {
		return 0, err
	}

	dst := filepath.Join(f.root, bucket, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}
	file, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	limit := opts.SizeLimit
	if limit <= 0 {
		limit = JobFilesBucketOptions.SizeLimit
	}
	written, err := io.Copy(file, io.LimitReader(r, limit+1))
	if err != nil {
		_ = os.Remove(dst)
		return 0, err
	}
	if written > limit {
		_ = os.Remove(dst)
		return 0, apperrors.ErrFileTooLarge
	}
	return written, nil
}

func (f *FS) PublicURL(bucket, path string) string {
	return f.baseURL + "/" + bucket + "/" + path
}

func (f *FS) Remove(_ context.Context, bucket string, paths ...string) error {
	for _, p := range paths {
		target := filepath.Join(f.root, bucket, filepath.FromSlash(p))
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (f *FS) bucketOptions(bucket string) (BucketOptions, error) {
	var opts BucketOptions
	meta, err := os.ReadFile(filepath.Join(f.root, bucket, bucketMetaFile))
	if err != nil {
		if os.IsNotExist(err) {
			return opts, fmt.Errorf("bucket %s does not exist", bucket)
		}
		return opts, err
	}
	if err := json.Unmarshal(meta, &opts); err != nil {
		return opts, err
	}
	return opts, nil
}
