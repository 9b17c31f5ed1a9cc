package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Bucket names mirror the storage partitions the admin forms upload into.
const (
	BucketScreenshots = "screenshots"
	BucketApks        = "apks"
	BucketBlogImages  = "blog-images"
	BucketProfile     = "profile"
)

// MaxUploadSize caps a single upload at 25MB (APK binaries are the largest
// expected class).
const MaxUploadSize = 25 << 20

var ErrUnknownBucket = errors.New("unknown storage bucket")

type bucketSpec struct {
	prefix string // object name prefix, may be empty
	image  bool   // re-encode and downscale through the image pipeline
}

var buckets = map[string]bucketSpec{
	BucketScreenshots: {prefix: "", image: true},
	BucketApks:        {prefix: "", image: false},
	BucketBlogImages:  {prefix: "blog_", image: true},
	BucketProfile:     {prefix: "resume_", image: false},
}

// Store writes uploaded objects under baseDir/<bucket>/ and resolves them to
// public URLs under baseURL/<bucket>/.
type Store struct {
	baseDir string
	baseURL string
}

func NewStore(baseDir, baseURL string) *Store {
	return &Store{
		baseDir: baseDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Upload stores one object and returns its public URL. The object name is the
// bucket prefix plus a nanosecond timestamp plus the file extension, so
// successive uploads never collide. Image buckets run through the image
// pipeline; other buckets store bytes verbatim.
func (s *Store) Upload(bucket, originalName string, r io.Reader) (string, error) {
	spec, ok := buckets[bucket]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownBucket, bucket)
	}

	var data []byte
	var ext string
	var err error

	if spec.image {
		data, err = processImage(r)
		if err != nil {
			return "", err
		}
		ext = ".jpg"
	} else {
		data, err = io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read upload: %w", err)
		}
		ext = strings.ToLower(filepath.Ext(originalName))
	}

	name := fmt.Sprintf("%s%d%s", spec.prefix, time.Now().UnixNano(), ext)

	dir := filepath.Join(s.baseDir, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create bucket dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}

	return s.PublicURL(bucket, name), nil
}

// PublicURL resolves a stored object to its publicly reachable URL. It is
// total: resolution cannot fail once the upload succeeded.
func (s *Store) PublicURL(bucket, name string) string {
	return s.baseURL + "/" + bucket + "/" + name
}

// Dir returns the directory backing a bucket, for serving it statically.
func (s *Store) Dir(bucket string) string {
	return filepath.Join(s.baseDir, bucket)
}
