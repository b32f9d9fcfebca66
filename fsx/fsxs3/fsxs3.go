package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Abraxas-365/mockup2html/errx"
	"github.com/Abraxas-365/mockup2html/fsx"
)

// API is the subset of *s3.Client used by FileSystem
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, opts ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// Config holds the bucket location
type Config struct {
	Bucket string `json:"bucket"`
	Prefix string `json:"prefix"`
	Region string `json:"region"`
	// Endpoint overrides the S3 endpoint (MinIO, localstack); enables path style
	Endpoint string `json:"endpoint"`
}

// FileSystem stores files as objects in one bucket
type FileSystem struct {
	client API
	bucket string
	prefix string
}

var (
	_ fsx.FileSystem = (*FileSystem)(nil)
	_ fsx.Locator    = (*FileSystem)(nil)
)

// New wraps an existing client
func New(client API, bucket, prefix string) *FileSystem {
	return &FileSystem{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// NewFromConfig loads AWS credentials from the default chain
func NewFromConfig(ctx context.Context, cfg Config) (*FileSystem, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errx.Wrap(err, "Failed to load AWS configuration", errx.TypeSystem)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return New(client, cfg.Bucket, cfg.Prefix), nil
}

func (f *FileSystem) key(p string) string {
	clean := strings.TrimPrefix(path.Clean("/"+p), "/")
	if f.prefix == "" {
		return clean
	}
	if clean == "" {
		return f.prefix
	}
	return f.prefix + "/" + clean
}

func (f *FileSystem) dirKey(p string) string {
	k := f.key(p)
	if k == "" {
		return ""
	}
	return k + "/"
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}

func (f *FileSystem) wrap(err error, code errx.Code, p string) error {
	if isNotFound(err) {
		code = fsx.ErrNotFound
	}
	return fsx.Registry().NewWithCause(code, err).
		WithDetail("bucket", f.bucket).
		WithDetail("key", f.key(p))
}

func (f *FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	body, err := f.ReadFileStream(ctx, p)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, f.wrap(err, fsx.ErrReadFailed, p)
	}
	return data, nil
}

func (f *FileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err != nil {
		return nil, f.wrap(err, fsx.ErrReadFailed, p)
	}
	return out.Body, nil
}

func (f *FileSystem) Stat(ctx context.Context, p string) (fsx.FileInfo, error) {
	out, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err != nil {
		return fsx.FileInfo{}, f.wrap(err, fsx.ErrReadFailed, p)
	}

	return fsx.FileInfo{
		Name:        path.Base(p),
		Size:        aws.ToInt64(out.ContentLength),
		ModTime:     aws.ToTime(out.LastModified),
		ContentType: aws.ToString(out.ContentType),
		Metadata:    out.Metadata,
	}, nil
}

// List returns the objects and common prefixes directly below p
func (f *FileSystem) List(ctx context.Context, p string) ([]fsx.FileInfo, error) {
	prefix := f.dirKey(p)
	paginator := s3.NewListObjectsV2Paginator(f.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(f.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	var infos []fsx.FileInfo
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, f.wrap(err, fsx.ErrReadFailed, p)
		}
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/")
			infos = append(infos, fsx.FileInfo{Name: name, IsDir: true})
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			infos = append(infos, fsx.FileInfo{
				Name:        name,
				Size:        aws.ToInt64(obj.Size),
				ModTime:     aws.ToTime(obj.LastModified),
				ContentType: mime.TypeByExtension(path.Ext(name)),
			})
		}
	}
	return infos, nil
}

func (f *FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	return f.put(ctx, p, bytes.NewReader(data), int64(len(data)))
}

// WriteFileStream streams seekable readers directly; anything else is
// buffered so the request can carry a content length
func (f *FileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	if rs, ok := r.(io.ReadSeeker); ok {
		if _, err := rs.Seek(0, io.SeekCurrent); err == nil {
			return f.put(ctx, p, rs, -1)
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return f.wrap(err, fsx.ErrWriteFailed, p)
	}
	return f.WriteFile(ctx, p, data)
}

func (f *FileSystem) put(ctx context.Context, p string, body io.Reader, size int64) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
		Body:   body,
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		in.ContentType = aws.String(ct)
	}

	if _, err := f.client.PutObject(ctx, in); err != nil {
		return f.wrap(err, fsx.ErrWriteFailed, p)
	}
	return nil
}

// CreateDir is a no-op; S3 prefixes exist implicitly
func (f *FileSystem) CreateDir(ctx context.Context, p string) error {
	return nil
}

func (f *FileSystem) DeleteFile(ctx context.Context, p string) error {
	_, err := f.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err != nil {
		return f.wrap(err, fsx.ErrDeleteFailed, p)
	}
	return nil
}

// DeleteDir removes every object under p. Without recursive it only
// succeeds when the prefix is already empty.
func (f *FileSystem) DeleteDir(ctx context.Context, p string, recursive bool) error {
	prefix := f.dirKey(p)
	if prefix == "" {
		return fsx.Registry().New(fsx.ErrInvalidPath).WithDetail("path", p)
	}

	paginator := s3.NewListObjectsV2Paginator(f.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(f.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return f.wrap(err, fsx.ErrDeleteFailed, p)
		}
		if len(page.Contents) == 0 {
			continue
		}
		if !recursive {
			return fsx.Registry().NewWithMessage(fsx.ErrDeleteFailed, "Directory is not empty").
				WithDetail("path", p)
		}

		ids := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			ids = append(ids, types.ObjectIdentifier{Key: obj.Key})
		}
		if _, err := f.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(f.bucket),
			Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		}); err != nil {
			return f.wrap(err, fsx.ErrDeleteFailed, p)
		}
	}
	return nil
}

func (f *FileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

func (f *FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := f.Stat(ctx, p)
	if fsx.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

// Location returns s3://bucket/key
func (f *FileSystem) Location(p string) string {
	return "s3://" + f.bucket + "/" + f.key(p)
}
