package fsxs3

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Abraxas-365/mockup2html/fsx"
)

// fakeS3 keeps objects in memory and ignores pagination
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := aws.ToString(in.Prefix)
	delim := aws.ToString(in.Delimiter)
	out := &s3.ListObjectsV2Output{}
	seen := map[string]bool{}

	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		if delim != "" {
			if dir, _, ok := strings.Cut(rest, delim); ok {
				cp := prefix + dir + delim
				if !seen[cp] {
					seen[cp] = true
					out.CommonPrefixes = append(out.CommonPrefixes, types.CommonPrefix{Prefix: aws.String(cp)})
				}
				continue
			}
		}
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k), Size: aws.Int64(int64(len(f.objects[k])))})
	}
	return out, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range in.Delete.Objects {
		delete(f.objects, aws.ToString(id.Key))
	}
	return &s3.DeleteObjectsOutput{}, nil
}

func TestWriteUsesPrefixAndContentType(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	fs := New(api, "mockups", "/archive/")

	if err := fs.WriteFile(ctx, "code/output_1.html", []byte("<html>")); err != nil {
		t.Fatal(err)
	}

	if _, ok := api.objects["archive/code/output_1.html"]; !ok {
		t.Fatalf("objects = %v", api.objects)
	}
	if !strings.HasPrefix(api.types["archive/code/output_1.html"], "text/html") {
		t.Errorf("content type = %q", api.types["archive/code/output_1.html"])
	}
	if loc := fs.Location("code/output_1.html"); loc != "s3://mockups/archive/code/output_1.html" {
		t.Errorf("Location = %q", loc)
	}
}

func TestWriteStreamWithProgress(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	fs := New(api, "b", "")

	var last int64
	body := fsx.NewProgressReader(bytes.NewReader([]byte("0123456789")), 10, func(done, total int64) {
		last = done
	})
	if err := fs.WriteFileStream(ctx, "images/a.png", body); err != nil {
		t.Fatal(err)
	}
	if last != 10 {
		t.Errorf("progress ended at %d", last)
	}
	if string(api.objects["images/a.png"]) != "0123456789" {
		t.Errorf("stored %q", api.objects["images/a.png"])
	}
}

func TestReadMissingIsNotFound(t *testing.T) {
	ctx := context.Background()
	fs := New(newFakeS3(), "b", "")

	if _, err := fs.ReadFile(ctx, "nope"); !fsx.IsNotFound(err) {
		t.Errorf("ReadFile err = %v", err)
	}
	ok, err := fs.Exists(ctx, "nope")
	if ok || err != nil {
		t.Errorf("Exists = %v, %v", ok, err)
	}
}

func TestListAndDeleteDir(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	fs := New(api, "b", "")

	for _, p := range []string{"code/a.txt", "code/b.txt", "code/old/c.txt", "images/x.png"} {
		if err := fs.WriteFile(ctx, p, []byte(p)); err != nil {
			t.Fatal(err)
		}
	}

	infos, err := fs.List(ctx, "code")
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 3 || !infos[0].IsDir || infos[0].Name != "old" {
		t.Errorf("List = %+v", infos)
	}

	if err := fs.DeleteDir(ctx, "code", false); err == nil {
		t.Error("non recursive delete of a populated prefix should fail")
	}
	if err := fs.DeleteDir(ctx, "code", true); err != nil {
		t.Fatal(err)
	}
	if len(api.objects) != 1 {
		t.Errorf("remaining objects = %v", api.objects)
	}
}
