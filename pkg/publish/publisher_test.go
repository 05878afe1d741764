package publish

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeObject struct {
	body        []byte
	contentType string
}

// fakeS3 is an in-memory object store. pageSize > 0 makes listings paginate.
type fakeS3 struct {
	mu        sync.Mutex
	objects   map[string]fakeObject
	putErr    error
	pageSize  int
	deleted   []string
	listCalls int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string]fakeObject)}
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return nil, f.putErr
	}

	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	obj := fakeObject{body: body}
	if params.ContentType != nil {
		obj.contentType = *params.ContentType
	}
	f.objects[*params.Key] = obj
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, *params.Key)
	f.deleted = append(f.deleted, *params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++

	var keys []string
	for k := range f.objects {
		if params.Prefix != nil && !strings.HasPrefix(k, *params.Prefix) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if params.ContinuationToken != nil {
		after := *params.ContinuationToken
		i := sort.SearchStrings(keys, after)
		if i < len(keys) && keys[i] == after {
			i++
		}
		keys = keys[i:]
	}

	size := f.pageSize
	if size <= 0 || size > len(keys) {
		size = len(keys)
	}
	page := keys[:size]

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(len(keys) > size)}
	for _, k := range page {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if len(keys) > size {
		out.NextContinuationToken = aws.String(page[len(page)-1])
	}
	return out, nil
}

func (f *fakeS3) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.objects))
	for k := range f.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (f *fakeS3) contentType(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[key].contentType
}

func (f *fakeS3) seed(key, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = fakeObject{body: []byte(body)}
}

func writeOut(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPublisher(t *testing.T, fake *fakeS3, options Options) *Publisher {
	t.Helper()
	if options.Bucket == "" {
		options.Bucket = "site"
	}
	options.Logger = quietLogger()
	options.Concurrency = 2
	p, err := New(fake, options)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestPublishUploadsTree(t *testing.T) {
	dir := t.TempDir()
	writeOut(t, dir, "index.html", "<html>home</html>")
	writeOut(t, dir, "detail-id.html", "<html>detail</html>")
	writeOut(t, dir, "assets/app.js", "console.log(1)")
	writeOut(t, dir, "statica-manifest.json", "{}")
	writeOut(t, dir, ".hidden", "skip me")

	fake := newFakeS3()
	p := newTestPublisher(t, fake, Options{Prefix: "prod"})

	summary, err := p.Publish(context.Background(), dir)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	want := []string{
		"prod/assets/app.js",
		"prod/detail-id.html",
		"prod/index.html",
		"prod/statica-manifest.json",
	}
	got := fake.keys()
	if len(got) != len(want) {
		t.Fatalf("stored keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if summary.Uploaded != 4 {
		t.Errorf("Uploaded = %d, want 4", summary.Uploaded)
	}
	wantBytes := int64(len("<html>home</html>") + len("<html>detail</html>") + len("console.log(1)") + len("{}"))
	if summary.Bytes != wantBytes {
		t.Errorf("Bytes = %d, want %d", summary.Bytes, wantBytes)
	}

	if ct := fake.contentType("prod/index.html"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("index.html content type = %q, want text/html", ct)
	}
	if ct := fake.contentType("prod/statica-manifest.json"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("manifest content type = %q, want application/json", ct)
	}
}

func TestPublishPrunesStaleObjects(t *testing.T) {
	dir := t.TempDir()
	writeOut(t, dir, "index.html", "<html>v2</html>")

	fake := newFakeS3()
	fake.seed("prod/index.html", "<html>v1</html>")
	fake.seed("prod/old.html", "<html>gone</html>")
	fake.seed("other/keep.html", "<html>unrelated</html>")

	p := newTestPublisher(t, fake, Options{Prefix: "prod", Prune: true})

	summary, err := p.Publish(context.Background(), dir)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if summary.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1", summary.Deleted)
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != "prod/old.html" {
		t.Errorf("deleted = %v, want [prod/old.html]", fake.deleted)
	}

	got := fake.keys()
	want := []string{"other/keep.html", "prod/index.html"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("remaining keys = %v, want %v", got, want)
	}
}

func TestPublishWithoutPruneLeavesRemote(t *testing.T) {
	dir := t.TempDir()
	writeOut(t, dir, "index.html", "<html>v2</html>")

	fake := newFakeS3()
	fake.seed("prod/old.html", "<html>still here</html>")

	p := newTestPublisher(t, fake, Options{Prefix: "prod"})

	summary, err := p.Publish(context.Background(), dir)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if summary.Deleted != 0 {
		t.Errorf("Deleted = %d, want 0", summary.Deleted)
	}
	if len(fake.deleted) != 0 {
		t.Errorf("deleted = %v, want none", fake.deleted)
	}
}

func TestPrunePaginates(t *testing.T) {
	dir := t.TempDir()

	fake := newFakeS3()
	fake.pageSize = 2
	for _, k := range []string{"prod/a.html", "prod/b.html", "prod/c.html", "prod/d.html", "prod/e.html"} {
		fake.seed(k, "stale")
	}

	p := newTestPublisher(t, fake, Options{Prefix: "prod", Prune: true})

	summary, err := p.Publish(context.Background(), dir)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if summary.Deleted != 5 {
		t.Errorf("Deleted = %d, want 5", summary.Deleted)
	}
	if len(fake.keys()) != 0 {
		t.Errorf("remaining keys = %v, want none", fake.keys())
	}
	if fake.listCalls < 2 {
		t.Errorf("listCalls = %d, want multiple pages", fake.listCalls)
	}
}

func TestPublishUploadFailure(t *testing.T) {
	dir := t.TempDir()
	writeOut(t, dir, "index.html", "<html/>")

	fake := newFakeS3()
	fake.putErr = errors.New("access denied")

	p := newTestPublisher(t, fake, Options{Prefix: "prod", Prune: true})

	_, err := p.Publish(context.Background(), dir)
	if err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Fatalf("Publish() error = %v, want access denied", err)
	}
	if len(fake.deleted) != 0 {
		t.Errorf("prune ran after failed upload: deleted = %v", fake.deleted)
	}
}

func TestPublishMissingDir(t *testing.T) {
	fake := newFakeS3()
	p := newTestPublisher(t, fake, Options{})

	_, err := p.Publish(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrNoOutput) {
		t.Fatalf("Publish() error = %v, want ErrNoOutput", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(newFakeS3(), Options{}); !errors.Is(err, ErrNoBucket) {
		t.Fatalf("New() error = %v, want ErrNoBucket", err)
	}
}

func TestObjectKeys(t *testing.T) {
	tests := []struct {
		prefix string
		rel    string
		want   string
	}{
		{"", "index.html", "index.html"},
		{"prod", "index.html", "prod/index.html"},
		{"prod/", "index.html", "prod/index.html"},
		{"site/v2", "assets/app.js", "site/v2/assets/app.js"},
	}
	for _, tt := range tests {
		p := &Publisher{options: Options{Bucket: "b", Prefix: tt.prefix}}
		if got := p.key(tt.rel); got != tt.want {
			t.Errorf("key(%q) with prefix %q = %q, want %q", tt.rel, tt.prefix, got, tt.want)
		}
	}
}

func TestContentTypeFor(t *testing.T) {
	if ct := contentTypeFor("index.html"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("contentTypeFor(index.html) = %q, want text/html", ct)
	}
	if ct := contentTypeFor("data.bin.weird"); ct != "application/octet-stream" {
		t.Errorf("contentTypeFor(unknown) = %q, want application/octet-stream", ct)
	}
}
