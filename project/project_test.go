package project

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/mockup2html/archive"
	"github.com/Abraxas-365/mockup2html/errx"
	"github.com/Abraxas-365/mockup2html/eventx"
	"github.com/Abraxas-365/mockup2html/eventx/eventxmemory"
	"github.com/Abraxas-365/mockup2html/fsx/fsxlocal"
	"github.com/Abraxas-365/mockup2html/inference"
	"github.com/Abraxas-365/mockup2html/markup"
	"github.com/Abraxas-365/mockup2html/session"
	"github.com/Abraxas-365/mockup2html/storex"
)

const pngBytes = "\x89PNG\r\n\x1a\nmockup"

type fakeDetector struct {
	preds []markup.Prediction
	err   error
	seen  string
}

func (f *fakeDetector) Detect(ctx context.Context, uri string) (inference.Result, error) {
	f.seen = uri
	if f.err != nil {
		return inference.Result{}, f.err
	}
	return inference.Result{Predictions: f.preds}, nil
}

type fixture struct {
	svc      *Service
	detector *fakeDetector
	store    *fsxlocal.FileSystem
	archiver *archive.Archiver
	cache    *storex.MemoryKV
	events   []eventx.Event
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	store, err := fsxlocal.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		detector: &fakeDetector{preds: []markup.Prediction{
			{Class: "button", X: 10, Y: 20, Width: 100, Height: 30},
			{Class: "image", X: 0, Y: 0, Width: 50, Height: 50},
		}},
		store:    store,
		archiver: archive.New(store),
		cache:    storex.NewMemoryKV(),
	}

	bus := eventxmemory.New()
	bus.Subscribe("*", func(ctx context.Context, e eventx.Event) error {
		f.events = append(f.events, e)
		return nil
	})

	opts = append([]Option{
		WithPublisher(bus),
		WithClock(func() time.Time { return time.UnixMilli(1700000000123) }),
	}, opts...)
	f.svc = NewService(f.detector, f.archiver, session.New(f.cache), opts...)
	return f
}

func TestUploadGeneratesDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Upload(ctx, "mock.png", strings.NewReader(pngBytes))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(res.ImageDataURI, "data:image/png;base64,") || f.detector.seen != res.ImageDataURI {
		t.Errorf("detector saw %q", f.detector.seen)
	}
	if res.Elements != 2 || !strings.Contains(res.Document, `src="`+res.ImageDataURI+`"`) {
		t.Errorf("document = %s", res.Document)
	}
	if f.svc.Session().State() != session.StateDocumentReady {
		t.Errorf("state = %v", f.svc.Session().State())
	}

	loc, err := res.ImageArchive.Result()
	if err != nil || loc.Path != "images/mock.png" {
		t.Errorf("image archive = %+v, %v", loc, err)
	}

	if len(f.events) != 2 || f.events[0].Type() != EventImageSelected || f.events[1].Type() != EventMarkupGenerated {
		t.Errorf("events = %v", f.events)
	}
}

func TestConvertWithoutImageArchive(t *testing.T) {
	f := newFixture(t, WithImageArchive(false))
	ctx := context.Background()

	res, err := f.svc.Upload(ctx, "mock.png", strings.NewReader(pngBytes))
	if err != nil {
		t.Fatal(err)
	}
	if res.ImageArchive != nil {
		t.Error("image archive started")
	}
	f.archiver.Wait(ctx)
	if ok, _ := f.store.Exists(ctx, "images/mock.png"); ok {
		t.Error("image written to the archive")
	}
}

func TestUploadInferenceFailureKeepsImage(t *testing.T) {
	f := newFixture(t)
	f.detector.err = errors.New("connection refused")

	if _, err := f.svc.Upload(context.Background(), "mock.png", strings.NewReader(pngBytes)); err == nil {
		t.Fatal("expected error")
	}
	if f.svc.Session().State() != session.StateImageSelected {
		t.Errorf("state = %v", f.svc.Session().State())
	}
	if _, ready := f.svc.Session().Document(); ready {
		t.Error("document should not be ready")
	}
	f.archiver.Wait(context.Background())
}

func TestUploadUnknownClassAborts(t *testing.T) {
	f := newFixture(t)
	f.detector.preds = append(f.detector.preds, markup.Prediction{Class: "carousel"})

	_, err := f.svc.Upload(context.Background(), "mock.png", strings.NewReader(pngBytes))
	if !markup.IsUnknownElementClass(err) {
		t.Fatalf("err = %v", err)
	}
	f.archiver.Wait(context.Background())
}

func TestUploadSkipUnknown(t *testing.T) {
	f := newFixture(t, WithSynthesizer(markup.NewSynthesizer(markup.WithSkipUnknown(true))))
	f.detector.preds = append(f.detector.preds, markup.Prediction{Class: "carousel"})

	res, err := f.svc.Upload(context.Background(), "mock.png", strings.NewReader(pngBytes))
	if err != nil {
		t.Fatal(err)
	}
	if res.Elements != 2 || len(res.Skipped) != 1 || res.Skipped[0] != "carousel" {
		t.Errorf("result = %d %v", res.Elements, res.Skipped)
	}
	f.archiver.Wait(context.Background())
}

func TestUploadEmptyImage(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Upload(context.Background(), "empty.png", strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty image")
	}
	if f.svc.Session().State() != session.StateEmpty {
		t.Error("empty image changed the session")
	}
}

func TestDownload(t *testing.T) {
	out, err := fsxlocal.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := newFixture(t, WithDownloader(NewFSDownloader(out, "downloads")))
	ctx := context.Background()

	up, err := f.svc.Upload(ctx, "mock.png", strings.NewReader(pngBytes))
	if err != nil {
		t.Fatal(err)
	}

	res, err := f.svc.Download(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 2 || res.Files[0].Name != "output_1700000000123.txt" || res.Files[1].Name != "output_1700000000123.html" {
		t.Fatalf("files = %+v", res.Files)
	}
	for _, file := range res.Files {
		data, err := out.ReadFile(ctx, "downloads/"+file.Name)
		if err != nil || string(data) != up.Document {
			t.Errorf("%s = %v", file.Name, err)
		}
		if !strings.HasPrefix(file.Location, "file://") {
			t.Errorf("location = %q", file.Location)
		}
	}

	loc, err := res.DocumentArchive.Result()
	if err != nil || loc.Path != "code/output_1700000000123.txt" {
		t.Errorf("document archive = %+v, %v", loc, err)
	}
	archived, _ := f.store.ReadFile(ctx, "code/output_1700000000123.txt")
	if string(archived) != up.Document {
		t.Error("archived text differs from document")
	}

	if f.svc.Session().State() != session.StateEmpty {
		t.Error("download did not clear the session")
	}
	if _, ok, _ := f.cache.Get(ctx, session.CacheKey); ok {
		t.Error("download did not clear the cache")
	}
	if last := f.events[len(f.events)-1]; last.Type() != EventMarkupDownloaded {
		t.Errorf("last event = %s", last.Type())
	}
	f.archiver.Wait(ctx)
}

func TestDownloadWithoutDocument(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Download(context.Background())
	if !errx.IsCode(err, ErrNoDocument) {
		t.Errorf("err = %v", err)
	}
}

func TestFileKeepsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.File(FormatHTML); !errx.IsCode(err, ErrNoDocument) {
		t.Errorf("before upload err = %v", err)
	}

	up, err := f.svc.Upload(ctx, "mock.png", strings.NewReader(pngBytes))
	if err != nil {
		t.Fatal(err)
	}
	for _, format := range Formats {
		file, err := f.svc.File(format)
		if err != nil {
			t.Fatal(err)
		}
		if file.Name != "output_1700000000123."+string(format) || file.Content != up.Document {
			t.Errorf("file = %s %q", file.Name, file.Content)
		}
	}
	if _, err := f.svc.File("pdf"); !errx.IsCode(err, ErrInvalidFormat) {
		t.Errorf("pdf err = %v", err)
	}

	if f.svc.Session().State() != session.StateDocumentReady {
		t.Errorf("state = %v", f.svc.Session().State())
	}
	f.archiver.Wait(ctx)
	if ok, _ := f.store.Exists(ctx, "code/output_1700000000123.txt"); ok {
		t.Error("single file was archived")
	}
}

func TestTeardownAndRestore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.Upload(ctx, "mock.png", strings.NewReader(pngBytes))

	other := NewService(f.detector, f.archiver, session.New(f.cache))
	if ok, err := other.Restore(ctx); !ok || err != nil {
		t.Fatalf("restore = %v, %v", ok, err)
	}

	if err := f.svc.Teardown(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := f.cache.Get(ctx, session.CacheKey); ok {
		t.Error("teardown left the cache entry")
	}
	f.archiver.Wait(ctx)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"html", FormatHTML, true},
		{" TXT ", FormatText, true},
		{"text", FormatText, true},
		{"pdf", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if got != tt.want || (err == nil) != tt.ok {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
