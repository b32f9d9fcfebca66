// Package project runs the mockup conversion flow: take an image, archive
// it, detect UI elements, synthesize markup and hand the result out as
// output_<millis>.txt and .html.
package project

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/Abraxas-365/mockup2html/archive"
	"github.com/Abraxas-365/mockup2html/asyncx"
	"github.com/Abraxas-365/mockup2html/errx"
	"github.com/Abraxas-365/mockup2html/eventx"
	"github.com/Abraxas-365/mockup2html/imagesrc"
	"github.com/Abraxas-365/mockup2html/inference"
	"github.com/Abraxas-365/mockup2html/logx"
	"github.com/Abraxas-365/mockup2html/markup"
	"github.com/Abraxas-365/mockup2html/session"
)

var (
	projectErrors = errx.NewRegistry("PROJECT")

	ErrNoDocument    = projectErrors.Register("NO_DOCUMENT", errx.TypeConflict, http.StatusConflict, "No generated document to download")
	ErrInvalidFormat = projectErrors.Register("INVALID_FORMAT", errx.TypeValidation, http.StatusBadRequest, "Unsupported download format")
	ErrOfferFailed   = projectErrors.Register("OFFER_FAILED", errx.TypeSystem, http.StatusInternalServerError, "Could not hand out generated file")
)

// UploadResult is what the caller sees after a conversion
type UploadResult struct {
	SessionID    string              `json:"session_id"`
	ImageDataURI string              `json:"image_data_uri"`
	Predictions  []markup.Prediction `json:"predictions"`
	Document     string              `json:"document"`
	Elements     int                 `json:"elements"`
	Skipped      []string            `json:"skipped,omitempty"`

	// ImageArchive completes independently of the conversion; nil when
	// image archival is off
	ImageArchive *archive.Transfer `json:"-"`
}

type DownloadResult struct {
	SessionID string `json:"session_id"`
	Files     []File `json:"files"`

	DocumentArchive *archive.Transfer `json:"-"`
}

// File returns the file of the given format
func (r *DownloadResult) File(f Format) (File, bool) {
	for _, file := range r.Files {
		if file.Format == f {
			return file, true
		}
	}
	return File{}, false
}

type Option func(*Service)

func WithSynthesizer(s *markup.Synthesizer) Option {
	return func(svc *Service) { svc.synth = s }
}

// WithDownloader offers every downloaded file through d
func WithDownloader(d Downloader) Option {
	return func(svc *Service) { svc.downloads = d }
}

func WithPublisher(p eventx.Publisher) Option {
	return func(svc *Service) { svc.bus = p }
}

func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

// WithImageArchive controls whether Convert copies the image to images/.
// Turn it off when the image was read from the archive itself.
func WithImageArchive(enabled bool) Option {
	return func(svc *Service) { svc.archiveImages = enabled }
}

type Service struct {
	detector  inference.Detector
	synth     *markup.Synthesizer
	archiver  *archive.Archiver
	session   *session.Session
	downloads Downloader
	bus       eventx.Publisher
	now       func() time.Time

	archiveImages bool
}

func NewService(detector inference.Detector, archiver *archive.Archiver, sess *session.Session, opts ...Option) *Service {
	s := &Service{
		detector: detector,
		synth:    markup.NewSynthesizer(),
		archiver: archiver,
		session:  sess,
		bus:      eventx.Nop{},
		now:      time.Now,

		archiveImages: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Session() *session.Session { return s.session }

func (s *Service) Synthesizer() *markup.Synthesizer { return s.synth }

// Upload reads the whole image from r and converts it
func (s *Service) Upload(ctx context.Context, name string, r io.Reader) (*UploadResult, error) {
	img, err := imagesrc.Load(r, name)
	if err != nil {
		return nil, err
	}
	return s.Convert(ctx, img)
}

// Convert selects img into the session, starts its archival and runs
// detection then synthesis. The archive write is never waited on. A failed
// detection leaves the image selected without a document.
func (s *Service) Convert(ctx context.Context, img *imagesrc.Image) (*UploadResult, error) {
	var transfer *archive.Transfer
	if s.archiveImages {
		transfer = s.archiver.ArchiveImage(ctx, img)
	}

	if _, err := s.session.Transition(ctx, session.Select(img)); err != nil {
		return nil, err
	}
	snap := s.session.Snapshot()
	s.publish(ctx, eventx.NewEvent(EventImageSelected, ImageSelected{
		SessionID:   snap.ID,
		Name:        img.Name,
		ContentType: img.ContentType,
		Size:        img.Size(),
	}))

	result, err := s.detector.Detect(ctx, snap.DataURI)
	if err != nil {
		logx.Error("inference failed for %s: %v", img.Name, err)
		return nil, err
	}

	doc, err := s.synth.Synthesize(result.Predictions, snap.DataURI)
	if err != nil {
		logx.Error("markup not generated for %s: %v", img.Name, err)
		return nil, err
	}
	if len(doc.Skipped) > 0 {
		logx.Warn("skipped %d unmapped predictions: %v", len(doc.Skipped), doc.Skipped)
	}

	if _, err := s.session.Transition(ctx, session.Generated(doc.HTML)); err != nil {
		return nil, err
	}
	s.publish(ctx, eventx.NewEvent(EventMarkupGenerated, MarkupGenerated{
		SessionID:   snap.ID,
		Predictions: len(result.Predictions),
		Elements:    doc.Elements,
		Skipped:     doc.Skipped,
	}))

	return &UploadResult{
		SessionID:    snap.ID,
		ImageDataURI: snap.DataURI,
		Predictions:  result.Predictions,
		Document:     doc.HTML,
		Elements:     doc.Elements,
		Skipped:      doc.Skipped,
		ImageArchive: transfer,
	}, nil
}

// File returns the ready document as a single file of format f without
// ending the session. Nothing is offered or archived.
func (s *Service) File(f Format) (File, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return File{}, err
	}
	document, ready := s.session.Document()
	if !ready {
		return File{}, projectErrors.New(ErrNoDocument).
			WithDetail("state", s.session.State().String())
	}
	return File{Name: FileName(s.now(), f), Format: f, Content: document}, nil
}

// Download offers the ready document as .txt and .html named from the same
// instant, archives the text copy under code/ and clears the session.
func (s *Service) Download(ctx context.Context) (*DownloadResult, error) {
	document, ready := s.session.Document()
	if !ready {
		return nil, projectErrors.New(ErrNoDocument).
			WithDetail("state", s.session.State().String())
	}
	sessionID := s.session.ID()

	at := s.now()
	files := make([]File, 0, len(Formats))
	for _, f := range Formats {
		files = append(files, File{Name: FileName(at, f), Format: f, Content: document})
	}

	if s.downloads != nil {
		offered, err := asyncx.AsyncAll(ctx, files, func(ctx context.Context, f File) (File, error) {
			loc, err := s.downloads.Offer(ctx, f)
			if err != nil {
				return f, projectErrors.NewWithCause(ErrOfferFailed, err).WithDetail("file", f.Name)
			}
			f.Location = loc
			return f, nil
		})
		if err != nil {
			return nil, err
		}
		files = offered
	}

	transfer := s.archiver.ArchiveDocument(ctx, files[0].Name, document)

	if _, err := s.session.Transition(ctx, session.Downloaded()); err != nil {
		return nil, err
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	s.publish(ctx, eventx.NewEvent(EventMarkupDownloaded, MarkupDownloaded{
		SessionID: sessionID,
		Files:     names,
	}))

	return &DownloadResult{SessionID: sessionID, Files: files, DocumentArchive: transfer}, nil
}

// Teardown empties the session slot and its cache entry
func (s *Service) Teardown(ctx context.Context) error {
	_, err := s.session.Transition(ctx, session.Teardown())
	return err
}

// Restore recovers an image left in the cache by an earlier process
func (s *Service) Restore(ctx context.Context) (bool, error) {
	return s.session.Restore(ctx)
}

func (s *Service) publish(ctx context.Context, ev eventx.Event) {
	if err := s.bus.Publish(ctx, ev); err != nil {
		logx.Warn("event %s not published: %v", ev.Type(), err)
	}
}
