// Package session owns the single image slot of a conversion session.
//
// The slot moves through Empty, ImageSelected and DocumentReady. Every change
// goes through Transition so that clearing happens in exactly one place. The
// image data URI is mirrored into a key-value cache under CacheKey so a
// restarted process can pick the slot back up with Restore.
package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/Abraxas-365/mockup2html/errx"
	"github.com/Abraxas-365/mockup2html/imagesrc"
	"github.com/Abraxas-365/mockup2html/logx"
	"github.com/Abraxas-365/mockup2html/storex"
)

// CacheKey is the slot name shared with the browser client
const CacheKey = "projectImage"

var (
	sessionErrors = errx.NewRegistry("SESSION")

	ErrInvalidTransition = sessionErrors.Register("INVALID_TRANSITION", errx.TypeConflict, http.StatusConflict, "Event not allowed in current session state")
	ErrNoImage           = sessionErrors.Register("NO_IMAGE", errx.TypeValidation, http.StatusBadRequest, "Select event without an image")
)

type State int

const (
	StateEmpty State = iota
	StateImageSelected
	StateDocumentReady
)

func (s State) String() string {
	switch s {
	case StateImageSelected:
		return "image_selected"
	case StateDocumentReady:
		return "document_ready"
	default:
		return "empty"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type eventKind int

const (
	kindSelect eventKind = iota + 1
	kindGenerated
	kindDownloaded
	kindTeardown
)

var kindNames = map[eventKind]string{
	kindSelect:     "select",
	kindGenerated:  "generated",
	kindDownloaded: "downloaded",
	kindTeardown:   "teardown",
}

// Event is an input to Transition
type Event struct {
	kind     eventKind
	image    *imagesrc.Image
	document string
}

func (e Event) String() string { return kindNames[e.kind] }

// Select replaces whatever is in the slot with a new image
func Select(img *imagesrc.Image) Event { return Event{kind: kindSelect, image: img} }

// Generated attaches the synthesized document to the current image
func Generated(document string) Event { return Event{kind: kindGenerated, document: document} }

// Downloaded clears the slot once the document was handed out
func Downloaded() Event { return Event{kind: kindDownloaded} }

// Teardown clears the slot unconditionally
func Teardown() Event { return Event{kind: kindTeardown} }

// Snapshot is a read-only copy of the session
type Snapshot struct {
	ID        string `json:"session_id"`
	State     State  `json:"state"`
	ImageName string `json:"image_name,omitempty"`
	DataURI   string `json:"image_data_uri,omitempty"`
	Document  string `json:"document,omitempty"`
}

type Session struct {
	mu       sync.RWMutex
	id       uuid.UUID
	state    State
	image    *imagesrc.Image
	dataURI  string
	document string
	cache    storex.KV
}

// New creates an empty session. A nil cache keeps the mirror in memory.
func New(cache storex.KV) *Session {
	if cache == nil {
		cache = storex.NewMemoryKV()
	}
	return &Session{id: uuid.New(), cache: cache}
}

// Transition applies ev and returns the resulting state. Cache failures are
// logged, the in-memory slot is authoritative.
func (s *Session) Transition(ctx context.Context, ev Event) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.kind {
	case kindSelect:
		if ev.image == nil {
			return s.state, sessionErrors.New(ErrNoImage)
		}
		s.id = uuid.New()
		s.image = ev.image
		s.dataURI = ev.image.DataURI()
		s.document = ""
		s.state = StateImageSelected
		s.mirror(ctx, s.dataURI)

	case kindGenerated:
		if s.state == StateEmpty {
			return s.state, s.invalid(ev)
		}
		s.document = ev.document
		s.state = StateDocumentReady

	case kindDownloaded:
		if s.state != StateDocumentReady {
			return s.state, s.invalid(ev)
		}
		s.clear(ctx)

	case kindTeardown:
		s.clear(ctx)

	default:
		return s.state, s.invalid(ev)
	}

	return s.state, nil
}

// Restore reloads the image from the cache when the slot is empty. It reports
// whether an image was recovered.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEmpty {
		return false, nil
	}

	uri, ok, err := s.cache.Get(ctx, CacheKey)
	if err != nil || !ok {
		return false, err
	}

	img, err := imagesrc.FromDataURI(CacheKey, uri)
	if err != nil {
		logx.Warn("dropping unreadable cached image: %v", err)
		s.forget(ctx)
		return false, err
	}

	s.image = img
	s.dataURI = uri
	s.state = StateImageSelected
	return true, nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		ID:       s.id.String(),
		State:    s.state,
		DataURI:  s.dataURI,
		Document: s.document,
	}
	if s.image != nil {
		snap.ImageName = s.image.Name
	}
	return snap
}

func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id.String()
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Image returns the image in the slot, if any
func (s *Session) Image() (*imagesrc.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.image, s.image != nil
}

// Document returns the generated document when one is ready
func (s *Session) Document() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.document, s.state == StateDocumentReady
}

func (s *Session) invalid(ev Event) *errx.Error {
	return sessionErrors.New(ErrInvalidTransition).
		WithDetail("event", ev.String()).
		WithDetail("state", s.state.String())
}

func (s *Session) clear(ctx context.Context) {
	s.image = nil
	s.dataURI = ""
	s.document = ""
	s.state = StateEmpty
	s.forget(ctx)
}

func (s *Session) mirror(ctx context.Context, uri string) {
	if err := s.cache.Set(ctx, CacheKey, uri); err != nil {
		logx.Warn("could not cache session image: %v", err)
	}
}

func (s *Session) forget(ctx context.Context) {
	if err := s.cache.Delete(ctx, CacheKey); err != nil {
		logx.Warn("could not clear cached session image: %v", err)
	}
}
