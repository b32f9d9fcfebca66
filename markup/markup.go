package markup

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Abraxas-365/mockup2html/errx"
)

var (
	markupErrors = errx.NewRegistry("MARKUP")

	ErrUnknownElementClass = markupErrors.Register("UNKNOWN_ELEMENT_CLASS", errx.TypeValidation, http.StatusUnprocessableEntity, "Prediction class has no element mapping")
)

// IsUnknownElementClass reports whether err is an unmapped class failure
func IsUnknownElementClass(err error) bool {
	return errx.IsCode(err, ErrUnknownElementClass)
}

// Prediction is one detected UI element. X and Y are the box center, all
// values in source image pixels.
type Prediction struct {
	Class       string  `json:"class"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Confidence  float64 `json:"confidence,omitempty"`
	DetectionID string  `json:"detection_id,omitempty"`
}

const (
	header = "<!DOCTYPE html>\n" +
		"<html>\n" +
		"<head>\n" +
		"  <style>\n" +
		"    body { margin: 0; padding: 0; }\n" +
		"    .element { position: absolute; }\n" +
		"  </style>\n" +
		"</head>\n" +
		"<body>\n"

	footer = "</body>\n</html>"
)

// Document is the synthesized page
type Document struct {
	HTML string `json:"html"`

	// Elements counts the fragments written to the body
	Elements int `json:"elements"`

	// Skipped lists unmapped classes dropped when skipping is enabled
	Skipped []string `json:"skipped,omitempty"`
}

// Option configures a Synthesizer
type Option func(*Synthesizer)

// WithMapping replaces the class table
func WithMapping(m Mapping) Option {
	return func(s *Synthesizer) {
		s.mapping = m
	}
}

// WithSkipUnknown drops unmapped predictions instead of failing the batch
func WithSkipUnknown(skip bool) Option {
	return func(s *Synthesizer) {
		s.skipUnknown = skip
	}
}

// Synthesizer turns predictions into a positioned HTML document. It holds
// no mutable state and is safe for concurrent use.
type Synthesizer struct {
	mapping     Mapping
	skipUnknown bool
}

// NewSynthesizer creates a synthesizer over DefaultMapping
func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{mapping: DefaultMapping}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mapping returns the class table in use
func (s *Synthesizer) Mapping() Mapping {
	return s.mapping
}

// Synthesize renders predictions in input order. imageRef is written
// verbatim as the src of image-like elements.
func (s *Synthesizer) Synthesize(predictions []Prediction, imageRef string) (Document, error) {
	var b strings.Builder
	b.WriteString(header)

	doc := Document{}
	for i, p := range predictions {
		el, ok := s.mapping.Lookup(p.Class)
		if !ok {
			if s.skipUnknown {
				doc.Skipped = append(doc.Skipped, p.Class)
				continue
			}
			return Document{}, markupErrors.New(ErrUnknownElementClass).
				WithDetail("class", p.Class).
				WithDetail("index", i)
		}

		writeElement(&b, el, Style(p), imageRef)
		doc.Elements++
	}

	b.WriteString(footer)
	doc.HTML = b.String()
	return doc, nil
}

// Synthesize renders predictions with the default table, failing on the
// first unmapped class
func Synthesize(predictions []Prediction, imageRef string) (string, error) {
	doc, err := NewSynthesizer().Synthesize(predictions, imageRef)
	if err != nil {
		return "", err
	}
	return doc.HTML, nil
}

func writeElement(b *strings.Builder, el Element, style, imageRef string) {
	switch {
	case el.SelfClosing:
		b.WriteString("<" + el.Tag + ` class="element" style="` + style + `" />`)
	case el.ImageLike:
		b.WriteString(`<img class="element" style="` + style + `" src="` + imageRef + `" />`)
	default:
		b.WriteString("<" + el.Tag + ` class="element" style="` + style + `"></` + el.Name() + ">")
	}
	b.WriteByte('\n')
}

// Style builds the inline declarations for a prediction, always in the
// order position, left, top, width, height
func Style(p Prediction) string {
	decls := [...]string{
		"position: absolute;",
		"left: " + px(p.X) + ";",
		"top: " + px(p.Y) + ";",
		"width: " + px(p.Width) + ";",
		"height: " + px(p.Height) + ";",
	}
	return strings.Join(decls[:], " ")
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
