package markup

import (
	"sort"
	"strings"
)

// Element is the markup produced for one detected class
type Element struct {
	// Tag is the literal opening tag text, possibly with attributes
	// (`input type="checkbox"`)
	Tag string `json:"tag"`

	// SelfClosing elements are written as <TAG ... />
	SelfClosing bool `json:"self_closing"`

	// ImageLike elements receive the source image as src
	ImageLike bool `json:"image_like"`
}

// NewElement classifies a tag by its name
func NewElement(tag string) Element {
	return Element{
		Tag:         tag,
		SelfClosing: strings.HasPrefix(tag, "input"),
		ImageLike:   strings.HasPrefix(tag, "img"),
	}
}

// Name returns the element name without attributes
func (e Element) Name() string {
	name, _, _ := strings.Cut(e.Tag, " ")
	return name
}

// Mapping resolves detection classes to elements. It is never mutated
// after construction.
type Mapping struct {
	elements map[string]Element
}

// NewMapping builds a mapping from class -> tag text
func NewMapping(tags map[string]string) Mapping {
	elements := make(map[string]Element, len(tags))
	for class, tag := range tags {
		elements[class] = NewElement(tag)
	}
	return Mapping{elements: elements}
}

// Lookup returns the element for class
func (m Mapping) Lookup(class string) (Element, bool) {
	e, ok := m.elements[class]
	return e, ok
}

// Classes returns every known class, sorted
func (m Mapping) Classes() []string {
	classes := make([]string, 0, len(m.elements))
	for class := range m.elements {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// Len returns the vocabulary size
func (m Mapping) Len() int {
	return len(m.elements)
}

// DefaultMapping covers the classes emitted by the UI element detector
var DefaultMapping = NewMapping(map[string]string{
	"button":       "button",
	"checkbox":     `input type="checkbox"`,
	"container":    "div",
	"image":        "img",
	"number-input": `input type="number"`,
	"radio":        `input type="radio"`,
	"search":       `input type="search"`,
	"select":       "select",
	"table":        "table",
	"text":         "span",
	"textbox":      `input type="text"`,
	"toggle":       `input type="checkbox"`,
	"icon-button":  "button",
	"input":        "input",
	"label":        "label",
	"link":         "a",
	"slider":       `input type="range"`,
	"textarea":     "textarea",
})
