package document

import (
	"fmt"
	"iter"

	"github.com/kailas-cloud/newsbayes/internal/domain"
	"github.com/kailas-cloud/newsbayes/internal/domain/token"
)

// Document is a labeled news item (immutable value object).
type Document struct {
	class       domain.ClassID
	title       string
	description string
}

// FromLabel validates a source label and creates a Document.
// The label is normalized to a zero-based class: class = label - base.
func FromLabel(label, base int, title, description string) (Document, error) {
	if label < base {
		return Document{}, fmt.Errorf("%w: %d is below label base %d", domain.ErrInvalidLabel, label, base)
	}
	return New(domain.ClassID(label-base), title, description), nil
}

// New creates a Document for an already normalized class.
func New(class domain.ClassID, title, description string) Document {
	return Document{class: class, title: title, description: description}
}

// Class returns the zero-based class of the document.
func (d Document) Class() domain.ClassID { return d.class }

// Title returns the headline.
func (d Document) Title() string { return d.title }

// Description returns the body text.
func (d Document) Description() string { return d.description }

// Text joins title and description with a single space.
func (d Document) Text() string { return d.title + " " + d.description }

// Words returns the document tokens produced by the default tokenizer.
func (d Document) Words() iter.Seq[string] {
	return token.Default().Tokens(d.Text())
}
