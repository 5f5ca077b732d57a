package deck

import "strings"

// Page is one slide of the persisted document. All content fields are
// optional; the workflow deriver infers stage completion from their presence.
type Page struct {
	Title       string   `json:"title,omitempty"`
	Bullets     []string `json:"bullets,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageRef    string   `json:"image_ref,omitempty"`
}

// HasTitle reports whether the page carries non-empty title content.
func (p Page) HasTitle() bool {
	return strings.TrimSpace(p.Title) != ""
}

// HasDescription reports whether the page carries description content.
func (p Page) HasDescription() bool {
	return strings.TrimSpace(p.Description) != ""
}

// HasImage reports whether the page references a generated or uploaded image.
func (p Page) HasImage() bool {
	return strings.TrimSpace(p.ImageRef) != ""
}

// Document mirrors the server-persisted deck. It is only ever read client
// side; the persistence service remains the durable owner.
type Document struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Pages []Page `json:"pages"`
}

// Empty reports whether the document has no pages.
func (d Document) Empty() bool {
	return len(d.Pages) == 0
}
