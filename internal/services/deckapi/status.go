package deckapi

import (
	"context"
	"fmt"
	"net/url"

	"slidesmith/internal/deck"
)

// SlotResult is one slot's entry in a job-status result map.
type SlotResult struct {
	Status    string `json:"status"`
	ImageURL  string `json:"image_url,omitempty"`
	ImagePath string `json:"image_path,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Path returns the best available image location for the slot.
func (r SlotResult) Path() string {
	if r.ImagePath != "" {
		return r.ImagePath
	}
	return r.ImageURL
}

// JobStatusResponse is the polling endpoint contract: overall job status,
// an aggregate progress snapshot, and (for resolved jobs) per-slot results.
type JobStatusResponse struct {
	JobID    string                `json:"job_id"`
	Status   deck.JobStatus        `json:"status"`
	Progress deck.TaskProgress     `json:"progress"`
	Result   map[string]SlotResult `json:"result,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// JobStatus fetches the current status of one job.
func (c *Client) JobStatus(ctx context.Context, documentID, jobID string) (JobStatusResponse, error) {
	if documentID == "" {
		return JobStatusResponse{}, ErrEmptyDocument
	}
	if jobID == "" {
		return JobStatusResponse{}, fmt.Errorf("job id is required")
	}
	var status JobStatusResponse
	path := fmt.Sprintf("/api/documents/%s/render/image-status/%s", url.PathEscape(documentID), url.PathEscape(jobID))
	if err := c.doJSON(ctx, "GET", path, nil, &status); err != nil {
		return JobStatusResponse{}, err
	}
	if status.JobID == "" {
		status.JobID = jobID
	}
	return status, nil
}

// Document fetches the persisted document the workflow deriver reads.
func (c *Client) Document(ctx context.Context, documentID string) (deck.Document, error) {
	if documentID == "" {
		return deck.Document{}, ErrEmptyDocument
	}
	var doc deck.Document
	path := fmt.Sprintf("/api/documents/%s", url.PathEscape(documentID))
	if err := c.doJSON(ctx, "GET", path, nil, &doc); err != nil {
		return deck.Document{}, err
	}
	if doc.ID == "" {
		doc.ID = documentID
	}
	return doc, nil
}

type renderPreviewRequest struct {
	TemplateID string `json:"template_id,omitempty"`
	Pedagogy   string `json:"pedagogy_method,omitempty"`
}

// RenderPreview is the render service's response: a preview URL plus the
// fresh slot set for the current render generation.
type RenderPreview struct {
	HTMLURL    string           `json:"html_url"`
	ImageSlots []deck.ImageSlot `json:"image_slots"`
	TotalPages int              `json:"total_pages"`
}

// RenderPreview renders the document to HTML and returns the image slots the
// layout engine planned. The returned slot set replaces any previous one.
func (c *Client) RenderPreview(ctx context.Context, documentID, templateID, pedagogy string) (RenderPreview, error) {
	if documentID == "" {
		return RenderPreview{}, ErrEmptyDocument
	}
	var preview RenderPreview
	path := fmt.Sprintf("/api/documents/%s/render/html-preview", url.PathEscape(documentID))
	if err := c.doJSON(ctx, "POST", path, renderPreviewRequest{TemplateID: templateID, Pedagogy: pedagogy}, &preview); err != nil {
		return RenderPreview{}, err
	}
	return preview, nil
}
