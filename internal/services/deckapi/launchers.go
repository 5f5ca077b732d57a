package deckapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"slidesmith/internal/deck"
)

// Launch validation errors, reported synchronously before any job exists.
var (
	ErrNoSlots       = errors.New("at least one image slot is required")
	ErrEmptyDocument = errors.New("document id is required")
	ErrEmptySlot     = errors.New("slot id is required")
)

// JobHandle identifies a launched server-side job to track.
type JobHandle struct {
	JobID      string         `json:"job_id"`
	Status     deck.JobStatus `json:"status"`
	TotalSlots int            `json:"total_slots"`
}

// OutlineRequest seeds outline generation from a course idea.
type OutlineRequest struct {
	Prompt    string `json:"prompt"`
	PageCount int    `json:"page_count,omitempty"`
	Pedagogy  string `json:"pedagogy_method,omitempty"`
}

// GenerateOutline starts outline generation for the document.
func (c *Client) GenerateOutline(ctx context.Context, documentID string, req OutlineRequest) (JobHandle, error) {
	if documentID == "" {
		return JobHandle{}, ErrEmptyDocument
	}
	var handle JobHandle
	path := fmt.Sprintf("/api/documents/%s/generate/outline", url.PathEscape(documentID))
	if err := c.doJSON(ctx, "POST", path, req, &handle); err != nil {
		return JobHandle{}, err
	}
	return handle, nil
}

// GenerateDescriptions starts per-page description generation.
func (c *Client) GenerateDescriptions(ctx context.Context, documentID string) (JobHandle, error) {
	if documentID == "" {
		return JobHandle{}, ErrEmptyDocument
	}
	var handle JobHandle
	path := fmt.Sprintf("/api/documents/%s/generate/descriptions", url.PathEscape(documentID))
	if err := c.doJSON(ctx, "POST", path, struct{}{}, &handle); err != nil {
		return JobHandle{}, err
	}
	return handle, nil
}

type generateImagesRequest struct {
	ImageSlots []deck.ImageSlot `json:"image_slots"`
	Subject    string           `json:"subject,omitempty"`
}

// GenerateImages starts the slot-image batch job for the given slots. An
// empty slot set is rejected before any job is created.
func (c *Client) GenerateImages(ctx context.Context, documentID string, slots []deck.ImageSlot, subject string) (JobHandle, error) {
	if documentID == "" {
		return JobHandle{}, ErrEmptyDocument
	}
	if len(slots) == 0 {
		return JobHandle{}, ErrNoSlots
	}
	var handle JobHandle
	path := fmt.Sprintf("/api/documents/%s/render/generate-images", url.PathEscape(documentID))
	if err := c.doJSON(ctx, "POST", path, generateImagesRequest{ImageSlots: slots, Subject: subject}, &handle); err != nil {
		return JobHandle{}, err
	}
	return handle, nil
}

type regenerateRequest struct {
	SlotData deck.ImageSlot `json:"slot_data"`
	Subject  string         `json:"subject,omitempty"`
}

// RegenerateSlot starts an independent single-slot regeneration job.
func (c *Client) RegenerateSlot(ctx context.Context, documentID string, slot deck.ImageSlot, subject string) (JobHandle, error) {
	if documentID == "" {
		return JobHandle{}, ErrEmptyDocument
	}
	if slot.SlotID == "" {
		return JobHandle{}, ErrEmptySlot
	}
	var handle JobHandle
	path := fmt.Sprintf("/api/documents/%s/render/regenerate-slot/%s", url.PathEscape(documentID), url.PathEscape(slot.SlotID))
	if err := c.doJSON(ctx, "POST", path, regenerateRequest{SlotData: slot, Subject: subject}, &handle); err != nil {
		return JobHandle{}, err
	}
	return handle, nil
}

type batchRegenerateRequest struct {
	SlotIDs   []string                  `json:"slot_ids"`
	SlotsData map[string]deck.ImageSlot `json:"slots_data"`
	Subject   string                    `json:"subject,omitempty"`
}

// BatchRegenerate starts a regeneration job covering several slots.
func (c *Client) BatchRegenerate(ctx context.Context, documentID string, slots []deck.ImageSlot, subject string) (JobHandle, error) {
	if documentID == "" {
		return JobHandle{}, ErrEmptyDocument
	}
	if len(slots) == 0 {
		return JobHandle{}, ErrNoSlots
	}
	req := batchRegenerateRequest{
		SlotIDs:   make([]string, 0, len(slots)),
		SlotsData: make(map[string]deck.ImageSlot, len(slots)),
		Subject:   subject,
	}
	for _, slot := range slots {
		if slot.SlotID == "" {
			return JobHandle{}, ErrEmptySlot
		}
		req.SlotIDs = append(req.SlotIDs, slot.SlotID)
		req.SlotsData[slot.SlotID] = slot
	}
	var handle JobHandle
	path := fmt.Sprintf("/api/documents/%s/render/batch-regenerate", url.PathEscape(documentID))
	if err := c.doJSON(ctx, "POST", path, req, &handle); err != nil {
		return JobHandle{}, err
	}
	return handle, nil
}

type exportRequest struct {
	TemplateID string            `json:"template_id,omitempty"`
	ImagePaths map[string]string `json:"image_paths,omitempty"`
}

// ExportResult describes a finished PPTX export.
type ExportResult struct {
	PPTXPath    string `json:"pptx_path"`
	DownloadURL string `json:"download_url"`
}

// ExportPPTX renders the document into an editable PPTX. Export is
// synchronous on the service side and returns the artifact location inline.
func (c *Client) ExportPPTX(ctx context.Context, documentID, templateID string, imagePaths map[string]string) (ExportResult, error) {
	if documentID == "" {
		return ExportResult{}, ErrEmptyDocument
	}
	var result ExportResult
	path := fmt.Sprintf("/api/documents/%s/export/pptx-template", url.PathEscape(documentID))
	if err := c.doJSON(ctx, "POST", path, exportRequest{TemplateID: templateID, ImagePaths: imagePaths}, &result); err != nil {
		return ExportResult{}, err
	}
	return result, nil
}
