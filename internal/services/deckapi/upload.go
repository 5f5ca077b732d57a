package deckapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"
)

// maxUploadBytes caps replacement images at the service's 10 MiB limit so
// oversized files fail fast without a round trip.
const maxUploadBytes = 10 << 20

var allowedUploadExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

// Upload validation errors.
var (
	ErrUploadTooLarge  = errors.New("image exceeds the 10 MiB upload limit")
	ErrUploadExtension = errors.New("unsupported image extension")
)

// UploadResult describes a stored replacement image.
type UploadResult struct {
	SlotID    string `json:"slot_id"`
	ImagePath string `json:"image_path"`
	ImageURL  string `json:"image_url"`
}

// UploadSlotImage replaces one slot's image with user-provided content. The
// extension and size are validated client-side before any bytes are sent.
func (c *Client) UploadSlotImage(ctx context.Context, documentID, slotID, filename string, content io.Reader) (UploadResult, error) {
	if documentID == "" {
		return UploadResult{}, ErrEmptyDocument
	}
	if slotID == "" {
		return UploadResult{}, ErrEmptySlot
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedUploadExtensions[ext]; !ok {
		return UploadResult{}, fmt.Errorf("%w: %q", ErrUploadExtension, ext)
	}

	data, err := io.ReadAll(io.LimitReader(content, maxUploadBytes+1))
	if err != nil {
		return UploadResult{}, fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxUploadBytes {
		return UploadResult{}, ErrUploadTooLarge
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return UploadResult{}, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return UploadResult{}, fmt.Errorf("write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("finish multipart body: %w", err)
	}

	path := fmt.Sprintf("/api/documents/%s/render/upload-slot-image/%s", url.PathEscape(documentID), url.PathEscape(slotID))
	req, err := c.newRequest(ctx, "POST", path, &body)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result UploadResult
	if err := c.do(req, &result); err != nil {
		return UploadResult{}, err
	}
	return result, nil
}
