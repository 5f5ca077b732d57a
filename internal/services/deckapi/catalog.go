package deckapi

import "context"

// Template describes one deck template the render service offers.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Scene       string `json:"scene"`
	Description string `json:"description,omitempty"`
}

// Layout describes one slide layout the layout engine can place slots into.
type Layout struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SlotCount   int    `json:"slot_count"`
	Description string `json:"description,omitempty"`
}

// Pedagogy describes one teaching-method model the outline generator can
// structure a deck around. Detail fetches additionally carry the stage
// structure and slide-type mapping.
type Pedagogy struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	NameEN           string            `json:"name_en"`
	Description      string            `json:"description,omitempty"`
	ApplicableScenes []string          `json:"applicable_scenes,omitempty"`
	Structure        []string          `json:"structure,omitempty"`
	SlideTypeMapping map[string]string `json:"slide_type_mapping,omitempty"`
}

type templatesResponse struct {
	Templates []Template `json:"templates"`
	Total     int        `json:"total"`
}

type layoutsResponse struct {
	Layouts []Layout `json:"layouts"`
	Total   int      `json:"total"`
}

// Templates lists deck templates, optionally filtered by scene.
func (c *Client) Templates(ctx context.Context, scene string) ([]Template, error) {
	path := "/api/templates"
	if scene != "" {
		path += "?scene=" + scene
	}
	var resp templatesResponse
	if err := c.doJSON(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Templates, nil
}

// Layouts lists the available slide layouts.
func (c *Client) Layouts(ctx context.Context) ([]Layout, error) {
	var resp layoutsResponse
	if err := c.doJSON(ctx, "GET", "/api/layouts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Layouts, nil
}

type pedagogiesResponse struct {
	Pedagogies []Pedagogy `json:"pedagogies"`
	Total      int        `json:"total"`
}

// Pedagogies lists the teaching-method models, optionally filtered by scene
// (theory, practice, review, mixed).
func (c *Client) Pedagogies(ctx context.Context, scene string) ([]Pedagogy, error) {
	path := "/api/pedagogies"
	if scene != "" {
		path += "?scene=" + scene
	}
	var resp pedagogiesResponse
	if err := c.doJSON(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Pedagogies, nil
}

// PedagogyDetail fetches one teaching-method model including its stage
// structure and prompt guidance mapping.
func (c *Client) PedagogyDetail(ctx context.Context, pedagogyID string) (Pedagogy, error) {
	var pedagogy Pedagogy
	if err := c.doJSON(ctx, "GET", "/api/pedagogies/"+pedagogyID, nil, &pedagogy); err != nil {
		return Pedagogy{}, err
	}
	return pedagogy, nil
}
