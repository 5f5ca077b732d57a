// Package deckapi is the HTTP client for the slide-generation service. It
// issues the pipeline task launches (outline, descriptions, slot images,
// regenerates, export), renders previews, uploads replacement slot images,
// fetches the persisted document and catalogs, and serves the job-status
// endpoint the polling fallback consumes.
//
// Launchers validate their inputs synchronously and only then create a
// server-side job; the returned job identifier is what the push channel and
// polling fallback track. Every request carries the configured API token and
// a generated request ID for server-side correlation.
package deckapi
