// Package workflow derives the current pipeline position from the persisted
// document. Stage completion is inferred from content presence rather than an
// explicit flag: a page with a title completes the outline stage, description
// content completes descriptions, and an image reference completes images.
//
// The Navigator layers user intent on top of the derivation: automatic
// advancement only ever moves forward, so a user who has navigated ahead is
// never yanked back by a recomputation, and manual navigation is gated to
// steps that are complete or immediately follow a completed step.
package workflow
