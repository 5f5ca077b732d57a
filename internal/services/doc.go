// Package services defines shared utilities consumed by the generation
// service clients.
//
// Key responsibilities:
//   - Context helpers that stamp document, job, and correlation identifiers
//     for logging and request tracing.
//   - Error markers that classify client failures as transient (retry and
//     keep polling) or permanent (stop and surface to the user).
//
// Use these helpers when wiring new service calls so operational behaviour
// (error handling, observability, retries) stays uniform across clients.
package services
