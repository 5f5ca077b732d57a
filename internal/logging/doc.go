// Package logging constructs the slog loggers used across slidesmith.
//
// Two handler formats are supported: a compact console handler for terminal
// use and the standard JSON handler for machine consumption. Components
// receive loggers carrying a "component" attribute so interleaved output from
// the push channel, polling loop, and launchers stays attributable.
package logging
