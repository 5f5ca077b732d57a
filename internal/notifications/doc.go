// Package notifications delivers job milestones via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Long-running image jobs outlive a glance at the terminal, so
// terminal job states and connection losses are pushed to the configured
// topic.
package notifications
