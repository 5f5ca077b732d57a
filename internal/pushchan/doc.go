// Package pushchan maintains the websocket push channel to the generation
// service. It subscribes to job event streams, folds inbound events into the
// slot status store, and reconnects with bounded exponential backoff when the
// connection drops. When the reconnect budget is exhausted the client reports
// failure so callers can fall back to polling.
package pushchan
