// Package slotstate holds the live generation-tracking state for one editing
// session: the set of image slots with their statuses, the aggregate progress
// of the active batch job, the tracked job identifier, and the push-channel
// connectivity flag.
//
// The Store is the single source of truth the CLI renders from. It is mutated
// only through its named operations, which are idempotent: the push channel
// and the polling fallback may deliver the same status event twice or in
// either order, and the resulting state converges regardless. Both delivery
// paths fold their payloads through the same Apply reducer so the two
// channels cannot drift apart.
package slotstate
