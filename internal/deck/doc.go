// Package deck defines the data model shared across the slide-generation
// toolkit: the persisted document mirror (pages with titles, bullets,
// descriptions, and image references), image slots with their status state
// machine, batch job statuses, aggregate progress counters, and the ordered
// workflow step enumeration.
//
// The document is a read-only mirror of server-held state; nothing in this
// package mutates it. Slot and job statuses are the vocabulary every other
// package speaks, so new statuses are added here first.
package deck
