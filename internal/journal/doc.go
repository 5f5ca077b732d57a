// Package journal persists launched generation jobs in a local SQLite
// database. The journal lets separate CLI invocations find the job a
// previous command launched: a launch records the job, trackers update it as
// status arrives, and `status` looks up the active job without the caller
// having to remember identifiers. The server remains the source of truth;
// the journal only mirrors what it reported last.
package journal
