package metadata

// --- SQLite Keys ---
// These keys are used for the 'key' column in the 'metadata' SQLite table.
const (
	// RevisionSnapshotKey stores the last entries revision that was persisted
	// during a graceful shutdown. It seeds the live Redis counter on startup
	// so a restart never reuses an already-seen revision number.
	RevisionSnapshotKey = "entries_revision_snapshot"
)

// --- Redis Keys ---
// These keys are used for storing metadata in Redis.
const (
	// RedisEntriesRevisionKey is a Redis String (used as a counter) holding the
	// live revision of the daily_tracker collection. Every successful save
	// increments it; the cached comparison table is tagged with the revision it
	// was computed from and is discarded once the two values differ.
	RedisEntriesRevisionKey = "meta:entries_revision"
)
