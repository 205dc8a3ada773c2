// ABOUTME: SQLite schema for knowledge base chunk storage
// ABOUTME: Chunks table holds content, provenance, metadata, and vector BLOBs
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Chunks table (one row per indexed unit of knowledge)
-- rowid doubles as the insertion-order tie-breaker for equal similarities
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    content TEXT NOT NULL,
    source TEXT NOT NULL,
    source_type TEXT NOT NULL,
    embedding BLOB NOT NULL,
    metadata TEXT NOT NULL DEFAULT '{}',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for efficient filtering
CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
