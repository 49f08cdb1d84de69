package model

import "time"

// Snapshot is a point-in-time export of stored records for backup/restore.
// Count mirrors len(Transactions) at export time. Categories are included
// so a restore can re-establish referential targets; imports from older
// snapshots without a categories field remain valid.
type Snapshot struct {
	ExportedAt   time.Time     `json:"exportedAt"`
	Count        int           `json:"count"`
	Transactions []Transaction `json:"transactions"`
	Categories   []Category    `json:"categories,omitempty"`
}
