package model

import "time"

// SourceStats captures the file-identity metadata the artifact cache keys on.
// A mutant carries the stats of the file it was generated from so a stale
// mirror can be detected before installation.
type SourceStats struct {
	ModTime time.Time
	Size    int64
	Hash    string
}
