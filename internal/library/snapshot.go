package library

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CurrentVersion is the snapshot layout written by this release.
const CurrentVersion = 1

// Snapshot is the persisted form of the whole library.
type Snapshot struct {
	Version int     `json:"version"`
	Papers  []Paper `json:"papers"`
}

type migration func(Snapshot) Snapshot

// migrations[v] upgrades a version v snapshot to v+1.
var migrations = map[int]migration{
	0: migrateLegacyList,
}

// EncodeSnapshot serializes the snapshot at the current version.
func EncodeSnapshot(snapshot Snapshot) ([]byte, error) {
	snapshot.Version = CurrentVersion
	if snapshot.Papers == nil {
		snapshot.Papers = []Paper{}
	}
	return json.MarshalIndent(snapshot, "", "  ")
}

// DecodeSnapshot parses persisted bytes and migrates them to CurrentVersion.
// Empty input yields an empty snapshot. A bare JSON array is read as the
// version 0 layout, which stored the paper list under a single key.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Snapshot{Version: CurrentVersion}, nil
	}

	var snapshot Snapshot
	if data[0] == '[' {
		if err := json.Unmarshal(data, &snapshot.Papers); err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
	} else {
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
	}
	return Migrate(snapshot)
}

// Migrate applies every pending migration step.
func Migrate(snapshot Snapshot) (Snapshot, error) {
	if snapshot.Version > CurrentVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snapshot.Version)
	}
	for snapshot.Version < CurrentVersion {
		step, ok := migrations[snapshot.Version]
		if !ok {
			return Snapshot{}, fmt.Errorf("%w: no migration from %d", ErrUnsupportedVersion, snapshot.Version)
		}
		snapshot = step(snapshot)
	}
	return snapshot, nil
}

// migrateLegacyList drops entries that could never be addressed (empty id)
// and keeps the first occurrence of duplicated ids.
func migrateLegacyList(snapshot Snapshot) Snapshot {
	seen := make(map[string]bool, len(snapshot.Papers))
	papers := make([]Paper, 0, len(snapshot.Papers))
	for _, paper := range snapshot.Papers {
		if paper.ID == "" || seen[paper.ID] {
			continue
		}
		seen[paper.ID] = true
		papers = append(papers, paper)
	}
	return Snapshot{Version: 1, Papers: papers}
}
