// Package persistence encodes a registry snapshot into the compact binary
// blob stored on disk. The blob is CBOR with a leading version field; equal
// snapshots always encode to equal bytes.
package persistence

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/v0rts/wutag/internal/ids"
	"github.com/v0rts/wutag/internal/tag"
)

// CurrentVersion is the only format version this package reads and writes.
const CurrentVersion uint16 = 1

var (
	ErrCorrupt            = errors.New("corrupt registry data")
	ErrUnsupportedVersion = errors.New("unsupported registry format version")
)

type Snapshot struct {
	Version uint16                `cbor:"1,keyasint"`
	IDGen   ids.GeneratorSnapshot `cbor:"2,keyasint"`
	Tags    []TagRecord           `cbor:"3,keyasint"`
	Entries []EntryRecord         `cbor:"4,keyasint"`
}

type TagRecord struct {
	Name    string        `cbor:"1,keyasint"`
	Color   string        `cbor:"2,keyasint"`
	Entries []ids.EntryID `cbor:"3,keyasint"`
}

type EntryRecord struct {
	ID   ids.EntryID `cbor:"1,keyasint"`
	Path string      `cbor:"2,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("persistence: cbor enc mode: %v", err))
	}
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("persistence: cbor dec mode: %v", err))
	}
}

// Encode stamps the snapshot with CurrentVersion and serializes it.
func Encode(snap Snapshot) ([]byte, error) {
	snap.Version = CurrentVersion

	data, err := encMode.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	return data, nil
}

// Decode parses and validates a blob produced by Encode.
func Decode(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := decMode.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	if snap.Version != CurrentVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
	}

	if err := snap.Validate(); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

// Validate checks the referential integrity of a decoded snapshot.
func (s Snapshot) Validate() error {
	entries := make(map[ids.EntryID]struct{}, len(s.Entries))
	paths := make(map[string]ids.EntryID, len(s.Entries))
	for _, e := range s.Entries {
		if _, dup := entries[e.ID]; dup {
			return fmt.Errorf("%w: duplicate entry id %d", ErrCorrupt, e.ID)
		}
		entries[e.ID] = struct{}{}

		if other, dup := paths[e.Path]; dup {
			return fmt.Errorf("%w: entries %d and %d share path %q", ErrCorrupt, other, e.ID, e.Path)
		}
		paths[e.Path] = e.ID
	}

	names := make(map[string]struct{}, len(s.Tags))
	for _, t := range s.Tags {
		if err := tag.ValidateName(t.Name); err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if _, dup := names[t.Name]; dup {
			return fmt.Errorf("%w: duplicate tag %q", ErrCorrupt, t.Name)
		}
		names[t.Name] = struct{}{}

		if len(t.Entries) == 0 {
			return fmt.Errorf("%w: tag %q has no entries", ErrCorrupt, t.Name)
		}

		seen := make(map[ids.EntryID]struct{}, len(t.Entries))
		for _, id := range t.Entries {
			if _, ok := entries[id]; !ok {
				return fmt.Errorf("%w: tag %q references missing entry %d", ErrCorrupt, t.Name, id)
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: tag %q lists entry %d twice", ErrCorrupt, t.Name, id)
			}
			seen[id] = struct{}{}
		}
	}

	return nil
}
