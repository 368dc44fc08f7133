package persistence

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"
	"github.com/v0rts/wutag/internal/ids"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		IDGen: ids.GeneratorSnapshot{EntryCounter: 2},
		Tags: []TagRecord{
			{Name: "docs", Color: "blue", Entries: []ids.EntryID{2}},
			{Name: "src", Color: "#ff0000", Entries: []ids.EntryID{1, 2}},
		},
		Entries: []EntryRecord{
			{ID: 1, Path: "/tmp/1"},
			{ID: 2, Path: "/tmp/2"},
		},
	}
}

func TestEncodeDecode(t *testing.T) {
	data, err := Encode(sampleSnapshot())
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	want := sampleSnapshot()
	want.Version = CurrentVersion
	require.Equal(t, want, got)
}

func TestEncode_Deterministic(t *testing.T) {
	a, err := Encode(sampleSnapshot())
	require.NoError(t, err)
	b, err := Encode(sampleSnapshot())
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("definitely not cbor"))
	require.ErrorIs(t, err, ErrCorrupt)

	_, err = Decode(nil)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestDecode_UnknownVersion(t *testing.T) {
	snap := sampleSnapshot()
	snap.Version = 99
	data, err := cbor.Marshal(snap)
	require.NoError(t, err)

	_, err = Decode(data)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"dangling entry", func(s *Snapshot) { s.Tags[0].Entries = []ids.EntryID{7} }},
		{"empty tag", func(s *Snapshot) { s.Tags[0].Entries = nil }},
		{"duplicate tag", func(s *Snapshot) { s.Tags[1].Name = "docs" }},
		{"empty name", func(s *Snapshot) { s.Tags[0].Name = "" }},
		{"blank name", func(s *Snapshot) { s.Tags[0].Name = "  " }},
		{"duplicate path", func(s *Snapshot) { s.Entries[1].Path = s.Entries[0].Path }},
		{"duplicate entry id", func(s *Snapshot) { s.Entries[1].ID = 1 }},
		{"duplicate association", func(s *Snapshot) { s.Tags[1].Entries = []ids.EntryID{1, 1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := sampleSnapshot()
			tt.mutate(&snap)
			require.ErrorIs(t, snap.Validate(), ErrCorrupt)
		})
	}

	require.NoError(t, sampleSnapshot().Validate())
}
