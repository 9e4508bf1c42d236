package payload

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/stackburn/internal/types"
)

func TestDecodeLocalMissingFields(t *testing.T) {
	p, err := DecodeLocal([]byte(`{}`))
	require.NoError(t, err)
	assert.Zero(t, p.TotalFiles)
	assert.Empty(t, p.Duplicates)
	assert.Empty(t, p.LargestFiles)
	assert.Empty(t, p.UnusedFiles)
}

func TestDecodeLocal(t *testing.T) {
	doc := `{
		"total_files": 12,
		"total_size": 4096,
		"duplicates": [
			{"hash": "abc", "total_size": 100, "files": [{"path": "/a"}, {"path": "/b", "size": 100}]}
		],
		"largest_files": [{"name": "big.iso", "path": "/big.iso", "size": 209715200}],
		"unused_files": [{"size": 5}],
		"file_types": {"Images": 3},
		"extra_field": true
	}`

	p, err := DecodeLocal([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, int64(12), p.TotalFiles)
	require.Len(t, p.Duplicates, 1)
	assert.Equal(t, int64(100), p.Duplicates[0].TotalSize)
	assert.Len(t, p.Duplicates[0].Files, 2)
	assert.Equal(t, "big.iso", p.LargestFiles[0].Label())
	assert.Equal(t, int64(3), p.FileTypes["Images"])
}

func TestDecodeStructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		decode func([]byte) error
		source string
		doc    string
	}{
		{"local wrong type", func(b []byte) error { _, err := DecodeLocal(b); return err }, types.SourceLocal, `{"duplicates": "many"}`},
		{"cloud not json", func(b []byte) error { _, err := DecodeCloud(b); return err }, types.SourceCloud, `not json`},
		{"code hosting array", func(b []byte) error { _, err := DecodeCodeHosting(b); return err }, types.SourceCodeHosting, `[1,2,3]`},
		{"empty document", func(b []byte) error { _, err := DecodeCloud(b); return err }, types.SourceCloud, "  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decode([]byte(tt.doc))
			require.Error(t, err)

			var srcErr *SourceError
			require.True(t, errors.As(err, &srcErr))
			assert.Equal(t, tt.source, srcErr.Source)
			assert.Contains(t, err.Error(), tt.source+" payload")
		})
	}
}

func TestDecodeEmptyIsErrEmpty(t *testing.T) {
	_, err := DecodeLocal(nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestDecodeCloudKeepsRawTimes(t *testing.T) {
	p, err := DecodeCloud([]byte(`{"total_files": 2, "oldest_files": [
		{"name": "a", "modified_time": "2020-01-01T00:00:00Z", "size": 10},
		{"name": "b", "modified_time": "yesterday"}
	]}`))
	require.NoError(t, err)
	require.Len(t, p.OldestFiles, 2)
	assert.Equal(t, "yesterday", p.OldestFiles[1].ModifiedTime)
}

func TestRepoLabel(t *testing.T) {
	assert.Equal(t, "octo/repo", Repo{FullName: "octo/repo", Name: "repo"}.Label())
	assert.Equal(t, "repo", Repo{Name: "repo"}.Label())
}

func TestFileFromRecord(t *testing.T) {
	mod := time.Date(2023, 3, 4, 5, 6, 7, 0, time.FixedZone("X", 3600))
	acc := mod.Add(time.Hour)

	f := FileFromRecord(types.FileRecord{
		Path:         "/tmp/a.txt",
		Name:         "a.txt",
		Extension:    "txt",
		Size:         42,
		ModifiedTime: mod,
		AccessedTime: &acc,
		Hash:         "deadbeef",
	})

	assert.Equal(t, "2023-03-04T04:06:07Z", f.ModifiedTime)
	assert.Equal(t, "2023-03-04T05:06:07Z", f.AccessedTime)
	assert.Equal(t, int64(42), f.Size)

	parsed, err := ParseTime(f.ModifiedTime)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(mod))
}

func TestEmptySlicesEncodeAsArrays(t *testing.T) {
	p := Local{
		LargestFiles: FilesFromRecords(nil),
		Duplicates:   DuplicatesFromGroups(nil),
		UnusedFiles:  FilesFromRecords(nil),
	}

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"duplicates":[]`)
	assert.Contains(t, string(out), `"largest_files":[]`)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339 utc", "2023-01-01T00:00:00Z", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339 offset", "2023-01-01T02:00:00+02:00", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"fractional seconds", "2023-01-01T00:00:00.250Z", time.Date(2023, 1, 1, 0, 0, 0, 250e6, time.UTC), false},
		{"no offset is utc", "2023-01-01T00:00:00", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"no offset fractional", "2023-01-01T00:00:00.5", time.Date(2023, 1, 1, 0, 0, 0, 5e8, time.UTC), false},
		{"date only", "2023-01-01", time.Time{}, true},
		{"garbage", "yesterday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s", got)
		})
	}
}

func TestDuplicatesFromGroupsMarksHardLinks(t *testing.T) {
	groups := []types.DuplicateGroup{{
		Hash:      "abc",
		TotalSize: 10,
		Files: []types.FileRecord{
			{Path: "/a", Size: 10, Device: 1, Inode: 7},
			{Path: "/b", Size: 10, Device: 1, Inode: 7},
			{Path: "/c", Size: 10, Device: 1, Inode: 9},
		},
	}}

	dups := DuplicatesFromGroups(groups)
	require.Len(t, dups, 1)
	require.Len(t, dups[0].Files, 3)
	assert.False(t, dups[0].Files[0].HardLink)
	assert.True(t, dups[0].Files[1].HardLink)
	assert.False(t, dups[0].Files[2].HardLink)

	out, err := json.Marshal(dups[0].Files[2])
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hard_link")
}
