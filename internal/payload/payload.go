// Package payload defines the per-source scan payloads consumed by the
// analyzers. Every field is optional: an absent field decodes to its zero
// value and contributes nothing to the score.
package payload

import (
	"time"

	"github.com/dbsmedya/stackburn/internal/types"
)

// Local is the payload produced by the local directory scanner.
type Local struct {
	TotalFiles       int64            `json:"total_files"`
	TotalDirectories int64            `json:"total_directories"`
	TotalSize        int64            `json:"total_size"`
	FileTypes        map[string]int64 `json:"file_types,omitempty"`
	LargestFiles     []File           `json:"largest_files"`
	Duplicates       []Duplicate      `json:"duplicates"`
	UnusedFiles      []File           `json:"unused_files"`
	TemporaryFiles   []File           `json:"temporary_files,omitempty"`
	Warnings         []string         `json:"warnings,omitempty"`
	ScanTimestamp    string           `json:"scan_timestamp,omitempty"`
}

// File is one local file entry. Times are RFC 3339 strings.
type File struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Extension    string `json:"extension,omitempty"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time,omitempty"`
	AccessedTime string `json:"accessed_time,omitempty"`
	IsHidden     bool   `json:"is_hidden,omitempty"`
	Hash         string `json:"hash,omitempty"`
	Bucket       string `json:"bucket,omitempty"`
	HardLink     bool   `json:"hard_link,omitempty"` // duplicate member sharing an inode with an earlier member
}

// Duplicate is one duplicate group. TotalSize is the wasted size: the bytes
// held by every member except the first (the keeper) and hard links.
type Duplicate struct {
	Hash      string `json:"hash"`
	TotalSize int64  `json:"total_size"`
	Files     []File `json:"files"`
}

// Cloud is the payload of a cloud file store listing.
type Cloud struct {
	TotalFiles    int64            `json:"total_files"`
	TotalSize     int64            `json:"total_size"`
	FileTypes     map[string]int64 `json:"file_types,omitempty"`
	OldestFiles   []CloudFile      `json:"oldest_files"`
	LargestFiles  []CloudFile      `json:"largest_files,omitempty"`
	ScanTimestamp string           `json:"scan_timestamp,omitempty"`
}

// CloudFile is one object of a cloud file store. ModifiedTime is kept as the
// producer sent it and parsed during analysis.
type CloudFile struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	MimeType     string `json:"mime_type,omitempty"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// CodeHosting is the payload of a code hosting account listing.
type CodeHosting struct {
	TotalRepos      int64            `json:"total_repos"`
	PrivateRepos    int64            `json:"private_repos,omitempty"`
	PublicRepos     int64            `json:"public_repos,omitempty"`
	TotalSizeKB     int64            `json:"total_size_kb"`
	StaleRepos      []Repo           `json:"stale_repos"`
	ArchivedRepos   []Repo           `json:"archived_repos"`
	InactiveForks   []Repo           `json:"inactive_forks"`
	LargestRepos    []Repo           `json:"largest_repos,omitempty"`
	ReposByLanguage map[string]int64 `json:"repos_by_language,omitempty"`
}

// Repo is one repository. Size is in kilobytes.
type Repo struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	FullName string `json:"full_name"`
	Size     int64  `json:"size"`
	IsFork   bool   `json:"is_fork,omitempty"`
	Archived bool   `json:"archived,omitempty"`
	PushedAt string `json:"pushed_at,omitempty"`
	Language string `json:"language,omitempty"`
}

// Label returns the repository's display name.
func (r Repo) Label() string {
	if r.FullName != "" {
		return r.FullName
	}
	return r.Name
}

// Label returns the entry's display name, falling back to its path.
func (f File) Label() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Path
}

// FormatTime renders t in the payload timestamp format.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// localTimeLayout is ISO 8601 without a zone offset; such times are read as UTC.
const localTimeLayout = "2006-01-02T15:04:05.999999999"

// ParseTime parses a payload timestamp: RFC 3339 (fractional seconds
// allowed), or ISO 8601 without an offset, taken as UTC.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	if local, lerr := time.Parse(localTimeLayout, s); lerr == nil {
		return local, nil
	}
	return time.Time{}, err
}

// FileFromRecord converts a scanned record into its payload form.
func FileFromRecord(r types.FileRecord) File {
	f := File{
		Path:         r.Path,
		Name:         r.Name,
		Extension:    r.Extension,
		Size:         r.Size,
		ModifiedTime: FormatTime(r.ModifiedTime),
		IsHidden:     r.IsHidden,
		Hash:         r.Hash,
		Bucket:       r.Bucket,
	}
	if r.AccessedTime != nil {
		f.AccessedTime = FormatTime(*r.AccessedTime)
	}
	return f
}

// FilesFromRecords converts a slice of records. It never returns nil so the
// JSON form is an empty array rather than null.
func FilesFromRecords(records []types.FileRecord) []File {
	files := make([]File, 0, len(records))
	for _, r := range records {
		files = append(files, FileFromRecord(r))
	}
	return files
}

// DuplicatesFromGroups converts duplicate groups into their payload form.
func DuplicatesFromGroups(groups []types.DuplicateGroup) []Duplicate {
	dups := make([]Duplicate, 0, len(groups))
	for _, g := range groups {
		files := FilesFromRecords(g.Files)
		for i := 1; i < len(g.Files); i++ {
			for _, prev := range g.Files[:i] {
				if g.Files[i].SameFile(prev) {
					files[i].HardLink = true
					break
				}
			}
		}
		dups = append(dups, Duplicate{
			Hash:      g.Hash,
			TotalSize: g.TotalSize,
			Files:     files,
		})
	}
	return dups
}
