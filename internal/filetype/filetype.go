// Package filetype maps MIME types to the coarse type buckets reported in
// scan payloads. Local files and object store entries share the same buckets.
package filetype

import (
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Type buckets.
const (
	Images        = "Images"
	Videos        = "Videos"
	Audio         = "Audio"
	Documents     = "Documents"
	Spreadsheets  = "Spreadsheets"
	Presentations = "Presentations"
	PDFs          = "PDFs"
	Folders       = "Folders"
	Other         = "Other"
)

const octetStream = "application/octet-stream"

// Bucket classifies a MIME type. Prefix rules win over substring rules, and
// substring rules are applied in a fixed order, so an Office Open XML
// spreadsheet ("...officedocument.spreadsheetml...") lands in Documents.
func Bucket(mimeType string) string {
	t := strings.ToLower(mediaType(mimeType))
	switch {
	case t == "":
		return Other
	case strings.HasPrefix(t, "image/"):
		return Images
	case strings.HasPrefix(t, "video/"):
		return Videos
	case strings.HasPrefix(t, "audio/"):
		return Audio
	case strings.Contains(t, "document"):
		return Documents
	case strings.Contains(t, "spreadsheet"):
		return Spreadsheets
	case strings.Contains(t, "presentation"):
		return Presentations
	case strings.Contains(t, "pdf"):
		return PDFs
	case strings.Contains(t, "folder"):
		return Folders
	default:
		return Other
	}
}

// FromName classifies a file by its extension alone.
func FromName(name string) string {
	return Bucket(ByExtension(name))
}

// ByExtension returns the MIME type registered for the extension of name,
// or an empty string when none is known.
func ByExtension(name string) string {
	ext := path.Ext(name)
	if ext == "" {
		return ""
	}
	return mime.TypeByExtension(strings.ToLower(ext))
}

// Detect sniffs the MIME type from the leading bytes of a file. When the
// content is not recognized the extension of name is used instead.
func Detect(head []byte, name string) string {
	if len(head) > 0 {
		mt := mimetype.Detect(head)
		if mt != nil && !mt.Is(octetStream) {
			return mt.String()
		}
	}
	if byExt := ByExtension(name); byExt != "" {
		return byExt
	}
	return octetStream
}

// DetectBucket is Detect followed by Bucket.
func DetectBucket(head []byte, name string) string {
	return Bucket(Detect(head, name))
}

func mediaType(mimeType string) string {
	t, _, _ := strings.Cut(mimeType, ";")
	return strings.TrimSpace(t)
}
