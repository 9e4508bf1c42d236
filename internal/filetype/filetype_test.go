package filetype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucket(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"image/jpeg", Images},
		{"image/png", Images},
		{"video/mp4", Videos},
		{"audio/mpeg", Audio},
		{"application/vnd.google-apps.document", Documents},
		{"application/vnd.google-apps.spreadsheet", Spreadsheets},
		{"application/vnd.google-apps.presentation", Presentations},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Documents},
		{"application/pdf", PDFs},
		{"application/vnd.google-apps.folder", Folders},
		{"text/plain; charset=utf-8", Other},
		{"IMAGE/GIF", Images},
		{"", Other},
		{"application/zip", Other},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			assert.Equal(t, tt.want, Bucket(tt.mimeType))
		})
	}
}

func TestFromName(t *testing.T) {
	assert.Equal(t, Images, FromName("holiday.JPG"))
	assert.Equal(t, PDFs, FromName("report.pdf"))
	assert.Equal(t, Other, FromName("Makefile"))
	assert.Equal(t, Other, FromName("archive.unknownext"))
}

func TestDetect(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	pdf := []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	t.Run("content wins over extension", func(t *testing.T) {
		assert.Equal(t, "image/png", Detect(png, "misnamed.txt"))
		assert.Equal(t, PDFs, DetectBucket(pdf, "file.bin"))
	})

	t.Run("unknown content falls back to extension", func(t *testing.T) {
		assert.Equal(t, Images, DetectBucket([]byte{0x00, 0x01, 0x02, 0x03}, "photo.jpg"))
	})

	t.Run("empty head uses extension", func(t *testing.T) {
		assert.Equal(t, Images, DetectBucket(nil, "diagram.svg"))
	})

	t.Run("nothing known", func(t *testing.T) {
		assert.Equal(t, octetStream, Detect(nil, "blob"))
		assert.Equal(t, Other, DetectBucket(nil, "blob"))
	})
}
