package models

import (
	"strings"
	"time"
)

// FileType is the canonical media kind of a file record.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypeVideo FileType = "video"
)

// MaxUploadSize is the per-file upload cap enforced before any request is sent.
const MaxUploadSize = 50 << 20

// FileRecord is one gallery entry as reported by the server.
// Identity of a record is its ID.
type FileRecord struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Name       string    `json:"name"`
	Type       FileType  `json:"type"`
	MimeType   string    `json:"mimeType"`
	Size       int64     `json:"size"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
}

// NormalizeFileType folds the server's three equivalent type spellings
// (enum constant, lowercase string, or nothing plus a MIME type) into the
// canonical FileType. It returns "" when the kind cannot be determined.
//
// The server's shape is not fully controlled by this client, so the
// tolerance lives here, once, instead of at every consumer.
func NormalizeFileType(raw string, mimeType string) FileType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "image":
		return FileTypeImage
	case "video":
		return FileTypeVideo
	}
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return FileTypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return FileTypeVideo
	}
	return ""
}

// Normalize rewrites the record's Type to its canonical form.
// Called once at the API decode boundary; downstream code can rely on
// Type being FileTypeImage, FileTypeVideo, or "".
func (f *FileRecord) Normalize() {
	f.Type = NormalizeFileType(string(f.Type), f.MimeType)
}

// Merge shallow-merges the set fields of patch into f, leaving unset
// (zero-valued) patch fields alone. Used to reconcile a server-returned
// update into a cached record without a follow-up fetch.
func (f *FileRecord) Merge(patch *FileRecord) {
	if patch == nil {
		return
	}
	if patch.Title != "" {
		f.Title = patch.Title
	}
	if patch.Name != "" {
		f.Name = patch.Name
	}
	if patch.Type != "" {
		f.Type = patch.Type
	}
	if patch.MimeType != "" {
		f.MimeType = patch.MimeType
	}
	if patch.Size > 0 {
		f.Size = patch.Size
	}
	if patch.URL != "" {
		f.URL = patch.URL
	}
	if !patch.UploadedAt.IsZero() {
		f.UploadedAt = patch.UploadedAt
	}
	if patch.UserName != "" {
		f.UserName = patch.UserName
	}
}

// FileUpload names one local file queued for a batched upload,
// paired positionally with its title.
type FileUpload struct {
	Path  string
	Title string
}

// FileUpdate carries the user-editable fields of a record for PUT /files/:id.
type FileUpdate struct {
	Title string `json:"title,omitempty"`
}
