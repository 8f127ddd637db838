package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFileType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		mime string
		want FileType
	}{
		{"enum image", "IMAGE", "", FileTypeImage},
		{"enum video", "VIDEO", "", FileTypeVideo},
		{"lowercase image", "image", "", FileTypeImage},
		{"lowercase video", "video", "", FileTypeVideo},
		{"mixed case", "Image", "", FileTypeImage},
		{"padded", "  video ", "", FileTypeVideo},
		{"inferred from mime image", "", "image/png", FileTypeImage},
		{"inferred from mime video", "", "video/mp4", FileTypeVideo},
		{"raw wins over mime", "VIDEO", "image/png", FileTypeVideo},
		{"unknown", "document", "application/pdf", FileType("")},
		{"empty", "", "", FileType("")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, NormalizeFileType(tc.raw, tc.mime))
		})
	}
}

func TestFileRecord_Normalize(t *testing.T) {
	rec := FileRecord{Type: "IMAGE", MimeType: "image/jpeg"}
	rec.Normalize()
	require.Equal(t, FileTypeImage, rec.Type)

	rec = FileRecord{MimeType: "video/webm"}
	rec.Normalize()
	require.Equal(t, FileTypeVideo, rec.Type)
}

func TestFileRecord_Merge(t *testing.T) {
	uploaded := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := FileRecord{
		ID:         "f1",
		Title:      "old title",
		Name:       "cat.jpg",
		Type:       FileTypeImage,
		MimeType:   "image/jpeg",
		Size:       1024,
		UploadedAt: uploaded,
		UserID:     "u1",
		UserName:   "alice",
	}

	rec.Merge(&FileRecord{Title: "new title"})

	require.Equal(t, "new title", rec.Title)
	require.Equal(t, "cat.jpg", rec.Name, "unset patch fields must not clobber")
	require.Equal(t, int64(1024), rec.Size)
	require.Equal(t, uploaded, rec.UploadedAt)
	require.Equal(t, "u1", rec.UserID)
}

func TestFileRecord_MergeNil(t *testing.T) {
	rec := FileRecord{ID: "f1", Title: "t"}
	rec.Merge(nil)
	require.Equal(t, "t", rec.Title)
}

func TestListQuery_WithDefaults(t *testing.T) {
	q := ListQuery{}.WithDefaults()
	require.Equal(t, TypeFilterAll, q.Type)
	require.Equal(t, 1, q.Page)
	require.Equal(t, DefaultPageSize, q.Size)
	require.Equal(t, DefaultSortKey, q.Sort)
	require.Equal(t, DefaultSortOrder, q.Order)

	q = ListQuery{Type: "image", Page: 3, Size: 5, Sort: "title", Order: "asc"}.WithDefaults()
	require.Equal(t, ListQuery{Type: "image", Page: 3, Size: 5, Sort: "title", Order: "asc"}, q)
}

func TestListQuery_Values(t *testing.T) {
	v := ListQuery{Type: "video", Page: 2}.Values()
	require.Equal(t, "video", v.Get("type"))
	require.Equal(t, "2", v.Get("page"))
	require.Equal(t, "20", v.Get("size"))
	require.Equal(t, "uploadedAt", v.Get("sort"))
	require.Equal(t, "desc", v.Get("order"))
}
