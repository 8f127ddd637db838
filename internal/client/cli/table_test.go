package cli

import (
	"strings"
	"testing"
	"time"

	"galleryctl/internal/client/models"

	"github.com/stretchr/testify/require"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 << 20, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, formatSize(tt.bytes))
	}
}

func TestFileTable_IncludesEveryRow(t *testing.T) {
	files := []models.FileRecord{
		{ID: "f1", Title: "Sunset", Type: models.FileTypeImage, Size: 1024,
			UploadedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), UserName: "alice"},
		{ID: "f2", Title: "Surf", Type: models.FileTypeVideo, Size: 10 << 20, UserName: "bob"},
	}

	out := fileTable(files)
	require.Contains(t, out, "Sunset")
	require.Contains(t, out, "Surf")
	require.Contains(t, out, "alice")
	require.Contains(t, out, "2026-03-01 09:30")
	require.Contains(t, out, "10.0 MiB")
}

func TestRenderTable_EmptyHeaders(t *testing.T) {
	require.Equal(t, "", renderTable(nil, nil, nil))
}

func TestRenderTable_PadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only-a"}}, nil)
	require.Contains(t, out, "only-a")
	require.Equal(t, 1, strings.Count(out, "only-a"))
}

func TestPaginationLine(t *testing.T) {
	require.Equal(t, "3 file(s)",
		paginationLine(models.Pagination{Page: 1, TotalPages: 1, TotalElements: 3}))
	require.Equal(t, "page 2 of 5, 91 file(s) total",
		paginationLine(models.Pagination{Page: 2, TotalPages: 5, TotalElements: 91}))
}
