package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"galleryctl/internal/client/models"
)

// List loads one page of a collection into the cache and prints it.
func (a *App) List(ctx context.Context, mine bool, q models.ListQuery) error {
	var err error
	if mine {
		err = a.gallery.LoadMine(ctx, q)
	} else {
		err = a.gallery.LoadPublic(ctx, q)
	}
	if err != nil {
		return a.checkErr(ctx, err)
	}

	var files []models.FileRecord
	var pg models.Pagination
	if mine {
		files, pg = a.gallery.Mine()
	} else {
		files, pg = a.gallery.Public()
	}

	if len(files) == 0 {
		fmt.Println("No files.")
		return nil
	}
	fmt.Println(fileTable(files))
	fmt.Println(paginationLine(pg))
	return nil
}

func (a *App) Search(ctx context.Context, query string, q models.ListQuery) error {
	files, pg, err := a.gallery.Search(ctx, query, q)
	if err != nil {
		return a.checkErr(ctx, err)
	}
	if len(files) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	fmt.Println(fileTable(files))
	fmt.Println(paginationLine(pg))
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	rec, err := a.gallery.Detail(ctx, id)
	if err != nil {
		return a.checkErr(ctx, err)
	}

	fmt.Printf("ID:        %s\n", rec.ID)
	fmt.Printf("Title:     %s\n", rec.Title)
	fmt.Printf("Type:      %s\n", rec.Type)
	fmt.Printf("MIME:      %s\n", rec.MimeType)
	fmt.Printf("Size:      %s\n", formatSize(rec.Size))
	if !rec.UploadedAt.IsZero() {
		fmt.Printf("Uploaded:  %s\n", rec.UploadedAt.Format("2006-01-02 15:04:05"))
	}
	if rec.UserName != "" {
		fmt.Printf("Owner:     %s\n", rec.UserName)
	}
	fmt.Printf("Download:  %s\n", a.api.DownloadURL(rec.ID))
	if rec.Type == models.FileTypeVideo {
		fmt.Printf("Stream:    %s\n", a.api.StreamURL(rec.ID))
	}
	return nil
}

// Upload sends all named files in one batch. Titles pair positionally with
// paths; files beyond the titles list fall back to their base name.
func (a *App) Upload(ctx context.Context, paths, titles []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("nothing to upload")
	}

	uploads := make([]models.FileUpload, 0, len(paths))
	for i, path := range paths {
		title := filepath.Base(path)
		if i < len(titles) && titles[i] != "" {
			title = titles[i]
		}
		uploads = append(uploads, models.FileUpload{Path: path, Title: title})
	}

	records, err := a.gallery.Upload(ctx, uploads)
	if err != nil {
		return a.checkErr(ctx, err)
	}

	fmt.Printf("Uploaded %d file(s):\n", len(records))
	fmt.Println(fileTable(records))
	return nil
}

func (a *App) Remove(ctx context.Context, id string) error {
	if err := a.gallery.Remove(ctx, id); err != nil {
		return a.checkErr(ctx, err)
	}
	fmt.Println("Deleted.")
	return nil
}

func (a *App) SetTitle(ctx context.Context, id, title string) error {
	rec, err := a.gallery.SetTitle(ctx, id, title)
	if err != nil {
		return a.checkErr(ctx, err)
	}
	fmt.Printf("Renamed %s to %q\n", rec.ID, rec.Title)
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	if err := a.gallery.LoadStats(ctx); err != nil {
		return a.checkErr(ctx, err)
	}
	stats := a.gallery.Stats()

	fmt.Println(renderTable(
		[]string{"FILES", "IMAGES", "VIDEOS"},
		[][]string{{
			fmt.Sprintf("%d", stats.TotalFiles),
			fmt.Sprintf("%d", stats.TotalImages),
			fmt.Sprintf("%d", stats.TotalVideos),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight},
	))
	return nil
}

// Download streams a file to dest, or to its server-side name in the
// current directory when dest is empty.
func (a *App) Download(ctx context.Context, id, dest string) error {
	rec, err := a.gallery.Detail(ctx, id)
	if err != nil {
		return a.checkErr(ctx, err)
	}
	if dest == "" {
		dest = rec.Name
		if dest == "" {
			dest = rec.ID
		}
	}

	body, err := a.api.Download(ctx, id)
	if err != nil {
		return a.checkErr(ctx, err)
	}
	defer body.Close()

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := io.Copy(f, body)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%s)\n", dest, formatSize(n))
	return nil
}
