package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"galleryctl/internal/client/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	User   *models.User `json:"user"`
	Tokens *Tokens      `json:"tokens"`
}

type listPayload struct {
	Files      []models.FileRecord `json:"files"`
	Pagination models.Pagination   `json:"pagination"`
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	body, err := c.postJSON(ctx, "/auth/register", registerRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var out struct {
		User *models.User `json:"user"`
	}
	if err := decodeData(body, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, fmt.Errorf("malformed register response: user missing")
	}
	return out.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, *Tokens, error) {
	body, err := c.postJSON(ctx, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, nil, err
	}

	var out loginPayload
	if err := decodeData(body, &out); err != nil {
		return nil, nil, err
	}
	if out.User == nil || out.Tokens == nil || out.Tokens.AccessToken == "" {
		return nil, nil, fmt.Errorf("malformed login response")
	}
	return out.User, out.Tokens, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, path: "/users/me"})
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := decodeData(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Upload sends all files in one batched multipart request, fields "files"
// and "titles" paired positionally. Oversized files fail validation before
// any request is made.
func (c *HTTPClient) Upload(ctx context.Context, uploads []models.FileUpload) ([]models.FileRecord, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("nothing to upload")
	}

	for _, up := range uploads {
		info, err := os.Stat(up.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", up.Path, err)
		}
		if info.Size() > models.MaxUploadSize {
			return nil, fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, up.Path, info.Size())
		}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, up := range uploads {
		if err := appendFilePart(mw, up.Path); err != nil {
			return nil, err
		}
	}
	for _, up := range uploads {
		if err := mw.WriteField("titles", up.Title); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	body, err := c.do(ctx, call{
		method:      http.MethodPost,
		path:        "/files/upload",
		body:        buf.Bytes(),
		contentType: mw.FormDataContentType(),
		timeout:     c.uploadTimeout,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Files []models.FileRecord `json:"files"`
	}
	if err := decodeData(body, &out); err != nil {
		return nil, err
	}
	normalizeAll(out.Files)
	return out.Files, nil
}

func appendFilePart(mw *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	part, err := mw.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) MyFiles(ctx context.Context, q models.ListQuery) ([]models.FileRecord, models.Pagination, error) {
	return c.list(ctx, "/files/my", q.Values())
}

func (c *HTTPClient) PublicFiles(ctx context.Context, q models.ListQuery) ([]models.FileRecord, models.Pagination, error) {
	return c.list(ctx, "/files/public", q.Values())
}

func (c *HTTPClient) SearchFiles(ctx context.Context, query string, q models.ListQuery) ([]models.FileRecord, models.Pagination, error) {
	q = q.WithDefaults()
	v := url.Values{}
	v.Set("q", query)
	v.Set("type", q.Type)
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	return c.list(ctx, "/files/search", v)
}

func (c *HTTPClient) list(ctx context.Context, path string, v url.Values) ([]models.FileRecord, models.Pagination, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, path: path, query: v})
	if err != nil {
		return nil, models.Pagination{}, err
	}

	var out listPayload
	if err := decodeData(body, &out); err != nil {
		return nil, models.Pagination{}, err
	}
	normalizeAll(out.Files)
	return out.Files, out.Pagination, nil
}

func (c *HTTPClient) FileByID(ctx context.Context, id string) (*models.FileRecord, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, path: "/files/" + url.PathEscape(id)})
	if err != nil {
		return nil, err
	}

	var rec models.FileRecord
	if err := decodeData(body, &rec); err != nil {
		return nil, err
	}
	rec.Normalize()
	return &rec, nil
}

func (c *HTTPClient) UpdateFile(ctx context.Context, id string, patch models.FileUpdate) (*models.FileRecord, error) {
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, call{
		method:      http.MethodPut,
		path:        "/files/" + url.PathEscape(id),
		body:        payload,
		contentType: contentTypeJSON,
	})
	if err != nil {
		return nil, err
	}

	var rec models.FileRecord
	if err := decodeData(body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{method: http.MethodDelete, path: "/files/" + url.PathEscape(id)})
	return err
}

func (c *HTTPClient) Stats(ctx context.Context) (*models.GalleryStats, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, path: "/gallery/stats"})
	if err != nil {
		return nil, err
	}

	var stats models.GalleryStats
	if err := decodeData(body, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Download streams the raw file content. The body is not an envelope;
// the caller owns the returned reader.
func (c *HTTPClient) Download(ctx context.Context, id string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(id), nil)
	if err != nil {
		return nil, err
	}
	if err := c.applyAuth(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, newServerError(resp.StatusCode, body)
	}
	return resp.Body, nil
}

func (c *HTTPClient) DownloadURL(id string) string {
	return c.baseURL + "/files/" + url.PathEscape(id) + "/download"
}

func (c *HTTPClient) StreamURL(id string) string {
	return c.baseURL + "/files/" + url.PathEscape(id) + "/stream"
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, in any) ([]byte, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, call{
		method:      http.MethodPost,
		path:        path,
		body:        payload,
		contentType: contentTypeJSON,
	})
}

func normalizeAll(files []models.FileRecord) {
	for i := range files {
		files[i].Normalize()
	}
}
