// Package api implements the client for the remote gallery REST service:
// uniform request dispatch, bearer-credential injection, and the one-shot
// token refresh protocol.
package api

import (
	"context"
	"io"

	"galleryctl/internal/client/models"
)

// Tokens is the bearer credential pair issued by the auth endpoints.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Client is the remote API surface consumed by the session manager and the
// gallery cache. All methods honor context cancellation. Methods never
// persist login results; storing credentials is the session manager's job.
type Client interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, *Tokens, error)
	Me(ctx context.Context) (*models.User, error)

	Upload(ctx context.Context, uploads []models.FileUpload) ([]models.FileRecord, error)
	MyFiles(ctx context.Context, q models.ListQuery) ([]models.FileRecord, models.Pagination, error)
	PublicFiles(ctx context.Context, q models.ListQuery) ([]models.FileRecord, models.Pagination, error)
	SearchFiles(ctx context.Context, query string, q models.ListQuery) ([]models.FileRecord, models.Pagination, error)
	FileByID(ctx context.Context, id string) (*models.FileRecord, error)
	UpdateFile(ctx context.Context, id string, patch models.FileUpdate) (*models.FileRecord, error)
	DeleteFile(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.GalleryStats, error)

	Download(ctx context.Context, id string) (io.ReadCloser, error)
	DownloadURL(id string) string
	StreamURL(id string) string
}
