// Package gallery caches the two file collections the client works with,
// the caller's own uploads and the public feed, plus gallery-wide counters.
package gallery

import (
	"context"
	"sync"

	"galleryctl/internal/client/api"
	"galleryctl/internal/client/models"
	"galleryctl/internal/logging"

	"golang.org/x/sync/errgroup"
)

// SessionState is the slice of the session manager the cache needs.
type SessionState interface {
	IsAuthenticated() bool
}

// collection is one cached file list. Loads are wholesale replacements:
// the slice always mirrors exactly one server page. The seq counters order
// concurrent loads so a slow old response can never overwrite a newer one.
type collection struct {
	files      []models.FileRecord
	pagination models.Pagination
	issued     uint64
	applied    uint64
}

// Cache holds the client's view of the gallery. All fields are guarded by
// mu; accessors hand out copies so callers can't alias cache internals.
type Cache struct {
	api     api.Client
	session SessionState
	log     logging.Logger

	mu     sync.Mutex
	mine   collection
	public collection
	stats  *models.GalleryStats
}

func NewCache(apiClient api.Client, sess SessionState, log logging.Logger) *Cache {
	return &Cache{
		api:     apiClient,
		session: sess,
		log:     log.With("component", "gallery"),
	}
}

// LoadMine replaces the cached "my files" page. Requires a session.
func (c *Cache) LoadMine(ctx context.Context, q models.ListQuery) error {
	if !c.session.IsAuthenticated() {
		return api.ErrAuthRequired
	}

	c.mu.Lock()
	c.mine.issued++
	seq := c.mine.issued
	c.mu.Unlock()

	files, pg, err := c.api.MyFiles(ctx, q)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.mine.applied {
		c.log.Debug(ctx, "discarding stale load", "collection", "mine", "seq", seq)
		return nil
	}
	c.mine.files = files
	c.mine.pagination = pg
	c.mine.applied = seq
	return nil
}

// LoadPublic replaces the cached public page. No session required.
func (c *Cache) LoadPublic(ctx context.Context, q models.ListQuery) error {
	c.mu.Lock()
	c.public.issued++
	seq := c.public.issued
	c.mu.Unlock()

	files, pg, err := c.api.PublicFiles(ctx, q)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.public.applied {
		c.log.Debug(ctx, "discarding stale load", "collection", "public", "seq", seq)
		return nil
	}
	c.public.files = files
	c.public.pagination = pg
	c.public.applied = seq
	return nil
}

func (c *Cache) LoadStats(ctx context.Context) error {
	stats, err := c.api.Stats(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.stats = stats
	c.mu.Unlock()
	return nil
}

// Upload sends all files in one batch and, on success, re-fetches both
// collections and the counters so the cache reflects the new server state.
// Re-fetch failures are logged and swallowed; the upload itself succeeded.
func (c *Cache) Upload(ctx context.Context, uploads []models.FileUpload) ([]models.FileRecord, error) {
	if !c.session.IsAuthenticated() {
		return nil, api.ErrAuthRequired
	}

	records, err := c.api.Upload(ctx, uploads)
	if err != nil {
		return nil, err
	}

	var g errgroup.Group
	g.Go(func() error { return c.LoadMine(ctx, models.ListQuery{}) })
	g.Go(func() error { return c.LoadPublic(ctx, models.ListQuery{}) })
	g.Go(func() error { return c.LoadStats(ctx) })
	if err := g.Wait(); err != nil {
		c.log.Warn(ctx, "post-upload refresh failed", "error", err)
	}
	return records, nil
}

// Remove deletes the file on the server and drops it from both cached
// collections without a re-fetch.
func (c *Cache) Remove(ctx context.Context, id string) error {
	if !c.session.IsAuthenticated() {
		return api.ErrAuthRequired
	}

	if err := c.api.DeleteFile(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mine.files = dropByID(c.mine.files, id)
	c.public.files = dropByID(c.public.files, id)
	return nil
}

func dropByID(files []models.FileRecord, id string) []models.FileRecord {
	out := files[:0]
	for _, f := range files {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return out
}

// SetTitle updates the file on the server and merges the server's partial
// reply into every cached copy. Fields the server omits keep their cached
// values; pagination is untouched.
func (c *Cache) SetTitle(ctx context.Context, id, title string) (*models.FileRecord, error) {
	if !c.session.IsAuthenticated() {
		return nil, api.ErrAuthRequired
	}

	patch, err := c.api.UpdateFile(ctx, id, models.FileUpdate{Title: title})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	merged := mergeInto(c.mine.files, id, patch)
	if m := mergeInto(c.public.files, id, patch); merged == nil {
		merged = m
	}
	if merged == nil {
		// not cached locally, the server result is all we have
		cp := *patch
		merged = &cp
	}
	return merged, nil
}

func mergeInto(files []models.FileRecord, id string, patch *models.FileRecord) *models.FileRecord {
	for i := range files {
		if files[i].ID == id {
			files[i].Merge(patch)
			cp := files[i]
			return &cp
		}
	}
	return nil
}

// Search queries the server directly; results are never cached.
func (c *Cache) Search(ctx context.Context, query string, q models.ListQuery) ([]models.FileRecord, models.Pagination, error) {
	return c.api.SearchFiles(ctx, query, q)
}

// Detail fetches a single file directly from the server.
func (c *Cache) Detail(ctx context.Context, id string) (*models.FileRecord, error) {
	return c.api.FileByID(ctx, id)
}

// HandleSessionChange is wired to the session manager's OnChange hook.
// Login populates the cache from the server, swallowing individual load
// failures; logout wipes everything so the next user starts clean.
func (c *Cache) HandleSessionChange(loggedIn bool) {
	ctx := context.Background()

	if !loggedIn {
		c.mu.Lock()
		c.mine = collection{}
		c.public = collection{}
		c.stats = nil
		c.mu.Unlock()
		return
	}

	var g errgroup.Group
	g.Go(func() error { return c.LoadPublic(ctx, models.ListQuery{}) })
	g.Go(func() error { return c.LoadStats(ctx) })
	g.Go(func() error { return c.LoadMine(ctx, models.ListQuery{}) })
	if err := g.Wait(); err != nil {
		c.log.Warn(ctx, "session change refresh incomplete", "error", err)
	}
}

// Mine returns a copy of the cached owned collection and its pagination.
func (c *Cache) Mine() ([]models.FileRecord, models.Pagination) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.FileRecord(nil), c.mine.files...), c.mine.pagination
}

// Public returns a copy of the cached public collection and its pagination.
func (c *Cache) Public() ([]models.FileRecord, models.Pagination) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.FileRecord(nil), c.public.files...), c.public.pagination
}

// Stats returns a copy of the cached counters, or nil when never loaded.
func (c *Cache) Stats() *models.GalleryStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats == nil {
		return nil
	}
	cp := *c.stats
	return &cp
}
