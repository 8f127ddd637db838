// Package cli is the interactive front end: a cobra command tree for one-shot
// use and a small REPL for browsing sessions.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"galleryctl/internal/client/api"
	"galleryctl/internal/client/config"
	"galleryctl/internal/client/credentials"
	"galleryctl/internal/client/gallery"
	"galleryctl/internal/client/session"
	"galleryctl/internal/logging"
)

// App wires the client together: credential store, API client, session
// manager, and gallery cache. One App per process invocation.
type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	api     api.Client
	session *session.Manager
	gallery *gallery.Cache
	reader  *bufio.Reader
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := credentials.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	repo := credentials.NewSQLiteRepository(db)
	apiClient := api.NewHTTPClient(cfg, repo, log)

	sess := session.NewManager(apiClient, db, log)
	cache := gallery.NewCache(apiClient, sess, log)
	sess.OnChange(cache.HandleSessionChange)

	return &App{
		config:  cfg,
		log:     log,
		db:      db,
		api:     apiClient,
		session: sess,
		gallery: cache,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Start restores any persisted session and schedules the background
// identity resync.
func (a *App) Start(ctx context.Context) error {
	if err := a.session.Restore(ctx); err != nil {
		return err
	}
	a.session.ResyncAfter(ctx, a.config.ResyncDelay)
	return nil
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// checkErr funnels command failures to the user. An expired session
// additionally flips the session manager to logged out.
func (a *App) checkErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, api.ErrAuthExpired) {
		a.session.Expire(ctx)
	}
	if errors.Is(err, api.ErrAuthRequired) {
		return fmt.Errorf("please log in first")
	}
	return err
}
