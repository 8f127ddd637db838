// Package session owns the client's authentication state: a single Manager
// holds the logged-in identity, persists credentials, and tells interested
// parties when the session starts or ends.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"galleryctl/internal/client/api"
	"galleryctl/internal/client/credentials"
	"galleryctl/internal/client/models"
	"galleryctl/internal/dbx"
	"galleryctl/internal/logging"

	"github.com/golang-jwt/jwt/v5"
)

// Manager tracks whether the client is logged in and who as. State lives in
// the Manager instance, never in package globals; credentials live in the
// local store so a restart can restore the session.
//
// The zero value is not usable; construct with NewManager.
type Manager struct {
	api api.Client
	db  *sql.DB
	log logging.Logger

	mu       sync.RWMutex
	user     *models.User
	onChange []func(loggedIn bool)
}

func NewManager(apiClient api.Client, db *sql.DB, log logging.Logger) *Manager {
	return &Manager{
		api: apiClient,
		db:  db,
		log: log.With("component", "session"),
	}
}

func (m *Manager) repo() credentials.Repository {
	return credentials.NewSQLiteRepository(m.db)
}

// OnChange registers fn to run after every login/logout transition. Handlers
// run synchronously, outside the Manager's lock, in registration order.
// Register before Restore so startup restoration is observed too.
func (m *Manager) OnChange(fn func(loggedIn bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// Restore rebuilds session state from the local store at startup.
//
// The stored access token is checked structurally and against its exp claim;
// the signature is not verified since the client has no key material and the
// server re-validates every request anyway. A malformed or expired token is
// discarded along with the refresh token. A plausible token restores the
// cached identity without a network round trip.
func (m *Manager) Restore(ctx context.Context) error {
	repo := m.repo()

	tok, err := repo.Get(ctx, credentials.KeyAccessToken)
	if err != nil {
		return err
	}
	if len(tok) == 0 {
		return nil
	}

	if !tokenPlausible(string(tok)) {
		m.log.Debug(ctx, "discarding stored token", "reason", "malformed or expired")
		if err := repo.Delete(ctx, credentials.KeyAccessToken); err != nil {
			return err
		}
		if err := repo.Delete(ctx, credentials.KeyRefreshToken); err != nil {
			return err
		}
		return nil
	}

	raw, err := repo.Get(ctx, credentials.KeyUser)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		// Token without identity: stay logged out but keep the token,
		// a later login or resync will repair the store.
		return nil
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return fmt.Errorf("failed to decode cached identity: %w", err)
	}

	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()

	m.log.Info(ctx, "session restored", "user", user.Email)
	m.notify(true)
	return nil
}

// tokenPlausible reports whether tok parses as a JWT and is not past its exp
// claim. A token without exp passes.
func tokenPlausible(tok string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false
	}
	if exp != nil && exp.Before(time.Now()) {
		return false
	}
	return true
}

// Login authenticates against the server and, on success, persists both
// tokens and the identity in one transaction before flipping state.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, tokens, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := credentials.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, credentials.KeyAccessToken, []byte(tokens.AccessToken)); err != nil {
			return err
		}
		if err := repo.Set(ctx, credentials.KeyRefreshToken, []byte(tokens.RefreshToken)); err != nil {
			return err
		}
		return repo.Set(ctx, credentials.KeyUser, raw)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	m.log.Info(ctx, "logged in", "user", user.Email)
	m.notify(true)
	return user, nil
}

// Register creates an account. It never authenticates; callers log in
// explicitly afterwards.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return m.api.Register(ctx, name, email, password)
}

// Logout wipes the local store and the in-memory identity. The server holds
// no session state worth revoking, so no network call is made.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.repo().Clear(ctx)

	m.mu.Lock()
	wasLoggedIn := m.user != nil
	m.user = nil
	m.mu.Unlock()

	if wasLoggedIn {
		m.log.Info(ctx, "logged out")
		m.notify(false)
	}
	return err
}

// Expire drops the in-memory session after the API layer reported that a
// token refresh failed. The cached identity stays in the store so the next
// start still knows who was logged in.
func (m *Manager) Expire(ctx context.Context) {
	m.mu.Lock()
	wasLoggedIn := m.user != nil
	m.user = nil
	m.mu.Unlock()

	if wasLoggedIn {
		m.log.Warn(ctx, "session expired")
		m.notify(false)
	}
}

// Resync fetches the server's view of the identity and overwrites the cached
// copy. Failures are logged and swallowed: a stale profile is acceptable, a
// crashed startup is not. No-op when logged out.
func (m *Manager) Resync(ctx context.Context) {
	if !m.IsAuthenticated() {
		return
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		m.log.Warn(ctx, "identity resync failed", "error", err)
		return
	}

	raw, err := json.Marshal(user)
	if err != nil {
		m.log.Warn(ctx, "identity resync failed", "error", err)
		return
	}
	if err := m.repo().Set(ctx, credentials.KeyUser, raw); err != nil {
		m.log.Warn(ctx, "failed to persist resynced identity", "error", err)
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
}

// ResyncAfter runs Resync once in the background after delay, unless ctx is
// done first. The delay keeps startup snappy while still converging on the
// server's view shortly after.
func (m *Manager) ResyncAfter(ctx context.Context, delay time.Duration) {
	go func() {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
			m.Resync(ctx)
		}
	}()
}

// Current returns a copy of the logged-in identity, or nil when logged out.
func (m *Manager) Current() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

func (m *Manager) notify(loggedIn bool) {
	m.mu.RLock()
	handlers := make([]func(bool), len(m.onChange))
	copy(handlers, m.onChange)
	m.mu.RUnlock()

	for _, fn := range handlers {
		fn(loggedIn)
	}
}
