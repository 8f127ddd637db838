// Package credentials persists the client's session secrets and cached
// identity in a local key/value table so they survive restarts.
package credentials

import "context"

// Storage keys. The table never holds anything else.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// Repository is a string-keyed blob store.
//
// Contract:
//   - Get returns (nil, nil) when the key is absent.
//   - Set upserts.
//   - Delete of an absent key is not an error.
//   - Clear wipes every key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
