package token

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmarquezf/bazaar-backend/pkg/enums"
	apperrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
	"github.com/dmarquezf/bazaar-backend/pkg/redis"
)

// Identity is the principal resolved from an opaque session token.
type Identity struct {
	Kind enums.ActorKind
	ID   uuid.UUID
}

// kv is the subset of the redis client the store needs.
type kv interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AuthTokenKey(token string) string
}

// Store issues and resolves opaque session tokens kept in Redis. Tokens carry
// no claims; the value stored under the token key is "<kind>:<id>".
type Store struct {
	kv  kv
	ttl time.Duration
}

// NewStore builds a token store with the configured session TTL.
func NewStore(client *redis.Client, ttl time.Duration) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	return &Store{kv: client, ttl: ttl}, nil
}

// Issue mints a fresh token for the identity and stores it with the TTL.
func (s *Store) Issue(ctx context.Context, identity Identity) (string, error) {
	if !identity.Kind.IsValid() {
		return "", fmt.Errorf("invalid actor kind %q", identity.Kind)
	}
	if identity.ID == uuid.Nil {
		return "", fmt.Errorf("identity id is required")
	}

	tok := uuid.NewString()
	value := fmt.Sprintf("%s:%s", identity.Kind, identity.ID)
	if err := s.kv.Set(ctx, s.kv.AuthTokenKey(tok), value, s.ttl); err != nil {
		return "", apperrors.Wrap(apperrors.CodeDependency, err, "storing session token")
	}
	return tok, nil
}

// Resolve looks up the identity behind a token. Unknown or expired tokens
// surface as unauthorized.
func (s *Store) Resolve(ctx context.Context, tok string) (Identity, error) {
	if tok == "" {
		return Identity{}, apperrors.New(apperrors.CodeUnauthorized, "missing session token")
	}

	value, err := s.kv.Get(ctx, s.kv.AuthTokenKey(tok))
	if err != nil {
		if redis.IsNil(err) {
			return Identity{}, apperrors.New(apperrors.CodeUnauthorized, "session token not recognized")
		}
		return Identity{}, apperrors.Wrap(apperrors.CodeDependency, err, "resolving session token")
	}

	identity, err := parseIdentity(value)
	if err != nil {
		return Identity{}, apperrors.Wrap(apperrors.CodeInternal, err, "corrupt session record")
	}
	return identity, nil
}

// Revoke deletes the token. Revoking an unknown token is not an error.
func (s *Store) Revoke(ctx context.Context, tok string) error {
	if tok == "" {
		return nil
	}
	if err := s.kv.Del(ctx, s.kv.AuthTokenKey(tok)); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "revoking session token")
	}
	return nil
}

func parseIdentity(value string) (Identity, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return Identity{}, fmt.Errorf("malformed identity %q", value)
	}
	kind, err := enums.ParseActorKind(parts[0])
	if err != nil {
		return Identity{}, err
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return Identity{}, fmt.Errorf("parsing identity id: %w", err)
	}
	return Identity{Kind: kind, ID: id}, nil
}
