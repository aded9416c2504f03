package token

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmarquezf/bazaar-backend/pkg/enums"
	apperrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
)

type memoryKV struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *memoryKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.data[key] = value.(string)
	m.ttls[key] = ttl
	return nil
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *memoryKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryKV) AuthTokenKey(tok string) string {
	return "bazaar:auth:" + tok
}

func TestIssueResolveRevoke(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()
	store := &Store{kv: kv, ttl: 24 * time.Hour}

	identity := Identity{Kind: enums.ActorKindUser, ID: uuid.New()}
	tok, err := store.Issue(ctx, identity)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if tok == "" {
		t.Fatal("expected non-empty token")
	}
	if kv.ttls["bazaar:auth:"+tok] != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %v", kv.ttls["bazaar:auth:"+tok])
	}

	resolved, err := store.Resolve(ctx, tok)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved != identity {
		t.Fatalf("expected %+v, got %+v", identity, resolved)
	}

	if err := store.Revoke(ctx, tok); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if _, err := store.Resolve(ctx, tok); apperrors.CodeOf(err) != apperrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized after revoke, got %v", err)
	}
}

func TestResolveRejectsUnknownToken(t *testing.T) {
	store := &Store{kv: newMemoryKV(), ttl: time.Hour}

	if _, err := store.Resolve(context.Background(), "nope"); apperrors.CodeOf(err) != apperrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := store.Resolve(context.Background(), ""); apperrors.CodeOf(err) != apperrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for empty token, got %v", err)
	}
}

func TestIssueValidatesIdentity(t *testing.T) {
	store := &Store{kv: newMemoryKV(), ttl: time.Hour}

	if _, err := store.Issue(context.Background(), Identity{Kind: "ghost", ID: uuid.New()}); err == nil {
		t.Fatal("expected error for unknown actor kind")
	}
	if _, err := store.Issue(context.Background(), Identity{Kind: enums.ActorKindVendor}); err == nil {
		t.Fatal("expected error for nil id")
	}
}
