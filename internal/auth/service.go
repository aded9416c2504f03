package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmarquezf/bazaar-backend/pkg/db/models"
	"github.com/dmarquezf/bazaar-backend/pkg/enums"
	pkgerrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
	"github.com/dmarquezf/bazaar-backend/pkg/security"
	"github.com/dmarquezf/bazaar-backend/pkg/token"
)

const invalidCredentialsMessage = "invalid credentials"

// ConnectResponse carries the opaque session token handed back on login.
type ConnectResponse struct {
	Token string `json:"token"`
}

// Service defines the behavior needed by the auth controller.
type Service interface {
	Connect(ctx context.Context, username, password string) (*ConnectResponse, error)
	Disconnect(ctx context.Context, tok string) error
}

type userRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type vendorRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Vendor, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type tokenStore interface {
	Issue(ctx context.Context, identity token.Identity) (string, error)
	Revoke(ctx context.Context, tok string) error
}

type service struct {
	users   userRepository
	vendors vendorRepository
	tokens  tokenStore
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo   userRepository
	VendorRepo vendorRepository
	TokenStore tokenStore
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.VendorRepo == nil {
		return nil, fmt.Errorf("vendor repository is required")
	}
	if params.TokenStore == nil {
		return nil, fmt.Errorf("token store is required")
	}
	return &service{
		users:   params.UserRepo,
		vendors: params.VendorRepo,
		tokens:  params.TokenStore,
		now:     time.Now,
	}, nil
}

// Connect checks the credentials against vendors first, then users, and
// issues a session token for whichever matched.
func (s *service) Connect(ctx context.Context, username, password string) (*ConnectResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	vendor, err := s.vendors.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return s.connectAs(ctx, enums.ActorKindVendor, vendor.ID, vendor.PasswordHash, vendor.IsActive, password, s.vendors.UpdateLastLogin)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup vendor")
	}

	user, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return s.connectAs(ctx, enums.ActorKindUser, user.ID, user.PasswordHash, user.IsActive, password, s.users.UpdateLastLogin)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
}

// Disconnect revokes the session token. Unknown tokens disconnect cleanly.
func (s *service) Disconnect(ctx context.Context, tok string) error {
	return s.tokens.Revoke(ctx, tok)
}

func (s *service) connectAs(ctx context.Context, kind enums.ActorKind, id uuid.UUID, passwordHash string, isActive bool, password string, recordLogin func(context.Context, uuid.UUID, time.Time) error) (*ConnectResponse, error) {
	valid, err := security.VerifyPassword(password, passwordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !isActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if err := recordLogin(ctx, id, s.now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record login")
	}

	tok, err := s.tokens.Issue(ctx, token.Identity{Kind: kind, ID: id})
	if err != nil {
		return nil, err
	}
	return &ConnectResponse{Token: tok}, nil
}
