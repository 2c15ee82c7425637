package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/minsukoh/vesture-backend/pkg/errors"
)

// Identity is the minimal authenticated-user view handed to middleware and
// controllers.
type Identity struct {
	ID      uuid.UUID `json:"id"`
	LoginID string    `json:"login_id"`
	Name    string    `json:"name"`
}

// Directory resolves token subjects to live accounts. A missing or disabled
// account always surfaces as an authentication failure, never a plain not
// found, so callers cannot distinguish the two.
type Directory interface {
	Resolve(ctx context.Context, id uuid.UUID) (*Identity, error)
	ResolveLoginID(ctx context.Context, loginID string) (*Identity, error)
}

type directory struct {
	repo Repository
}

// NewDirectory builds the user directory over the given repository.
func NewDirectory(repo Repository) (Directory, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &directory{repo: repo}, nil
}

func (d *directory) Resolve(ctx context.Context, id uuid.UUID) (*Identity, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := d.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown account")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account disabled")
	}
	return &Identity{ID: user.ID, LoginID: user.LoginID, Name: user.Name}, nil
}

func (d *directory) ResolveLoginID(ctx context.Context, loginID string) (*Identity, error) {
	if loginID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login id required")
	}
	user, err := d.repo.FindByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown account")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account disabled")
	}
	return &Identity{ID: user.ID, LoginID: user.LoginID, Name: user.Name}, nil
}
