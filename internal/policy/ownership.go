package policy

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/ferremas-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
)

// Ownable is implemented by rows that belong to a single user.
type Ownable interface {
	OwnerID() uuid.UUID
}

// Actor is the authenticated caller as seen by services.
type Actor struct {
	UserID uuid.UUID
	Role   enums.Role
}

// IsAdmin reports whether the actor holds the Administrador role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.RoleAdministrador
}

// EnsureOwner returns a not-found error unless actorID owns resource. Foreign
// rows are reported as missing so their existence is not revealed.
func EnsureOwner(actorID uuid.UUID, resource Ownable, name string) error {
	if actorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if resource == nil || resource.OwnerID() != actorID {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage(name))
	}
	return nil
}

// EnsureSelfOrAdmin allows the call when the actor targets their own account
// or holds the Administrador role.
func EnsureSelfOrAdmin(actor Actor, targetID uuid.UUID) error {
	if actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if actor.UserID == targetID || actor.IsAdmin() {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "only the account owner or an administrador can do this")
}

func notFoundMessage(name string) string {
	if name == "" {
		return "resource not found"
	}
	return name + " not found"
}
