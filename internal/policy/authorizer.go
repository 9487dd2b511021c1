package policy

import (
	"context"

	"github.com/google/uuid"
	"github.com/upscpath/tracker-lambda/internal/config"
)

// RoleResolver looks up an account's current role. The role must come
// from the account table at evaluation time, never from token claims:
// a role can change between requests and a stale claim must not widen
// access.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID uuid.UUID) (string, error)
}

type RoleResolverFunc func(ctx context.Context, userID uuid.UUID) (string, error)

func (f RoleResolverFunc) RoleOf(ctx context.Context, userID uuid.UUID) (string, error) {
	return f(ctx, userID)
}

type Authorizer struct {
	roles RoleResolver
}

func NewAuthorizer(roles RoleResolver) *Authorizer {
	return &Authorizer{roles: roles}
}

// Authorize decides whether callerID may perform action on res.
// Absence of a matching allow rule is a denial.
func (a *Authorizer) Authorize(ctx context.Context, callerID uuid.UUID, action Action, res Resource) error {
	if callerID == uuid.Nil {
		return ErrPermissionDenied
	}

	switch res.Table {
	case TableAccounts:
		return a.authorizeAccount(ctx, callerID, action, res)
	case TableSubjects, TableModules:
		return a.authorizeActiveGated(ctx, callerID, action, res)
	case TableSections, TableQuestions:
		return a.authorizeContent(ctx, callerID, action)
	case TableSectionProgress, TableSubjectProgress:
		return a.authorizeProgress(ctx, callerID, action, res)
	default:
		return ErrPermissionDenied
	}
}

// Account rows: self-registration, self read/update; admins may read all
// rows but never write or delete someone else's.
func (a *Authorizer) authorizeAccount(ctx context.Context, callerID uuid.UUID, action Action, res Resource) error {
	if res.OwnerID == callerID {
		switch action {
		case ActionSelect, ActionInsert, ActionUpdate:
			return nil
		}
		return ErrPermissionDenied
	}
	if action == ActionSelect {
		return a.requireAdmin(ctx, callerID)
	}
	return ErrPermissionDenied
}

// Subject and module rows: active rows readable by anyone authenticated,
// everything else is admin-only.
func (a *Authorizer) authorizeActiveGated(ctx context.Context, callerID uuid.UUID, action Action, res Resource) error {
	if action == ActionSelect && res.Active {
		return nil
	}
	return a.requireAdmin(ctx, callerID)
}

// Section and question rows read without an active gate; mutations are
// admin-only.
func (a *Authorizer) authorizeContent(ctx context.Context, callerID uuid.UUID, action Action) error {
	if action == ActionSelect {
		return nil
	}
	return a.requireAdmin(ctx, callerID)
}

// Progress rows: full CRUD for the owner, read-only visibility for
// admins. Admins never write another account's progress.
func (a *Authorizer) authorizeProgress(ctx context.Context, callerID uuid.UUID, action Action, res Resource) error {
	if res.OwnerID == callerID {
		return nil
	}
	if action == ActionSelect {
		return a.requireAdmin(ctx, callerID)
	}
	return ErrPermissionDenied
}

func (a *Authorizer) requireAdmin(ctx context.Context, callerID uuid.UUID) error {
	admin, err := a.IsAdmin(ctx, callerID)
	if err != nil {
		return err
	}
	if !admin {
		return ErrPermissionDenied
	}
	return nil
}

// IsAdmin resolves the caller's current role, consulting the per-request
// cache when the role cache middleware installed one.
func (a *Authorizer) IsAdmin(ctx context.Context, callerID uuid.UUID) (bool, error) {
	role, err := a.roleOf(ctx, callerID)
	if err != nil {
		return false, err
	}
	return role == RoleAdmin, nil
}

func (a *Authorizer) roleOf(ctx context.Context, callerID uuid.UUID) (string, error) {
	if cache := roleCacheFrom(ctx); cache != nil {
		if role, ok := cache.get(callerID); ok {
			return role, nil
		}
		role, err := a.roles.RoleOf(ctx, callerID)
		if err != nil {
			config.WithContext(ctx).WithError(err).Error("Failed to resolve role for policy check")
			return "", ErrRoleLookupFailed
		}
		cache.put(callerID, role)
		return role, nil
	}

	role, err := a.roles.RoleOf(ctx, callerID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to resolve role for policy check")
		return "", ErrRoleLookupFailed
	}
	return role, nil
}
