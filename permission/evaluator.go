package permission

import "context"

// DataProvider supplies the permission and role codes an identity owns.
// Implementations typically query the application's own user store; the
// engine never caches or interprets the returned codes beyond matching.
type DataProvider interface {
	PermissionList(ctx context.Context, identity, loginType string) ([]string, error)
	RoleList(ctx context.Context, identity, loginType string) ([]string, error)
}

// Evaluator answers has-permission / has-role questions for one login type
// by combining a [DataProvider] with wildcard matching.
//
// Evaluator instances are intended to be configured during initialization
// and then treated as immutable unless documented otherwise.
type Evaluator struct {
	provider  DataProvider
	loginType string
}

// NewEvaluator creates an evaluator bound to loginType.
func NewEvaluator(provider DataProvider, loginType string) *Evaluator {
	return &Evaluator{provider: provider, loginType: loginType}
}

// HasPermission reports whether identity owns a code matching required.
func (e *Evaluator) HasPermission(ctx context.Context, identity, required string) (bool, error) {
	owned, err := e.provider.PermissionList(ctx, identity, e.loginType)
	if err != nil {
		return false, err
	}
	return ListMatches(owned, required), nil
}

// HasPermissionAnd reports whether identity owns codes matching every
// required code. An empty requirement list is satisfied.
func (e *Evaluator) HasPermissionAnd(ctx context.Context, identity string, required ...string) (bool, error) {
	owned, err := e.provider.PermissionList(ctx, identity, e.loginType)
	if err != nil {
		return false, err
	}
	for _, code := range required {
		if !ListMatches(owned, code) {
			return false, nil
		}
	}
	return true, nil
}

// HasPermissionOr reports whether identity owns a code matching at least
// one required code.
func (e *Evaluator) HasPermissionOr(ctx context.Context, identity string, required ...string) (bool, error) {
	owned, err := e.provider.PermissionList(ctx, identity, e.loginType)
	if err != nil {
		return false, err
	}
	for _, code := range required {
		if ListMatches(owned, code) {
			return true, nil
		}
	}
	return false, nil
}

// HasRole reports whether identity holds a role matching required.
func (e *Evaluator) HasRole(ctx context.Context, identity, required string) (bool, error) {
	owned, err := e.provider.RoleList(ctx, identity, e.loginType)
	if err != nil {
		return false, err
	}
	return ListMatches(owned, required), nil
}

// HasRoleAnd reports whether identity holds roles matching every required
// role.
func (e *Evaluator) HasRoleAnd(ctx context.Context, identity string, required ...string) (bool, error) {
	owned, err := e.provider.RoleList(ctx, identity, e.loginType)
	if err != nil {
		return false, err
	}
	for _, code := range required {
		if !ListMatches(owned, code) {
			return false, nil
		}
	}
	return true, nil
}

// HasRoleOr reports whether identity holds a role matching at least one
// required role.
func (e *Evaluator) HasRoleOr(ctx context.Context, identity string, required ...string) (bool, error) {
	owned, err := e.provider.RoleList(ctx, identity, e.loginType)
	if err != nil {
		return false, err
	}
	for _, code := range required {
		if ListMatches(owned, code) {
			return true, nil
		}
	}
	return false, nil
}
