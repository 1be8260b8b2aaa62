package tokit

import "context"

func (e *Engine) requireEvaluator() error {
	if e.evaluator == nil {
		return ErrNoPermissionProvider
	}
	return nil
}

// HasPermission reports whether identity owns a permission code matching
// required, honoring "*" wildcards in the owned codes.
func (e *Engine) HasPermission(ctx context.Context, identity, required string) (bool, error) {
	if err := e.requireEvaluator(); err != nil {
		return false, err
	}
	return e.evaluator.HasPermission(ctx, identity, required)
}

// HasPermissionAnd reports whether identity owns codes matching every
// required code.
func (e *Engine) HasPermissionAnd(ctx context.Context, identity string, required ...string) (bool, error) {
	if err := e.requireEvaluator(); err != nil {
		return false, err
	}
	return e.evaluator.HasPermissionAnd(ctx, identity, required...)
}

// HasPermissionOr reports whether identity owns a code matching at least
// one required code.
func (e *Engine) HasPermissionOr(ctx context.Context, identity string, required ...string) (bool, error) {
	if err := e.requireEvaluator(); err != nil {
		return false, err
	}
	return e.evaluator.HasPermissionOr(ctx, identity, required...)
}

// CheckPermission fails with [ErrNotPermission] when identity does not own
// a code matching required.
func (e *Engine) CheckPermission(ctx context.Context, identity, required string) error {
	ok, err := e.HasPermission(ctx, identity, required)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotPermission
	}
	return nil
}

// CheckPermissionAnd fails with [ErrNotPermission] unless identity owns
// codes matching every required code.
func (e *Engine) CheckPermissionAnd(ctx context.Context, identity string, required ...string) error {
	ok, err := e.HasPermissionAnd(ctx, identity, required...)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotPermission
	}
	return nil
}

// CheckPermissionOr fails with [ErrNotPermission] unless identity owns a
// code matching at least one required code.
func (e *Engine) CheckPermissionOr(ctx context.Context, identity string, required ...string) error {
	ok, err := e.HasPermissionOr(ctx, identity, required...)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotPermission
	}
	return nil
}

// HasRole reports whether identity holds a role matching required.
func (e *Engine) HasRole(ctx context.Context, identity, required string) (bool, error) {
	if err := e.requireEvaluator(); err != nil {
		return false, err
	}
	return e.evaluator.HasRole(ctx, identity, required)
}

// HasRoleAnd reports whether identity holds roles matching every required
// role.
func (e *Engine) HasRoleAnd(ctx context.Context, identity string, required ...string) (bool, error) {
	if err := e.requireEvaluator(); err != nil {
		return false, err
	}
	return e.evaluator.HasRoleAnd(ctx, identity, required...)
}

// HasRoleOr reports whether identity holds a role matching at least one
// required role.
func (e *Engine) HasRoleOr(ctx context.Context, identity string, required ...string) (bool, error) {
	if err := e.requireEvaluator(); err != nil {
		return false, err
	}
	return e.evaluator.HasRoleOr(ctx, identity, required...)
}

// CheckRole fails with [ErrNotRole] when identity does not hold a role
// matching required.
func (e *Engine) CheckRole(ctx context.Context, identity, required string) error {
	ok, err := e.HasRole(ctx, identity, required)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotRole
	}
	return nil
}

// CheckRoleAnd fails with [ErrNotRole] unless identity holds roles
// matching every required role.
func (e *Engine) CheckRoleAnd(ctx context.Context, identity string, required ...string) error {
	ok, err := e.HasRoleAnd(ctx, identity, required...)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotRole
	}
	return nil
}

// CheckRoleOr fails with [ErrNotRole] unless identity holds a role
// matching at least one required role.
func (e *Engine) CheckRoleOr(ctx context.Context, identity string, required ...string) error {
	ok, err := e.HasRoleOr(ctx, identity, required...)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotRole
	}
	return nil
}
