package permission

import (
	"context"
	"errors"
	"testing"
)

type staticProvider struct {
	perms map[string][]string
	roles map[string][]string
	err   error
}

func (p *staticProvider) PermissionList(_ context.Context, identity, _ string) ([]string, error) {
	return p.perms[identity], p.err
}

func (p *staticProvider) RoleList(_ context.Context, identity, _ string) ([]string, error) {
	return p.roles[identity], p.err
}

func TestEvaluatorPermissions(t *testing.T) {
	ctx := context.Background()
	e := NewEvaluator(&staticProvider{
		perms: map[string][]string{
			"u1": {"user:*", "report.view"},
		},
	}, "login")

	ok, err := e.HasPermission(ctx, "u1", "user:delete")
	if err != nil || !ok {
		t.Fatalf("HasPermission = %v, %v", ok, err)
	}
	ok, err = e.HasPermission(ctx, "u1", "admin:grant")
	if err != nil || ok {
		t.Fatalf("HasPermission unowned = %v, %v", ok, err)
	}
	ok, err = e.HasPermission(ctx, "nobody", "user:get")
	if err != nil || ok {
		t.Fatalf("HasPermission unknown identity = %v, %v", ok, err)
	}

	ok, err = e.HasPermissionAnd(ctx, "u1", "user:get", "report.view")
	if err != nil || !ok {
		t.Fatalf("HasPermissionAnd = %v, %v", ok, err)
	}
	ok, err = e.HasPermissionAnd(ctx, "u1", "user:get", "admin:grant")
	if err != nil || ok {
		t.Fatalf("HasPermissionAnd partial = %v, %v", ok, err)
	}
	ok, err = e.HasPermissionAnd(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("HasPermissionAnd empty = %v, %v", ok, err)
	}

	ok, err = e.HasPermissionOr(ctx, "u1", "admin:grant", "report.view")
	if err != nil || !ok {
		t.Fatalf("HasPermissionOr = %v, %v", ok, err)
	}
	ok, err = e.HasPermissionOr(ctx, "u1", "admin:grant")
	if err != nil || ok {
		t.Fatalf("HasPermissionOr unowned = %v, %v", ok, err)
	}
}

func TestEvaluatorRoles(t *testing.T) {
	ctx := context.Background()
	e := NewEvaluator(&staticProvider{
		roles: map[string][]string{
			"u1": {"admin", "ops:*"},
		},
	}, "login")

	ok, err := e.HasRole(ctx, "u1", "admin")
	if err != nil || !ok {
		t.Fatalf("HasRole = %v, %v", ok, err)
	}
	ok, err = e.HasRoleAnd(ctx, "u1", "admin", "ops:deploy")
	if err != nil || !ok {
		t.Fatalf("HasRoleAnd = %v, %v", ok, err)
	}
	ok, err = e.HasRoleOr(ctx, "u1", "auditor", "admin")
	if err != nil || !ok {
		t.Fatalf("HasRoleOr = %v, %v", ok, err)
	}
	ok, err = e.HasRoleOr(ctx, "u1", "auditor")
	if err != nil || ok {
		t.Fatalf("HasRoleOr unheld = %v, %v", ok, err)
	}
}

func TestEvaluatorProviderError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("backend down")
	e := NewEvaluator(&staticProvider{err: boom}, "login")

	if _, err := e.HasPermission(ctx, "u1", "user:get"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped backend error", err)
	}
	if _, err := e.HasRoleAnd(ctx, "u1", "admin"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped backend error", err)
	}
}
