package tokit

import (
	"context"
	"errors"
	"testing"

	"github.com/tokit-dev/tokit/kv"
)

func TestOpenSafeRequiresLogin(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, nil)

	err := e.OpenSafe(ctx, "ghost", "pay", 120)
	if !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("err = %v, want ErrNotLoggedIn", err)
	}
}

func TestSafeLifecycle(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, nil)

	token, err := e.Login(ctx, "u1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// No safe window open yet.
	if err := e.CheckSafe(ctx, token, "pay"); !errors.Is(err, ErrNotSafe) {
		t.Fatalf("err = %v, want ErrNotSafe", err)
	}
	if CodeOf(ErrNotSafe) != 11071 {
		t.Fatalf("code = %d, want 11071", CodeOf(ErrNotSafe))
	}

	if err := e.OpenSafe(ctx, token, "pay", 120); err != nil {
		t.Fatalf("open safe: %v", err)
	}
	ok, err := e.IsSafe(ctx, token, "pay")
	if err != nil || !ok {
		t.Fatalf("is safe = %v, %v", ok, err)
	}
	if err := e.CheckSafe(ctx, token, "pay"); err != nil {
		t.Fatalf("check safe: %v", err)
	}

	// Scoped per service.
	if ok, _ := e.IsSafe(ctx, token, "delete-account"); ok {
		t.Fatal("safe window leaked across services")
	}

	ttl, err := e.SafeTime(ctx, token, "pay")
	if err != nil {
		t.Fatalf("safe time: %v", err)
	}
	if ttl <= 0 || ttl > 120 {
		t.Fatalf("ttl = %d, want (0, 120]", ttl)
	}

	if err := e.CloseSafe(ctx, token, "pay"); err != nil {
		t.Fatalf("close safe: %v", err)
	}
	if ok, _ := e.IsSafe(ctx, token, "pay"); ok {
		t.Fatal("safe window survived close")
	}
	if ttl, _ := e.SafeTime(ctx, token, "pay"); ttl != kv.NotValueExpire {
		t.Fatalf("ttl after close = %d, want NotValueExpire", ttl)
	}

	// Closing what is not open is a no-op.
	if err := e.CloseSafe(ctx, token, "pay"); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestSafeDiesWithLogin(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, nil)

	token, err := e.Login(ctx, "u1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := e.OpenSafe(ctx, token, "", 120); err != nil {
		t.Fatalf("open safe: %v", err)
	}
	if err := e.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	// A token that is not logged in is never safe.
	if ok, _ := e.IsSafe(ctx, token, ""); ok {
		t.Fatal("safe window outlived the login")
	}
}

func TestOpenSafeInvalidTTL(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, nil)

	token, _ := e.Login(ctx, "u1")
	if err := e.OpenSafe(ctx, token, "pay", 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
