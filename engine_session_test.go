package tokit

import (
	"context"
	"errors"
	"testing"

	"github.com/tokit-dev/tokit/kv"
	"github.com/tokit-dev/tokit/session"
)

func TestAccountSession(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, nil)

	sess, err := e.AccountSession(ctx, "u1")
	if err != nil {
		t.Fatalf("account session: %v", err)
	}
	if sess.Type != session.TypeAccount {
		t.Fatalf("type = %q, want account", sess.Type)
	}

	sess.Set("nickname", "neo")
	if err := e.Sessions().Update(ctx, sess); err != nil {
		t.Fatalf("update: %v", err)
	}

	again, err := e.AccountSession(ctx, "u1")
	if err != nil {
		t.Fatalf("account session again: %v", err)
	}
	if again.GetString("nickname") != "neo" {
		t.Fatalf("nickname = %q, want neo", again.GetString("nickname"))
	}

	if _, err := e.AccountSession(ctx, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty identity err = %v", err)
	}
}

func TestAccountSessionSurvivesPartialLogout(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, nil)

	t1, _ := e.Login(ctx, "u1", WithDevice("web"))
	t2, _ := e.Login(ctx, "u1", WithDevice("app"))

	sess, err := e.AccountSession(ctx, "u1")
	if err != nil {
		t.Fatalf("account session: %v", err)
	}
	sess.Set("theme", "dark")
	if err := e.Sessions().Update(ctx, sess); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := e.Logout(ctx, t1); err != nil {
		t.Fatalf("logout t1: %v", err)
	}
	again, err := e.AccountSession(ctx, "u1")
	if err != nil {
		t.Fatalf("account session: %v", err)
	}
	if again.GetString("theme") != "dark" {
		t.Fatal("account session lost data on partial logout")
	}

	// The last logout destroys the session.
	if err := e.Logout(ctx, t2); err != nil {
		t.Fatalf("logout t2: %v", err)
	}
	key := e.Sessions().AccountKey(e.LoginType(), "u1")
	gone, err := e.Sessions().Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gone != nil {
		t.Fatal("account session survived the last logout")
	}
}

func TestTokenSession(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, nil)

	if _, err := e.TokenSession(ctx, "ghost"); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("ghost err = %v, want ErrNotLoggedIn", err)
	}

	token, _ := e.Login(ctx, "u1")
	sess, err := e.TokenSession(ctx, token)
	if err != nil {
		t.Fatalf("token session: %v", err)
	}
	if sess.Type != session.TypeToken {
		t.Fatalf("type = %q, want token", sess.Type)
	}

	// Clamped to the token's remaining hard TTL.
	ttl, err := e.Sessions().TTL(ctx, e.Sessions().TokenKey(token))
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 || ttl > 3600 {
		t.Fatalf("ttl = %d, want (0, 3600]", ttl)
	}

	// Destroyed with its login.
	if err := e.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	gone, err := e.Sessions().Get(ctx, e.Sessions().TokenKey(token))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gone != nil {
		t.Fatal("token session survived logout")
	}
}

func TestAnonAndCustomSessions(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, nil)

	anon, err := e.AnonSession(ctx, "visitor-42")
	if err != nil {
		t.Fatalf("anon session: %v", err)
	}
	if anon.Type != session.TypeAnon {
		t.Fatalf("type = %q, want anon", anon.Type)
	}

	custom, err := e.CustomSession(ctx, "flash-sale")
	if err != nil {
		t.Fatalf("custom session: %v", err)
	}
	if custom.Type != session.TypeCustom {
		t.Fatalf("type = %q, want custom", custom.Type)
	}

	if _, err := e.AnonSession(ctx, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty anon err = %v", err)
	}
	if _, err := e.CustomSession(ctx, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty custom err = %v", err)
	}
}

func TestVars(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, nil)

	if err := e.SetVar(ctx, "captcha:u1", "8251", 60); err != nil {
		t.Fatalf("set var: %v", err)
	}
	got, err := e.GetVar(ctx, "captcha:u1")
	if err != nil || got != "8251" {
		t.Fatalf("get var = %q, %v", got, err)
	}

	ttl, err := e.VarTTL(ctx, "captcha:u1")
	if err != nil {
		t.Fatalf("var ttl: %v", err)
	}
	if ttl <= 0 || ttl > 60 {
		t.Fatalf("ttl = %d, want (0, 60]", ttl)
	}

	if err := e.DeleteVar(ctx, "captcha:u1"); err != nil {
		t.Fatalf("delete var: %v", err)
	}
	if got, _ := e.GetVar(ctx, "captcha:u1"); got != "" {
		t.Fatalf("var survived delete: %q", got)
	}
	if ttl, _ := e.VarTTL(ctx, "captcha:u1"); ttl != kv.NotValueExpire {
		t.Fatalf("ttl = %d, want NotValueExpire", ttl)
	}

	if err := e.SetVar(ctx, "", "v", 60); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty key err = %v", err)
	}
}
