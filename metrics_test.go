package tokit

import (
	"context"
	"testing"
)

func TestMetricsCounting(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, func(c *Config) {
		c.IsConcurrent = false
	})

	t1, err := e.Login(ctx, "u1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	t2, err := e.Login(ctx, "u1")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if _, err := e.LoginID(ctx, t2); err != nil {
		t.Fatalf("check: %v", err)
	}
	if _, err := e.LoginID(ctx, t1); err == nil {
		t.Fatal("replaced token passed the check")
	}
	if err := e.Logout(ctx, t2); err != nil {
		t.Fatalf("logout: %v", err)
	}

	snap := e.Metrics().Snapshot()
	if snap.Logins != 2 {
		t.Errorf("logins = %d, want 2", snap.Logins)
	}
	if snap.Replacements != 1 {
		t.Errorf("replacements = %d, want 1", snap.Replacements)
	}
	if snap.Logouts != 1 {
		t.Errorf("logouts = %d, want 1", snap.Logouts)
	}
	if snap.CheckHits != 1 {
		t.Errorf("check hits = %d, want 1", snap.CheckHits)
	}
	if snap.CheckMisses != 1 {
		t.Errorf("check misses = %d, want 1", snap.CheckMisses)
	}
	if snap.SessionsCreated != 1 {
		t.Errorf("sessions created = %d, want 1", snap.SessionsCreated)
	}
}

func TestMetricsDisabledIsSilent(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.DataRefreshPeriod = 0
	e, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })

	if _, err := e.Login(ctx, "u1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	snap := e.Metrics().Snapshot()
	if snap.Logins != 0 || snap.SessionsCreated != 0 {
		t.Fatalf("disabled metrics counted: %+v", snap)
	}
}
