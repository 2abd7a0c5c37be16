package state

import (
	"testing"
	"time"
)

func TestMemoryManagerStateAndTemp(t *testing.T) {
	m := NewMemoryManager()

	if m.GetState(1) != StateIdle {
		t.Fatalf("fresh user should be idle")
	}
	if m.InProgress(1) {
		t.Fatalf("fresh user should not be in progress")
	}

	m.SetState(1, State("order:day"))
	if !m.InProgress(1) {
		t.Fatalf("expected in progress after SetState")
	}

	m.SetTemp(1, "name", "Иван")
	if v, ok := m.GetTemp(1, "name"); !ok || v != "Иван" {
		t.Fatalf("GetTemp = %q, %v", v, ok)
	}
	if _, ok := m.GetTemp(2, "name"); ok {
		t.Fatalf("temp must be per user")
	}

	m.ClearTemp(1, "name")
	if _, ok := m.GetTemp(1, "name"); ok {
		t.Fatalf("ClearTemp did not remove value")
	}

	m.Clear(1)
	if m.GetState(1) != StateIdle {
		t.Fatalf("Clear did not reset state")
	}
}

func TestMemoryManagerGetSnapshot(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(7, State("reg:name"))
	m.SetTemp(7, "phone", "+79991234567")

	snap := m.Get(7)
	snap.Temp["phone"] = "mutated"

	if v, _ := m.GetTemp(7, "phone"); v != "+79991234567" {
		t.Fatalf("snapshot mutation leaked into manager: %q", v)
	}
}

func TestExpireIfIdle(t *testing.T) {
	m := NewMemoryManager()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := 10 * time.Minute

	// Unknown user: nothing to expire.
	if m.ExpireIfIdle(1, now, ttl) {
		t.Fatalf("unknown user must not expire")
	}

	// Idle session with old activity: no dialog to reset, no notice.
	m.Touch(2, now.Add(-time.Hour))
	if m.ExpireIfIdle(2, now, ttl) {
		t.Fatalf("idle session must not expire")
	}

	// Active dialog within ttl: kept.
	m.SetState(3, State("order:time"))
	m.Touch(3, now.Add(-ttl))
	if m.ExpireIfIdle(3, now, ttl) {
		t.Fatalf("activity exactly at ttl boundary must be kept")
	}

	// Active dialog past ttl: reset with collected data dropped.
	m.SetState(4, State("order:time"))
	m.SetTemp(4, "chosen_day", "Сегодня")
	m.Touch(4, now.Add(-ttl-time.Second))
	if !m.ExpireIfIdle(4, now, ttl) {
		t.Fatalf("stale dialog must expire")
	}
	if m.GetState(4) != StateIdle {
		t.Fatalf("expired session must return to idle")
	}
	if _, ok := m.GetTemp(4, "chosen_day"); ok {
		t.Fatalf("expired session must drop collected data")
	}

	// A second check does not fire again.
	if m.ExpireIfIdle(4, now, ttl) {
		t.Fatalf("already-reset session must not expire twice")
	}
}

func TestExpireIfIdleZeroTTL(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(1, State("dm:text"))
	m.Touch(1, time.Now().Add(-time.Hour))
	if m.ExpireIfIdle(1, time.Now(), 0) {
		t.Fatalf("zero ttl disables expiry")
	}
}
