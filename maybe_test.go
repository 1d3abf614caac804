package fuse

import "testing"

func TestMaybe(t *testing.T) {
	var zero Maybe[int]
	if zero.IsSet() {
		t.Error("expected zero Maybe to be unset")
	}
	if v := zero.Or(4); v != 4 {
		t.Errorf("expected fallback 4, got %d", v)
	}
	if zero.String() != "unset" {
		t.Errorf("expected unset, got %q", zero.String())
	}

	m := Some(0)
	v, ok := m.Get()
	if !ok || v != 0 {
		t.Errorf("expected (0, true), got (%d, %v)", v, ok)
	}
	if m.Or(4) != 0 {
		t.Error("expected a held zero value to win over the fallback")
	}
	if m.String() != "0" {
		t.Errorf("expected 0, got %q", m.String())
	}

	if None[string]().IsSet() {
		t.Error("expected None to be unset")
	}
}

func TestMaybe_Or(t *testing.T) {
	if got := None[int]().or(Some(2)); got.Or(-1) != 2 {
		t.Errorf("expected 2, got %v", got)
	}
	if got := Some(1).or(Some(2)); got.Or(-1) != 1 {
		t.Errorf("expected 1, got %v", got)
	}
	if got := None[int]().or(None[int]()); got.IsSet() {
		t.Errorf("expected unset, got %v", got)
	}
}
