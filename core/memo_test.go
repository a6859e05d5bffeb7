package core

import "testing"

func TestMemoDirtyTracking(t *testing.T) {
	m := newMemo()
	if m.Dirty() {
		t.Fatalf("fresh memo must be clean")
	}
	m.Set("step", 7)
	if !m.Dirty() {
		t.Fatalf("Set must mark the memo dirty")
	}
	m.markClean()
	if m.Dirty() {
		t.Fatalf("markClean must clear the dirty flag")
	}
	m.Delete("missing")
	if m.Dirty() {
		t.Fatalf("deleting an absent key must not mark dirty")
	}
	m.Delete("step")
	if !m.Dirty() {
		t.Fatalf("deleting an existing key must mark dirty")
	}
}

func TestMemoLoadReplacesContent(t *testing.T) {
	m := newMemo()
	m.Set("old", 1)
	m.load(map[string]Value{"new": 2.0})
	if m.Dirty() {
		t.Fatalf("load must mark the memo clean")
	}
	if m.Has("old") {
		t.Fatalf("load must replace existing content")
	}
	v, ok := m.Get("new")
	if !ok || v != 2.0 {
		t.Fatalf("expected loaded value 2, got %v (%v)", v, ok)
	}
}

func TestMemoPrefixIsolation(t *testing.T) {
	m := newMemo()
	a := m.WithPrefix("MonitorA")
	b := m.WithPrefix("MonitorB")

	a.Set("best", 0.5)
	b.Set("best", 0.9)

	if v, _ := a.Get("best"); v != 0.5 {
		t.Fatalf("prefix A sees %v", v)
	}
	if v, _ := b.Get("best"); v != 0.9 {
		t.Fatalf("prefix B sees %v", v)
	}
	if _, ok := m.Get("best"); ok {
		t.Fatalf("unprefixed view must not see prefixed keys under the bare name")
	}
	if v, _ := m.Get("MonitorA.best"); v != 0.5 {
		t.Fatalf("prefixed keys live under their joined name")
	}

	// views share the dirty flag with the root memo
	m.markClean()
	a.Set("best", 0.4)
	if !m.Dirty() {
		t.Fatalf("mutating a view must dirty the shared memo")
	}

	keys := a.Keys()
	if len(keys) != 1 || keys[0] != "best" {
		t.Fatalf("unexpected view keys %v", keys)
	}
}

func TestMemoNestedPrefixes(t *testing.T) {
	m := newMemo()
	inner := m.WithPrefix("outer").WithPrefix("inner")
	inner.Set("k", 1)
	if v, _ := m.Get("outer.inner.k"); v != 1 {
		t.Fatalf("nested prefixes must compose with '.'")
	}
}
