package cache

import (
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New(time.Minute)
	if _, ok := c.Get("missing"); ok {
		t.Error("unexpected hit for missing key")
	}

	c.Set("k", 42)
	v, ok := c.Get("k")
	if !ok || v.(int) != 42 {
		t.Errorf("Get = %v, %v", v, ok)
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("hit after delete")
	}
}

func TestLazyExpiry(t *testing.T) {
	c := New(time.Minute)
	c.SetWithTTL("short", "v", 5*time.Millisecond)
	if _, ok := c.Get("short"); !ok {
		t.Fatal("entry missing before TTL")
	}
	time.Sleep(10 * time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Error("entry alive past TTL")
	}
}

func TestClear(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if c.Len() != 2 {
		t.Errorf("Len = %d", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after clear = %d", c.Len())
	}
}

func TestKeyStableAndOrderIndependent(t *testing.T) {
	a := Key("search", KV("query", "acme"), KV("page", 1))
	b := Key("search", KV("page", 1), KV("query", "acme"))
	if a != b {
		t.Errorf("argument order changed the key: %q vs %q", a, b)
	}

	c := Key("search", KV("query", "acme"), KV("page", 2))
	if a == c {
		t.Error("different arguments produced the same key")
	}

	d := Key("detail", KV("query", "acme"), KV("page", 1))
	if a == d {
		t.Error("different operations produced the same key")
	}
}

func TestDefaultTTLFallback(t *testing.T) {
	c := New(0)
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultTTL)
	}
}
