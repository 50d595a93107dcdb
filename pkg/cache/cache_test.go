package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get on empty cache = (ok %v, err %v), want a clean miss", ok, err)
	}

	want := []byte("<svg/>")
	if err := c.Set(ctx, "k", want, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get = (ok %v, err %v), want a hit", ok, err)
	}
	if string(got) != string(want) {
		t.Errorf("Get = %q, want %q", got, want)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Errorf("key survived deletion")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Errorf("expired entry still served (ok %v, err %v)", ok, err)
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Errorf("null cache returned a hit (ok %v, err %v)", ok, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestArtifactKey(t *testing.T) {
	a := ArtifactKey([]byte("instance"), "svg", 1, 0.01)
	b := ArtifactKey([]byte("instance"), "svg", 1, 0.01)
	if a != b {
		t.Errorf("identical requests produced different keys")
	}

	variants := []string{
		ArtifactKey([]byte("other"), "svg", 1, 0.01),
		ArtifactKey([]byte("instance"), "png", 1, 0.01),
		ArtifactKey([]byte("instance"), "svg", 0.5, 0.01),
		ArtifactKey([]byte("instance"), "svg", 1, 0.001),
	}
	for i, v := range variants {
		if v == a {
			t.Errorf("variant %d collided with the base key", i)
		}
	}
}
