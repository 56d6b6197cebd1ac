package ristretto_test

import (
	"context"
	"testing"
	"time"

	"github.com/spendsum/spendsum/internal/adapter/ristretto"
)

func newCache(t *testing.T) *ristretto.Cache {
	t.Helper()
	c, err := ristretto.New(1 << 20)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestSetAndGet(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "usage:anthropic:deadbeef", []byte(`{"provider":"anthropic"}`), time.Minute); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	val, found, err := c.Get(ctx, "usage:anthropic:deadbeef")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected hit after Set")
	}
	if string(val) != `{"provider":"anthropic"}` {
		t.Fatalf("unexpected value: %s", val)
	}
}

func TestGetMiss(t *testing.T) {
	c := newCache(t)

	_, found, err := c.Get(context.Background(), "usage:openai:missing")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected miss")
	}
}

func TestDelete(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "usage:groq:gone", []byte("v"), time.Minute)
	c.Wait()

	if err := c.Delete(ctx, "usage:groq:gone"); err != nil {
		t.Fatal(err)
	}
	_, found, _ := c.Get(ctx, "usage:groq:gone")
	if found {
		t.Fatal("expected miss after Delete")
	}
}

func TestOverwrite(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "usage:mistral:k", []byte("v1"), time.Minute)
	c.Wait()
	_ = c.Set(ctx, "usage:mistral:k", []byte("v2"), time.Minute)
	c.Wait()

	val, found, _ := c.Get(ctx, "usage:mistral:k")
	if !found || string(val) != "v2" {
		t.Fatalf("expected v2 after overwrite, got %q (found=%v)", val, found)
	}
}

func TestTTLExpiry(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "usage:together:short", []byte("v"), 50*time.Millisecond)
	c.Wait()

	time.Sleep(150 * time.Millisecond)
	_, found, _ := c.Get(ctx, "usage:together:short")
	if found {
		t.Fatal("expected entry to expire")
	}
}
