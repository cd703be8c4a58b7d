package cache

import (
	"errors"
	"testing"
	"time"
)

func TestDisabledCacheReportsUnavailable(t *testing.T) {
	rdb = nil

	if Available() {
		t.Fatal("want Available false with no client")
	}
	if err := Set("k", "v", time.Minute); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Set - want ErrUnavailable, got: %v", err)
	}
	if _, err := Get("k"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Get - want ErrUnavailable, got: %v", err)
	}
	if err := Delete("k"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Delete - want ErrUnavailable, got: %v", err)
	}
}
