package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rhuss/brandsmith/pkg/secrets"
)

func TestGetMissing(t *testing.T) {
	s := New()
	_, err := s.Get(context.Background(), "GENERATION_API_KEY")
	if !errors.Is(err, secrets.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Set(ctx, "GENERATION_API_KEY", "sk-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "GENERATION_API_KEY")
	if err != nil || got != "sk-1" {
		t.Fatalf("Get = (%q, %v), want sk-1", got, err)
	}

	// Overwrite.
	if err := s.Set(ctx, "GENERATION_API_KEY", "sk-2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ = s.Get(ctx, "GENERATION_API_KEY")
	if got != "sk-2" {
		t.Errorf("Get after overwrite = %q, want sk-2", got)
	}
}

func TestEmptyValueIsStored(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Set(ctx, "EMPTY", "")

	got, err := s.Get(ctx, "EMPTY")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "" {
		t.Errorf("Get = %q, want empty", got)
	}
}

func TestNewWithValues(t *testing.T) {
	src := map[string]string{"A": "1"}
	s := NewWithValues(src)
	src["A"] = "changed"

	got, _ := s.Get(context.Background(), "A")
	if got != "1" {
		t.Errorf("store aliased the input map: got %q", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("KEY_%d", i%5)
			s.Set(ctx, name, fmt.Sprintf("v%d", i))
			s.Get(ctx, name)
		}(i)
	}
	wg.Wait()

	if err := s.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
}
