package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheHelper(client, "quiz:"), mr
}

type cachedQuiz struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	want := cachedQuiz{ID: 4, Title: "Concurrency Basics"}
	if err := helper.Set(ctx, "id:4", want, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got cachedQuiz
	if err := helper.Get(ctx, "id:4", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	var got cachedQuiz
	if err := helper.Get(ctx, "id:999", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Get() on miss error = %v, want ErrCacheNotFound", err)
	}
}

func TestNilClientDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(nil, "quiz:")

	if err := helper.Set(ctx, "id:1", cachedQuiz{ID: 1}, time.Minute); err != nil {
		t.Errorf("Set() with nil client error = %v, want nil", err)
	}
	var got cachedQuiz
	if err := helper.Get(ctx, "id:1", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get() with nil client error = %v, want ErrCacheNotAvailable", err)
	}
	if err := helper.Delete(ctx, "id:1"); err != nil {
		t.Errorf("Delete() with nil client error = %v, want nil", err)
	}
}

func TestCacheOrExecute(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	fetches := 0
	fetch := func() (interface{}, error) {
		fetches++
		return cachedQuiz{ID: 8, Title: "Interfaces"}, nil
	}

	var first cachedQuiz
	if err := helper.CacheOrExecute(ctx, "id:8", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute() error = %v", err)
	}
	var second cachedQuiz
	if err := helper.CacheOrExecute(ctx, "id:8", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute() second call error = %v", err)
	}

	if fetches != 1 {
		t.Errorf("fetch ran %d times, want 1", fetches)
	}
	if first != second {
		t.Errorf("cached value %+v differs from fetched %+v", second, first)
	}
}

func TestInvalidatePattern(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	for _, key := range []string{"course:1:list", "course:1:active", "course:2:list"} {
		if err := helper.Set(ctx, key, cachedQuiz{ID: 1}, time.Minute); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "course:1:*"); err != nil {
		t.Fatalf("InvalidatePattern() error = %v", err)
	}

	if ok, _ := helper.Exists(ctx, "course:1:list"); ok {
		t.Error("course:1:list survived invalidation")
	}
	if ok, _ := helper.Exists(ctx, "course:2:list"); !ok {
		t.Error("course:2:list was invalidated by unrelated pattern")
	}
}
