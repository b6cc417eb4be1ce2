package browser

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sibuxiangx/tweet-crawler/internal/adapters/crawler"
)

// testPool simulates Pool's tab semaphore without starting Chrome.
type testPool struct {
	tabSem chan struct{}
}

func newTestPool(maxTabs int) *testPool {
	return &testPool{tabSem: make(chan struct{}, maxTabs)}
}

// WithPage mirrors Pool.WithPage's acquire/release discipline.
func (p *testPool) WithPage(fn func(page crawler.Page) error) error {
	p.tabSem <- struct{}{}
	defer func() { <-p.tabSem }()

	return fn(nil)
}

func TestWithPage_Backpressure_OnlyOneAtATime(t *testing.T) {
	// Arrange
	pool := newTestPool(1)

	var concurrentCount int32
	var maxConcurrent int32
	var wg sync.WaitGroup

	// Act - launch 5 concurrent crawls
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pool.WithPage(func(crawler.Page) error {
				current := atomic.AddInt32(&concurrentCount, 1)
				for {
					max := atomic.LoadInt32(&maxConcurrent)
					if current <= max || atomic.CompareAndSwapInt32(&maxConcurrent, max, current) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				atomic.AddInt32(&concurrentCount, -1)
				return nil
			})
		}()
	}

	wg.Wait()

	// Assert
	if maxConcurrent != 1 {
		t.Errorf("maxConcurrent: got %d, want 1 (backpressure violated)", maxConcurrent)
	}
}

func TestWithPage_SemaphoreReleased_OnError(t *testing.T) {
	// Arrange
	pool := newTestPool(1)
	expectedErr := errors.New("intentional error")

	// Act - first crawl fails
	err := pool.WithPage(func(crawler.Page) error {
		return expectedErr
	})

	// Assert
	if !errors.Is(err, expectedErr) {
		t.Errorf("error: got %v, want %v", err, expectedErr)
	}

	// Act - second crawl should not block
	done := make(chan bool, 1)
	go func() {
		_ = pool.WithPage(func(crawler.Page) error { return nil })
		done <- true
	}()

	// Assert
	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Error("second crawl blocked - semaphore was not released after error")
	}
}

func TestWithPage_SemaphoreReleased_OnPanic(t *testing.T) {
	// Arrange
	pool := newTestPool(1)

	// Act - crawl panics
	func() {
		defer func() { _ = recover() }()
		_ = pool.WithPage(func(crawler.Page) error {
			panic("crawl panicked")
		})
	}()

	// Assert - semaphore must still be free
	done := make(chan bool, 1)
	go func() {
		_ = pool.WithPage(func(crawler.Page) error { return nil })
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Error("crawl blocked - semaphore was not released after panic")
	}
}
