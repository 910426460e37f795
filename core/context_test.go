package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuppressHeader(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	assert.True(t, shouldSuppressHeader(WithSuppressHeader(ctx)))

	// A foreign value under the same key type is ignored
	ctx = context.WithValue(ctx, suppressHeaderKey, "yes")
	assert.False(t, shouldSuppressHeader(ctx))
}

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	const numGoroutines = 50
	var wg sync.WaitGroup
	for range numGoroutines {
		wg.Go(func() {
			assert.True(t, shouldSuppressHeader(ctx))
		})
	}
	wg.Wait()
}
