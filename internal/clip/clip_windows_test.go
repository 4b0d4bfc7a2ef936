//go:build windows

package clip

import (
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Each call must release the clipboard even when the goroutine yields
// between open and close, or a later open fails.
func TestWithClipboard_ReleasedAcrossGoroutines(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				_ = withClipboard(func() error {
					runtime.Gosched()
					return nil
				})
			}
		}()
	}
	wg.Wait()

	require.NoError(t, withClipboard(func() error { return nil }))
}

func TestWithClipboard_ClosesOnError(t *testing.T) {
	boom := errors.New("boom")
	assert.ErrorIs(t, withClipboard(func() error { return boom }), boom)
	assert.NoError(t, withClipboard(func() error { return nil }))
}
