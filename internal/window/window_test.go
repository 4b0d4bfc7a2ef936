//go:build !windows

package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetTopmost_Unsupported(t *testing.T) {
	assert.ErrorIs(t, SetTopmost("clipcount", true), ErrUnsupported)
}

func TestMinimize_Unsupported(t *testing.T) {
	assert.ErrorIs(t, Minimize("clipcount"), ErrUnsupported)
}
