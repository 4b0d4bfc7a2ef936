package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// walk yields hwnds in order, as FindWindowEx does for a fixed title.
func walk(hwnds ...uintptr) func(uintptr) uintptr {
	return func(after uintptr) uintptr {
		if after == 0 && len(hwnds) > 0 {
			return hwnds[0]
		}
		for i, h := range hwnds {
			if h == after && i+1 < len(hwnds) {
				return hwnds[i+1]
			}
		}
		return 0
	}
}

func TestFirstOwned(t *testing.T) {
	owners := map[uintptr]uint32{10: 900, 11: 42, 12: 42}
	owner := func(h uintptr) uint32 { return owners[h] }

	tests := []struct {
		name  string
		hwnds []uintptr
		want  uintptr
	}{
		{"skips a same-titled window of another process", []uintptr{10, 11}, 11},
		{"first of ours wins", []uintptr{12, 11}, 12},
		{"only foreign windows", []uintptr{10}, 0},
		{"no windows", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstOwned(42, walk(tt.hwnds...), owner))
		})
	}
}
