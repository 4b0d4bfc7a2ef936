// Package measure turns clipboard content into the numbers and short
// previews shown in the history list.
package measure

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rivo/uniseg"
)

// PreviewLen is the number of user-perceived characters kept in a preview.
const PreviewLen = 15

// Ellipsis marks a truncated preview.
const Ellipsis = "…"

var sizeUnits = []string{"B", "KB", "MB", "GB"}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Graphemes returns the number of grapheme clusters in s, so a flag, a
// skin-toned emoji or a letter with combining marks each count as one.
func Graphemes(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Preview flattens newlines to spaces and keeps the first PreviewLen
// graphemes of s, appending Ellipsis when anything was cut.
func Preview(s string) string {
	s = newlines.Replace(s)

	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	n := 0
	for g.Next() {
		if n == PreviewLen {
			b.WriteString(Ellipsis)
			return b.String()
		}
		b.WriteString(g.Str())
		n++
	}
	return b.String()
}

// FormatSize renders n bytes base-1024 with one decimal place: 1536 → "1.5KB".
func FormatSize(n int64) string {
	size := float64(n)
	for _, unit := range sizeUnits {
		if size < 1024 {
			return fmt.Sprintf("%.1f%s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1fTB", size)
}

// TotalSize sums the sizes of paths. Directories are walked. Paths that
// vanished or cannot be read are skipped; they never abort the total.
func TotalSize(paths []string) int64 {
	var total int64
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			total += info.Size()
			continue
		}
		_ = filepath.WalkDir(p, func(_ string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if fi, err := d.Info(); err == nil && fi.Mode().IsRegular() {
				total += fi.Size()
			}
			return nil
		})
	}
	return total
}
