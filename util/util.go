// Package util provides a collection of domain-agnostic utility functions and cross-platform helpers.
package util

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/term"
)

var (
	invalidFilename  = regexp.MustCompile(`[\\/<>:;"'|?!*{}#%&^+,~\s]`)
	collapseFilename = regexp.MustCompile(`__+`)
	trimFilename     = regexp.MustCompile(`^[_\-.]+|[_\-.]+$`)
)

// SanitizeFilename normalizes a string into a safe, cross-platform filesystem-compliant filename.
func SanitizeFilename(filename string) string {
	filename = invalidFilename.ReplaceAllString(filename, "_")
	filename = collapseFilename.ReplaceAllString(filename, "_")
	return trimFilename.ReplaceAllString(filename, "")
}

// Quantify returns a pluralized string representation of a count and its associated labels.
func Quantify(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// Capitalize transforms the first rune of a string to its uppercase equivalent.
func Capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// TerminalSize retrieves the current character dimensions of the terminal window.
func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// TerminalWidth returns the terminal width, or fallback when stdout is not a terminal.
func TerminalWidth(fallback int) int {
	if w, _, err := TerminalSize(); err == nil && w > 0 {
		return w
	}
	return fallback
}

// FileStem extracts the base filename from a path, excluding all file extensions.
func FileStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// FormatSeconds renders a media position as m:ss.t, or h:mm:ss.t past an hour.
func FormatSeconds(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}

	tenths := int64(math.Round(seconds * 10))
	h := tenths / 36000
	m := tenths / 600 % 60
	s := tenths / 10 % 60
	f := tenths % 10

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%d", h, m, s, f)
	}
	return fmt.Sprintf("%d:%02d.%d", m, s, f)
}

// Ignore executes a function and explicitly discards its error return value.
func Ignore(f func() error) {
	_ = f()
}

// Max returns the maximum value among arguments.
func Max[T constraints.Ordered](items ...T) (max T) {
	if len(items) == 0 {
		return
	}
	max = items[0]
	for _, item := range items[1:] {
		if item > max {
			max = item
		}
	}
	return
}

// Min returns the minimum value among arguments.
func Min[T constraints.Ordered](items ...T) (min T) {
	if len(items) == 0 {
		return
	}
	min = items[0]
	for _, item := range items[1:] {
		if item < min {
			min = item
		}
	}
	return
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return Min(Max(v, lo), hi)
}
