// Package version parses and compares the version of the external player.
package version

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// MinMPV is the oldest mpv whose JSON IPC has request ids, the playback-restart
// event and a writable chapter-list.
const MinMPV = "0.33.0"

var mpvVersionRegex = regexp.MustCompile(`mpv v?(\d+\.\d+(?:\.\d+)?)`)

// Compare performs a semantic comparison between two version strings.
// Returns 1 if a > b, -1 if a < b, and 0 if equal. A missing patch counts as 0,
// and pre-release or build suffixes are ignored.
func Compare(a, b string) (int, error) {
	type version struct {
		major, minor, patch int
	}

	parse := func(s string) (version, error) {
		var v version
		s = strings.TrimPrefix(s, "v")
		s, _, _ = strings.Cut(s, "-")
		s, _, _ = strings.Cut(s, "+")

		if strings.Count(s, ".") == 1 {
			s += ".0"
		}

		_, err := fmt.Sscanf(s, "%d.%d.%d", &v.major, &v.minor, &v.patch)
		if err != nil {
			return v, fmt.Errorf("parse version %q: %w", s, err)
		}
		return v, nil
	}

	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for _, pair := range []lo.Tuple2[int, int]{
		{A: av.major, B: bv.major},
		{A: av.minor, B: bv.minor},
		{A: av.patch, B: bv.patch},
	} {
		if pair.A > pair.B {
			return 1, nil
		}

		if pair.A < pair.B {
			return -1, nil
		}
	}

	return 0, nil
}

// ParseMPV extracts the version number from the first line of `mpv --version`,
// e.g. "mpv 0.37.0 Copyright © 2000-2023 mpv/MPlayer/mplayer2 projects".
func ParseMPV(output string) (string, error) {
	match := mpvVersionRegex.FindStringSubmatch(output)
	if match == nil {
		return "", fmt.Errorf("no mpv version in %q", strings.SplitN(output, "\n", 2)[0])
	}
	return match[1], nil
}

// SupportedMPV reports whether the mpv version v is new enough. Development builds
// without a parsable number are given the benefit of the doubt.
func SupportedMPV(v string) bool {
	cmp, err := Compare(v, MinMPV)
	return err != nil || cmp >= 0
}
