package services

import (
	"fmt"
	"strings"
)

// deriveID builds an id from the ASCII letters of name, lower-cased, adding a
// numeric suffix from 2 upwards while taken reports true. Names without
// letters get prefix+N, with N counting up from next.
func deriveID(name, prefix string, next int, taken func(string) bool) string {
	base := strings.ToLower(strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, name))
	if base == "" {
		for n := next; ; n++ {
			id := fmt.Sprintf("%s%d", prefix, n)
			if !taken(id) {
				return id
			}
		}
	}
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		id := fmt.Sprintf("%s%d", base, n)
		if !taken(id) {
			return id
		}
	}
}
