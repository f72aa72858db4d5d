package repository

import (
	"strconv"
	"strings"
)

// idSequence hands out "<prefix><n>" ids per parent. A counter starts past the
// largest numeric suffix already present and never goes backwards.
type idSequence struct {
	prefix string
	next   map[string]int
}

func newIDSequence(prefix string) *idSequence {
	return &idSequence{prefix: prefix, next: make(map[string]int)}
}

// Next returns a fresh id for parent. existing lists the ids currently under it.
func (s *idSequence) Next(parent string, existing []string) string {
	n, ok := s.next[parent]
	if !ok {
		n = 1
	}
	for _, id := range existing {
		if v, found := strings.CutPrefix(id, s.prefix); found {
			if num, err := strconv.Atoi(v); err == nil && num >= n {
				n = num + 1
			}
		}
	}
	s.next[parent] = n + 1
	return s.prefix + strconv.Itoa(n)
}
