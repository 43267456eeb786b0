package service

import (
	"strings"
	"sync"
)

// ContainsBannedWord reports whether text contains any of the given terms.
// Matching is a case-insensitive substring check.
func ContainsBannedWord(text string, words []string) bool {
	lowered := strings.ToLower(text)
	for _, w := range words {
		if w == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// Wordlist holds the banned terms currently in effect. The slice is replaced
// wholesale on refresh, never mutated in place.
type Wordlist struct {
	mu    sync.RWMutex
	words []string
}

func NewWordlist(words []string) *Wordlist {
	wl := &Wordlist{}
	wl.Replace(words)
	return wl
}

func (wl *Wordlist) Replace(words []string) {
	copied := make([]string, len(words))
	copy(copied, words)
	wl.mu.Lock()
	wl.words = copied
	wl.mu.Unlock()
}

func (wl *Wordlist) Snapshot() []string {
	wl.mu.RLock()
	defer wl.mu.RUnlock()
	return wl.words
}
