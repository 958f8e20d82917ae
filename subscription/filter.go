// Package subscription implements the OSC Receiver's delivery filter:
// a mutex-guarded pattern set (Subscribe/Unsubscribe/Accepts over a
// set, guarded by a single mutex) applied to subscription patterns.
package subscription

import (
	"strings"
	"sync"
)

const negativeToken = "(!?"

// Filter decides whether an inbound OSC address should be delivered
// to the sink. It has two modes: accept-all (the default, and the
// state the filter returns to whenever the pattern set empties out)
// or a subscribed set of patterns matched by the rules in Matches.
type Filter struct {
	mu        sync.Mutex
	acceptAll bool
	patterns  map[string]struct{}
}

// New constructs a Filter in accept-all mode.
func New() *Filter {
	return &Filter{
		acceptAll: true,
		patterns:  make(map[string]struct{}),
	}
}

// Subscribe disables accept-all and adds p to the pattern set.
func (f *Filter) Subscribe(p string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acceptAll = false
	f.patterns[p] = struct{}{}
}

// Unsubscribe removes p from the pattern set. If the set becomes
// empty, accept-all is re-enabled.
func (f *Filter) Unsubscribe(p string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.patterns, p)
	if len(f.patterns) == 0 {
		f.acceptAll = true
	}
}

// SubscribeAllPaths clears the pattern set and re-enables accept-all.
func (f *Filter) SubscribeAllPaths() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acceptAll = true
	f.patterns = make(map[string]struct{})
}

// Accepts reports whether address should be delivered: true whenever
// accept-all holds, or when any one subscribed pattern matches (OR
// across patterns — a negative pattern cannot exclude an address that
// a positive pattern also matches).
func (f *Filter) Accepts(address string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.acceptAll {
		return true
	}
	for p := range f.patterns {
		if Matches(p, address) {
			return true
		}
	}
	return false
}

// Matches implements the three-form pattern grammar:
//
//  1. Exact: pattern equals address.
//  2. Prefix wildcard: pattern ends with "*", matches any address
//     starting with the prefix before it.
//  3. Negative substring: pattern contains the literal token "(!?",
//     splitting it into a base prefix and an exclude substring (up to
//     the next ")"); matches addresses starting with the base prefix
//     that do NOT contain the exclude substring.
func Matches(pattern, address string) bool {
	if idx := strings.Index(pattern, negativeToken); idx >= 0 {
		base := pattern[:idx]
		rest := pattern[idx+len(negativeToken):]
		exclude := rest
		if closeIdx := strings.Index(rest, ")"); closeIdx >= 0 {
			exclude = rest[:closeIdx]
		}
		return strings.HasPrefix(address, base) && !strings.Contains(address, exclude)
	}
	if strings.HasSuffix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(address, prefix)
	}
	return pattern == address
}
