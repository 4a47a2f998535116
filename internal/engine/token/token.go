// Package token tracks the live token markers and lays them out over the terrain.
package token

import (
	"cmp"
	"slices"
)

// GroupName is the token name used for the character group position.
const GroupName = "@"

// Token is one marker announced by the host.
// X and Y are map pixels; Z is the facing angle in radians.
type Token struct {
	Name  string
	Map   string
	X, Y  float64
	Z     float64
	Valid bool
}

// Key identifies a token within the live set.
type Key struct {
	Map  string
	Name string
}

// Key returns the set key for this token.
func (t Token) Key() Key {
	return Key{Map: t.Map, Name: t.Name}
}

// Set is the live token set, keyed by (map, name).
type Set struct {
	tokens map[Key]Token
}

// NewSet creates an empty token set.
func NewSet() *Set {
	return &Set{tokens: make(map[Key]Token)}
}

// Apply adds or updates a valid token and removes an invalid one.
// Returns true when the set changed.
func (s *Set) Apply(t Token) bool {
	if !t.Valid {
		return s.Remove(t.Map, t.Name)
	}
	old, ok := s.tokens[t.Key()]
	if ok && old == t {
		return false
	}
	s.tokens[t.Key()] = t
	return true
}

// Remove retracts a token. Returns true when it was present.
func (s *Set) Remove(mapID, name string) bool {
	k := Key{Map: mapID, Name: name}
	if _, ok := s.tokens[k]; !ok {
		return false
	}
	delete(s.tokens, k)
	return true
}

// Get returns a token by map and name.
func (s *Set) Get(mapID, name string) (Token, bool) {
	t, ok := s.tokens[Key{Map: mapID, Name: name}]
	return t, ok
}

// Clear removes every token.
func (s *Set) Clear() {
	clear(s.tokens)
}

// Count returns the number of live tokens.
func (s *Set) Count() int {
	return len(s.tokens)
}

// OnMap returns the tokens on one map, sorted by name.
func (s *Set) OnMap(mapID string) []Token {
	result := make([]Token, 0)
	for _, t := range s.tokens {
		if t.Map == mapID {
			result = append(result, t)
		}
	}
	slices.SortFunc(result, func(a, b Token) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return result
}
