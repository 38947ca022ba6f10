package collector

import "sort"

// Universe accumulates the distinct muscle or equipment identifiers observed
// across a run. Builders add to it while rows are built; Close fixes the
// member set so the back-fill pass works against a stable column universe.
type Universe struct {
	members map[string]struct{}
	closed  []string
}

func NewUniverse() *Universe {
	return &Universe{members: make(map[string]struct{})}
}

// Add registers identifiers. Adding after Close is a programming error; the
// pipeline closes universes only once every table has been built.
func (u *Universe) Add(ids ...string) {
	for _, id := range ids {
		u.members[id] = struct{}{}
	}
}

// Len reports the number of distinct members seen so far.
func (u *Universe) Len() int {
	return len(u.members)
}

// Close fixes the universe and returns its members sorted lexicographically.
// Idempotent.
func (u *Universe) Close() []string {
	if u.closed == nil {
		u.closed = make([]string, 0, len(u.members))
		for m := range u.members {
			u.closed = append(u.closed, m)
		}
		sort.Strings(u.closed)
	}
	return u.closed
}
