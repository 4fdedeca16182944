// Package envstore implements the environment tree the CSE machine threads
// through Lambda/Eta application: a forest of scopes, each a flat binding
// set plus a parent pointer, indexed by a monotonically increasing id. The
// btree.BTreeG index (grounded on the launix-de-memcp pack's use of ordered
// trees for runtime tables) backs Walk, an ascending-id walk over every
// environment allocated so far; id lookups go through a plain map.
package envstore

import (
	"github.com/google/btree"

	"github.com/rpalvm/rpal/internal/object"
	"github.com/rpalvm/rpal/internal/rpalerr"
)

// Env is one scope: a flat set of name->value bindings plus the id of the
// enclosing scope (-1 for the root, which has no parent).
type Env struct {
	ID       int
	ParentID int
	Bindings map[string]object.Object
}

func (e *Env) Less(other btree.Item) bool {
	return e.ID < other.(*Env).ID
}

// Store owns every Env ever allocated during a run. Environments are never
// freed mid-run — the CSE machine's EnvMarker/Beta discipline only ever
// pops stale frames off the control/value stacks, not the store itself,
// which keeps closures created under a scope valid even after evaluation
// has moved past it.
type Store struct {
	tree   *btree.BTreeG[*Env]
	byID   map[int]*Env
	nextID int
}

// NewStore creates a store with a single root environment (id 0, no
// parent) already allocated.
func NewStore() *Store {
	s := &Store{
		tree: btree.NewG[*Env](32, func(a, b *Env) bool { return a.ID < b.ID }),
		byID: make(map[int]*Env),
	}
	s.alloc(-1)
	return s
}

// RootID returns the id of the top-level environment.
func (s *Store) RootID() int { return 0 }

func (s *Store) alloc(parentID int) *Env {
	e := &Env{ID: s.nextID, ParentID: parentID, Bindings: make(map[string]object.Object)}
	s.nextID++
	s.byID[e.ID] = e
	s.tree.ReplaceOrInsert(e)
	return e
}

// Child allocates a fresh environment whose parent is parentID and returns
// its id.
func (s *Store) Child(parentID int) int {
	return s.alloc(parentID).ID
}

// Bind records name -> val in the environment identified by id.
func (s *Store) Bind(id int, name string, val object.Object) error {
	e, ok := s.byID[id]
	if !ok {
		return rpalerr.New(rpalerr.Lookup, "bind into unknown environment %d", id)
	}
	e.Bindings[name] = val
	return nil
}

// Lookup resolves name by walking the parent chain starting at id.
func (s *Store) Lookup(id int, name string) (object.Object, error) {
	for id >= 0 {
		e, ok := s.byID[id]
		if !ok {
			break
		}
		if v, found := e.Bindings[name]; found {
			return v, nil
		}
		id = e.ParentID
	}
	return object.Object{}, rpalerr.New(rpalerr.Lookup, "undeclared identifier %q", name)
}

// Env returns the environment record for id, for inspection.
func (s *Store) Env(id int) (*Env, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// Walk visits every environment in ascending id order.
func (s *Store) Walk(visit func(*Env) bool) {
	s.tree.Ascend(func(e *Env) bool { return visit(e) })
}

// Len returns the number of environments allocated so far.
func (s *Store) Len() int { return s.tree.Len() }
