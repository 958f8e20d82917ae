// Package tree implements the OSC address-space tree: a hierarchical
// namespace of containers and methods, mutated through a small,
// opportunistic API and read through immutable snapshots.
//
// Mutations take an exclusive lock; reads (snapshotting for
// serialization, value lookups) take a shared lock, per the
// reader-writer discipline the OSC Query protocol's read-heavy,
// idempotent traffic calls for.
package tree

import (
	"sync"

	"github.com/dmitriyfree/oscqueryd/util"
)

// Tree owns the root Node and provides path-based insert/remove/
// lookup and value set/unset. A Tree's lifetime equals its owning
// service's lifetime; there is exactly one root, whose name is the
// empty string and whose parent is absent.
type Tree struct {
	mu   sync.RWMutex
	root *Node
}

// New constructs a Tree with a root carrying the given description
// and AccessNoValue.
func New(rootDescription string) *Tree {
	root := newNode("", nil)
	if rootDescription != "" {
		desc := rootDescription
		root.description = &desc
	}
	noValue := AccessNoValue
	root.access = &noValue
	return &Tree{root: root}
}

// AddMethod splits path on "/", descends from the root creating any
// missing intermediate (empty) children, and assigns spec to the
// terminal node. Overwriting an existing method's metadata is
// permitted and does not touch its children.
func (t *Tree) AddMethod(path string, spec MethodSpec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.root
	for _, seg := range util.SplitPath(path) {
		child, ok := n.children[seg]
		if !ok {
			child = newNode(seg, n)
			n.children[seg] = child
		}
		n = child
	}
	n.applySpec(spec)
}

// AddChild inserts a single, empty child named name under the node at
// parentPath. It is a low-level primitive for direct tree
// manipulation: unlike AddMethod it does not get-or-create, so
// inserting over an existing name raises ErrDuplicateChild.
func (t *Tree) AddChild(parentPath, name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	parent, ok := t.resolve(parentPath)
	if !ok {
		return nil
	}
	if _, exists := parent.children[name]; exists {
		return ErrDuplicateChild
	}
	parent.children[name] = newNode(name, parent)
	return nil
}

// RemoveMethod locates the node at path (a no-op if absent), clears
// its metadata so it becomes empty, then walks parent-ward removing
// every empty node until a non-empty node or the root is reached. The
// root is never removed.
func (t *Tree) RemoveMethod(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.resolve(path)
	if !ok {
		return
	}
	n.clearSpec()
	t.cleanupFrom(n)
}

// cleanupFrom removes n and its empty ancestors, stopping at the
// first non-empty node or the root.
func (t *Tree) cleanupFrom(n *Node) {
	for n.parent != nil && n.IsEmpty() {
		parent := n.parent
		delete(parent.children, n.name)
		n = parent
	}
}

// SetValue stores v in the argument slot argIndex of the method at
// path. It fails with ErrIndexOutOfRange when the slot does not
// exist; it is a silent no-op when path does not resolve to any node
// (writes are opportunistic).
func (t *Tree) SetValue(path string, argIndex int, v any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.resolve(path)
	if !ok {
		return nil
	}
	if argIndex < 0 || argIndex >= len(n.arguments) {
		return ErrIndexOutOfRange
	}
	n.arguments[argIndex].Value = v
	n.arguments[argIndex].HasValue = true
	return nil
}

// UnsetValue clears the argument slot argIndex of the method at path,
// with the same failure/no-op rules as SetValue.
func (t *Tree) UnsetValue(path string, argIndex int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.resolve(path)
	if !ok {
		return nil
	}
	if argIndex < 0 || argIndex >= len(n.arguments) {
		return ErrIndexOutOfRange
	}
	n.arguments[argIndex].Value = nil
	n.arguments[argIndex].HasValue = false
	return nil
}

// GetValue returns the stored value at argIndex and whether it is
// present. It never fails on a missing path or slot — both simply
// report absence.
func (t *Tree) GetValue(path string, argIndex int) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n, ok := t.resolve(path)
	if !ok {
		return nil, false
	}
	if argIndex < 0 || argIndex >= len(n.arguments) {
		return nil, false
	}
	arg := n.arguments[argIndex]
	return arg.Value, arg.HasValue
}

// Snapshot returns an immutable, deep-copied projection of the node
// at path and its full subtree, or (nil, false) if path does not
// resolve. The copy is taken under the Tree's read lock so callers
// never observe a mix of pre- and post-mutation state.
func (t *Tree) Snapshot(path string) (*NodeSnapshot, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n, ok := t.resolve(path)
	if !ok {
		return nil, false
	}
	return snapshot(n), true
}

// resolve walks from the root along path's segments. Caller must hold
// t.mu (either lock).
func (t *Tree) resolve(path string) (*Node, bool) {
	n := t.root
	for _, seg := range util.SplitPath(path) {
		child, ok := n.children[seg]
		if !ok {
			return nil, false
		}
		n = child
	}
	return n, true
}
