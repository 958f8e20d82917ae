package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestAddMethodThenLookup(t *testing.T) {
	tr := New("root")
	tr.AddMethod("/chatbox/input", MethodSpec{
		Access:    ptr(AccessReadWrite),
		Arguments: []Argument{{Type: TypeSpec{Code: "s"}}, {Type: TypeSpec{Code: "T"}}},
	})

	ns, ok := tr.Snapshot("/chatbox/input")
	require.True(t, ok)
	assert.Equal(t, "/chatbox/input", ns.FullPath)
	assert.True(t, ns.Access != nil && *ns.Access == AccessReadWrite)
	assert.Len(t, ns.Arguments, 2)
}

func TestAddMethodCreatesIntermediateContainers(t *testing.T) {
	tr := New("")
	tr.AddMethod("/a/b/c", MethodSpec{Access: ptr(AccessReadWrite)})

	ns, ok := tr.Snapshot("/a")
	require.True(t, ok)
	require.Contains(t, ns.Children, "b")
	require.Contains(t, ns.Children["b"].Children, "c")
}

func TestOverwriteMethodKeepsChildren(t *testing.T) {
	tr := New("")
	tr.AddMethod("/a", MethodSpec{Access: ptr(AccessReadOnly)})
	tr.AddMethod("/a/b", MethodSpec{Access: ptr(AccessReadOnly)})
	// /a is now a container (has child b); re-adding metadata at /a must not
	// disturb the child.
	tr.AddMethod("/a", MethodSpec{Description: ptr("updated")})

	ns, ok := tr.Snapshot("/a")
	require.True(t, ok)
	require.Contains(t, ns.Children, "b")
	assert.Equal(t, "updated", *ns.Description)
}

func TestRemoveMethodCleansUpEmptyAncestors(t *testing.T) {
	tr := New("")
	tr.AddMethod("/a/b/c", MethodSpec{Access: ptr(AccessReadOnly)})
	tr.RemoveMethod("/a/b/c")

	_, ok := tr.Snapshot("/a")
	assert.False(t, ok, "empty ancestor /a must be cleaned up")
}

func TestRemoveMethodStopsAtNonEmptyAncestor(t *testing.T) {
	tr := New("")
	tr.AddMethod("/a/b/c", MethodSpec{Access: ptr(AccessReadOnly)})
	tr.AddMethod("/a/other", MethodSpec{Access: ptr(AccessReadOnly)})
	tr.RemoveMethod("/a/b/c")

	ns, ok := tr.Snapshot("/a")
	require.True(t, ok, "/a has another child, must survive")
	assert.NotContains(t, ns.Children, "b")
	assert.Contains(t, ns.Children, "other")
}

func TestRemoveMethodOnMissingPathIsNoOp(t *testing.T) {
	tr := New("")
	tr.RemoveMethod("/does/not/exist")
	_, ok := tr.Snapshot("/does")
	assert.False(t, ok)
}

func TestSetValueIndexOutOfRange(t *testing.T) {
	tr := New("")
	tr.AddMethod("/a", MethodSpec{Arguments: []Argument{{Type: TypeSpec{Code: "f"}}}})

	err := tr.SetValue("/a", 5, 1.0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	err = tr.UnsetValue("/a", -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSetValueOnMissingPathIsNoOp(t *testing.T) {
	tr := New("")
	err := tr.SetValue("/does/not/exist", 0, 1.0)
	assert.NoError(t, err)
}

func TestGetValueRoundTrip(t *testing.T) {
	tr := New("")
	tr.AddMethod("/a/b/c", MethodSpec{
		Access:    ptr(AccessReadWrite),
		Arguments: []Argument{{Type: TypeSpec{Code: "f"}, Range: &Range{Min: ptr(0.0), Max: ptr(1.0)}}},
	})
	require.NoError(t, tr.SetValue("/a/b/c", 0, 0.5))

	v, ok := tr.GetValue("/a/b/c", 0)
	require.True(t, ok)
	assert.Equal(t, 0.5, v)

	require.NoError(t, tr.UnsetValue("/a/b/c", 0))
	_, ok = tr.GetValue("/a/b/c", 0)
	assert.False(t, ok)
}

func TestGetValueOnMissingPathReturnsAbsent(t *testing.T) {
	tr := New("")
	_, ok := tr.GetValue("/nope", 0)
	assert.False(t, ok)
}

func TestAddChildDuplicate(t *testing.T) {
	tr := New("")
	require.NoError(t, tr.AddChild("/", "a"))
	err := tr.AddChild("/", "a")
	assert.ErrorIs(t, err, ErrDuplicateChild)
}

func TestRootSingularity(t *testing.T) {
	tr := New("hello")
	ns, ok := tr.Snapshot("/")
	require.True(t, ok)
	assert.Equal(t, "/", ns.FullPath)
	assert.Equal(t, "hello", *ns.Description)
}

func TestNodeClassification(t *testing.T) {
	n := newNode("x", nil)
	assert.True(t, n.IsEmpty())
	n.arguments = []Argument{{Type: TypeSpec{Code: "f"}}}
	assert.True(t, n.IsMethod())
	assert.False(t, n.IsContainer())

	c := newNode("y", nil)
	c.children["z"] = newNode("z", c)
	assert.True(t, c.IsContainer())
}
