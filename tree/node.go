package tree

// Access is the OSC Query read/write capability of a node.
type Access int

// Access levels, per the OSC Query protocol.
const (
	AccessNoValue   Access = 0
	AccessReadOnly  Access = 1
	AccessWriteOnly Access = 2
	AccessReadWrite Access = 3
)

// Readable reports whether a GET of this access level's VALUE
// attribute can return a body instead of 204.
func (a Access) Readable() bool {
	return a == AccessReadOnly || a == AccessReadWrite
}

// TypeSpec describes an argument's OSC type: either a single type
// code, or a nested ordered list of type codes for arrays/tuples.
type TypeSpec struct {
	Code string
	List []TypeSpec
}

// String renders the TYPE string fragment for this spec, e.g. "f", or
// "[if]" for a nested list.
func (t TypeSpec) String() string {
	if t.List != nil {
		s := "["
		for _, c := range t.List {
			s += c.String()
		}
		return s + "]"
	}
	return t.Code
}

// Range restricts an argument's value. Min/Max/Vals are each
// independently optional; nil means absent, not zero.
type Range struct {
	Min  *float64
	Max  *float64
	Vals []any
}

// ClipMode is the opaque-to-the-core clip policy tag for an argument.
type ClipMode string

const (
	ClipNone ClipMode = "none"
	ClipLow  ClipMode = "low"
	ClipHigh ClipMode = "high"
	ClipBoth ClipMode = "both"
)

// Argument is one slot of a method's ordered argument list. Value is
// only meaningful when HasValue is true — absence is not the same as
// a nil value.
type Argument struct {
	Type     TypeSpec
	HasValue bool
	Value    any
	Range    *Range
	ClipMode *ClipMode
}

// MethodSpec is the metadata assigned to a node by AddMethod. Every
// field is independently optional except Arguments, whose presence is
// what makes the node a method rather than a container.
type MethodSpec struct {
	Description *string
	Access      *Access
	Tags        []string
	Critical    *bool
	Arguments   []Argument
}

// Node is one point in the OSC address space. Children are owned
// exclusively by their parent; parent is a non-owning back-reference
// used to assemble a node's full path and to walk parent-ward during
// removal cleanup, and is nil only at the root.
type Node struct {
	name     string
	parent   *Node
	children map[string]*Node

	description *string
	access      *Access
	tags        []string
	critical    *bool
	arguments   []Argument
}

func newNode(name string, parent *Node) *Node {
	return &Node{
		name:     name,
		parent:   parent,
		children: make(map[string]*Node),
	}
}

// IsContainer reports whether n groups children and carries no
// arguments.
func (n *Node) IsContainer() bool {
	return n.arguments == nil && len(n.children) > 0
}

// IsMethod reports whether n is a leaf carrying arguments.
func (n *Node) IsMethod() bool {
	return n.arguments != nil
}

// IsEmpty reports whether n is neither a container nor a method —
// a transient node created mid-insertion and subject to cleanup.
func (n *Node) IsEmpty() bool {
	return n.arguments == nil && len(n.children) == 0
}

// fullPath walks parent-ward to assemble the "/"-joined path from
// root to n. The root's own path is "/".
func (n *Node) fullPath() string {
	if n.parent == nil {
		return "/"
	}
	segments := []string{n.name}
	for p := n.parent; p.parent != nil; p = p.parent {
		segments = append([]string{p.name}, segments...)
	}
	return "/" + joinSegments(segments)
}

func joinSegments(segments []string) string {
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}

func (n *Node) applySpec(spec MethodSpec) {
	n.description = spec.Description
	n.access = spec.Access
	n.tags = spec.Tags
	n.critical = spec.Critical
	n.arguments = spec.Arguments
}

func (n *Node) clearSpec() {
	n.description = nil
	n.access = nil
	n.tags = nil
	n.critical = nil
	n.arguments = nil
}

// NodeSnapshot is an immutable, deep-copied projection of a Node and
// its full subtree, taken under the Tree's read lock so that
// serialization never observes a mix of pre- and post-mutation state.
type NodeSnapshot struct {
	FullPath    string
	Name        string
	Description *string
	Access      *Access
	Tags        []string
	Critical    *bool
	Arguments   []Argument
	Children    map[string]*NodeSnapshot
}

func snapshot(n *Node) *NodeSnapshot {
	ns := &NodeSnapshot{
		FullPath:    n.fullPath(),
		Name:        n.name,
		Description: n.description,
		Access:      n.access,
		Tags:        n.tags,
		Critical:    n.critical,
		Arguments:   append([]Argument(nil), n.arguments...),
	}
	if len(n.children) > 0 {
		ns.Children = make(map[string]*NodeSnapshot, len(n.children))
		for name, child := range n.children {
			ns.Children[name] = snapshot(child)
		}
	}
	return ns
}

// EffectiveAccess returns the node's access level, defaulting to
// AccessNoValue when unset — the same default the serializer applies
// to containers, used uniformly here so VALUE-readability checks don't
// need to special-case an unset method.
func (ns *NodeSnapshot) EffectiveAccess() Access {
	if ns.Access == nil {
		return AccessNoValue
	}
	return *ns.Access
}
