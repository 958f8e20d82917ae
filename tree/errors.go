package tree

import "errors"

// ErrIndexOutOfRange is returned by SetValue/UnsetValue when the
// argument slot named by argIndex does not exist on the resolved
// method.
var ErrIndexOutOfRange = errors.New("tree: argument index out of range")

// ErrDuplicateChild is raised by low-level child insertion when a
// name already exists under a parent. AddMethod never triggers it
// (it gets-or-creates along the path); it is exposed only to direct
// tree manipulation.
var ErrDuplicateChild = errors.New("tree: duplicate child name")
