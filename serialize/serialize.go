// Package serialize projects a tree.NodeSnapshot into the OSC Query
// JSON dialect. It is a pure function over an already-consistent
// snapshot; it never touches the Tree's locks itself.
package serialize

import (
	"strings"

	"github.com/dmitriyfree/oscqueryd/tree"
)

// Keys used in the serialized object, matching the wire protocol.
const (
	KeyFullPath    = "FULL_PATH"
	KeyDescription = "DESCRIPTION"
	KeyAccess      = "ACCESS"
	KeyTags        = "TAGS"
	KeyCritical    = "CRITICAL"
	KeyContents    = "CONTENTS"
	KeyType        = "TYPE"
	KeyRange       = "RANGE"
	KeyClipMode    = "CLIPMODE"
	KeyValue       = "VALUE"
)

// Selectors is the fixed set of attribute selectors the HTTP query
// protocol accepts, HOST_INFO included even though it is served by a
// side channel rather than this package.
var Selectors = map[string]bool{
	KeyFullPath:    true,
	KeyContents:    true,
	KeyType:        true,
	KeyAccess:      true,
	KeyRange:       true,
	KeyDescription: true,
	KeyTags:        true,
	KeyCritical:    true,
	KeyClipMode:    true,
	KeyValue:       true,
	"HOST_INFO":    true,
}

// Node serializes ns into the map form of the OSC Query JSON shape.
// Keys are omitted according to the protocol's presence rules rather
// than emitted with null/empty placeholders, except where a selector
// lookup against the result naturally yields nil for an attribute this
// node doesn't carry.
func Node(ns *tree.NodeSnapshot) map[string]any {
	out := map[string]any{
		KeyFullPath: ns.FullPath,
	}

	if ns.Description != nil {
		out[KeyDescription] = *ns.Description
	}

	isContainer := ns.Arguments == nil && len(ns.Children) > 0
	if ns.Access != nil {
		out[KeyAccess] = int(*ns.Access)
	} else if isContainer {
		out[KeyAccess] = int(tree.AccessNoValue)
	}

	if ns.Tags != nil {
		out[KeyTags] = ns.Tags
	}

	if ns.Critical != nil {
		out[KeyCritical] = *ns.Critical
	}

	if len(ns.Children) > 0 {
		contents := make(map[string]any, len(ns.Children))
		for name, child := range ns.Children {
			contents[name] = Node(child)
		}
		out[KeyContents] = contents
	}

	if ns.Arguments != nil {
		out[KeyType] = typeString(ns.Arguments)

		if ranges := rangeList(ns.Arguments); ranges != nil {
			out[KeyRange] = ranges
		}
		if clips := clipModeList(ns.Arguments); clips != nil {
			out[KeyClipMode] = clips
		}
		if values := valueList(ns, isContainer); values != nil {
			out[KeyValue] = values
		}
	}

	return out
}

func typeString(args []tree.Argument) string {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.Type.String())
	}
	return b.String()
}

func rangeList(args []tree.Argument) []any {
	hasAny := false
	out := make([]any, len(args))
	for i, a := range args {
		if a.Range == nil {
			out[i] = nil
			continue
		}
		hasAny = true
		entry := map[string]any{}
		if a.Range.Min != nil {
			entry["MIN"] = *a.Range.Min
		}
		if a.Range.Max != nil {
			entry["MAX"] = *a.Range.Max
		}
		if a.Range.Vals != nil {
			entry["VALS"] = a.Range.Vals
		}
		out[i] = entry
	}
	if !hasAny {
		return nil
	}
	return out
}

func clipModeList(args []tree.Argument) []any {
	hasAny := false
	out := make([]any, len(args))
	for i, a := range args {
		if a.ClipMode == nil {
			out[i] = nil
			continue
		}
		hasAny = true
		out[i] = string(*a.ClipMode)
	}
	if !hasAny {
		return nil
	}
	return out
}

func valueList(ns *tree.NodeSnapshot, isContainer bool) []any {
	if isContainer || !ns.EffectiveAccess().Readable() {
		return nil
	}
	hasAny := false
	out := make([]any, len(ns.Arguments))
	for i, a := range ns.Arguments {
		if !a.HasValue {
			out[i] = nil
			continue
		}
		hasAny = true
		out[i] = a.Value
	}
	if !hasAny {
		return nil
	}
	return out
}

// Attr returns the serialized value of a single selector against ns,
// and whether that selector is one the protocol recognizes at all.
// The returned value is nil (and ok is true) when the selector is
// recognized but this node doesn't carry that attribute — the natural
// consequence of projecting a missing field.
func Attr(ns *tree.NodeSnapshot, selector string) (any, bool) {
	if !Selectors[selector] {
		return nil, false
	}
	full := Node(ns)
	return full[selector], true
}
