// Package queryhttp implements the read-only OSC Query HTTP endpoint:
// resolving a request URL against the address-space tree, applying an
// attribute selector, and encoding the JSON response.
package queryhttp

import (
	"encoding/json"
	"net/http"

	"github.com/dmitriyfree/oscqueryd/hostinfo"
	"github.com/dmitriyfree/oscqueryd/serialize"
	"github.com/dmitriyfree/oscqueryd/tree"
	"github.com/dmitriyfree/oscqueryd/util"
)

const hostInfoSelector = "HOST_INFO"

// Tree is the subset of *tree.Tree the handler needs: just enough to
// take a read-only snapshot by path.
type Tree interface {
	Snapshot(path string) (*tree.NodeSnapshot, bool)
}

// Handler serves GET requests against a Tree, plus the HOST_INFO side
// channel.
type Handler struct {
	tree     Tree
	hostInfo func() hostinfo.HostInfo
}

// New constructs a Handler. hostInfo is called fresh on every
// HOST_INFO request so a changing OSC port (there isn't one, once
// started, but tests may swap it) is always reflected.
func New(t Tree, hostInfo func() hostinfo.HostInfo) *Handler {
	return &Handler{tree: t, hostInfo: hostInfo}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	selector := r.URL.RawQuery

	if selector == hostInfoSelector {
		h.writeJSON(w, http.StatusOK, h.hostInfo())
		return
	}

	if selector != "" && !serialize.Selectors[selector] {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	path := util.JoinPath(util.SplitPath(r.URL.Path))
	ns, ok := h.tree.Snapshot(path)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if selector == "" {
		h.writeJSON(w, http.StatusOK, serialize.Node(ns))
		return
	}

	if selector == serialize.KeyValue && !ns.EffectiveAccess().Readable() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	value, _ := serialize.Attr(ns, selector)
	h.writeJSON(w, http.StatusOK, map[string]any{selector: value})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
