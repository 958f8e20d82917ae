// Package hostinfo defines the HOST_INFO side-channel payload shared
// by the HTTP query endpoint (serving it on demand) and the lifecycle
// orchestrator (returning it from Start) so the two never drift into
// separate representations of the same record.
package hostinfo

// Extensions advertises which optional attributes this node's HTTP
// query endpoint supports. All seven are always true here — the
// endpoint implements the full OSC Query attribute set.
type Extensions struct {
	Access      bool `json:"ACCESS"`
	Value       bool `json:"VALUE"`
	Range       bool `json:"RANGE"`
	Description bool `json:"DESCRIPTION"`
	Tags        bool `json:"TAGS"`
	Critical    bool `json:"CRITICAL"`
	ClipMode    bool `json:"CLIPMODE"`
}

// FullExtensions is the Extensions value every HostInfo in this
// implementation carries.
var FullExtensions = Extensions{
	Access:      true,
	Value:       true,
	Range:       true,
	Description: true,
	Tags:        true,
	Critical:    true,
	ClipMode:    true,
}

// HostInfo describes this node's name, capabilities, and OSC
// transport endpoint.
type HostInfo struct {
	Name         string     `json:"NAME"`
	Extensions   Extensions `json:"EXTENSIONS"`
	OSCIP        string     `json:"OSC_IP"`
	OSCPort      int        `json:"OSC_PORT"`
	OSCTransport string     `json:"OSC_TRANSPORT"`
}
