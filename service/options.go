package service

import "time"

// Options configures a Service at construction. Every field is
// defaulted by DefaultOptions rather than left to a free-form map.
// Callers should
// start from DefaultOptions() and override only the fields they care
// about; New applies a second, narrower round of defaulting for the
// fields (port range, addresses, names, browse window) that are
// unambiguous to infer from a zero value.
type Options struct {
	// HTTPPort is the TCP port for the HTTP query API. 0 means
	// OS-assigned.
	HTTPPort int

	// OSCPort is the UDP port for inbound OSC. 0 means a random port
	// in [OSCPortRangeMin, OSCPortRangeMax].
	OSCPort         int
	OSCPortRangeMin int
	OSCPortRangeMax int

	// BindAddress is the interface the HTTP listener binds to.
	BindAddress string

	// OSCIP is advertised as HOST_INFO.OSC_IP; defaults to
	// BindAddress.
	OSCIP string

	// OSCTransport is advertised as HOST_INFO.OSC_TRANSPORT.
	OSCTransport string

	// OSCQueryHostName is advertised as HOST_INFO.NAME.
	OSCQueryHostName string

	// ServiceName is the mDNS instance name.
	ServiceName string

	// RootDescription is assigned to the tree's root node.
	RootDescription string

	// DiscoveryPrime enables the one-shot post-start mDNS browse
	// workaround. Disabling it is a no-op in environments where mDNS
	// discovery is already synchronous.
	DiscoveryPrime bool

	// DiscoveryPrimeDelay and DiscoveryPrimeWindow bound the browse:
	// it starts after Delay and is torn down after Window.
	DiscoveryPrimeDelay  time.Duration
	DiscoveryPrimeWindow time.Duration
}

// DefaultOptions returns an Options with every field set to its
// documented default, including DiscoveryPrime enabled.
func DefaultOptions() Options {
	return Options{
		OSCPortRangeMin:      22000,
		OSCPortRangeMax:      50000,
		BindAddress:          "0.0.0.0",
		OSCTransport:         "UDP",
		ServiceName:          "OSCQuery",
		DiscoveryPrime:       true,
		DiscoveryPrimeDelay:  2 * time.Second,
		DiscoveryPrimeWindow: time.Second,
	}
}

// withDefaults fills in the fields that are unambiguous to infer from
// a zero value (an empty port range, address, name, or browse window
// clearly means "not set"); DiscoveryPrime, DiscoveryPrimeDelay and the
// port fields themselves are left as the caller set them.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.OSCPortRangeMin == 0 && o.OSCPortRangeMax == 0 {
		o.OSCPortRangeMin, o.OSCPortRangeMax = d.OSCPortRangeMin, d.OSCPortRangeMax
	}
	if o.BindAddress == "" {
		o.BindAddress = d.BindAddress
	}
	if o.OSCIP == "" {
		o.OSCIP = o.BindAddress
	}
	if o.OSCTransport == "" {
		o.OSCTransport = d.OSCTransport
	}
	if o.ServiceName == "" {
		o.ServiceName = d.ServiceName
	}
	if o.DiscoveryPrimeWindow == 0 {
		o.DiscoveryPrimeWindow = d.DiscoveryPrimeWindow
	}
	return o
}
