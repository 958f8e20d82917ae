// Package service implements the Lifecycle Orchestrator: it allocates
// ports, starts the Tree, HTTP endpoint, UDP receiver and mDNS
// advertiser in dependency order, and reverses that order on
// shutdown.
package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net"
	"net/http"
	"sync"

	"github.com/dmitriyfree/oscqueryd/discovery"
	"github.com/dmitriyfree/oscqueryd/hostinfo"
	"github.com/dmitriyfree/oscqueryd/oscreceiver"
	"github.com/dmitriyfree/oscqueryd/queryhttp"
	"github.com/dmitriyfree/oscqueryd/subscription"
	"github.com/dmitriyfree/oscqueryd/tree"
)

// State is a Service's lifecycle stage.
type State int

const (
	StateInit State = iota
	StateStarting
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Service is a single OSC Query node: the Tree, the HTTP query
// endpoint, the UDP OSC receiver, the subscription filter, and the
// mDNS advertiser, brought up and torn down together.
type Service struct {
	opts Options
	sink oscreceiver.Sink

	mu    sync.Mutex
	state State

	tree       *tree.Tree
	filter     *subscription.Filter
	receiver   *oscreceiver.Receiver
	advertiser *discovery.Advertiser
	httpServer *http.Server
	listener   net.Listener

	httpPort int
	oscPort  int

	startedCh chan struct{}
}

// New constructs a Service in the Init state. sink receives every OSC
// message the subscription filter accepts; it may be nil if the
// caller only cares about the query side.
func New(opts Options, sink oscreceiver.Sink) *Service {
	if sink == nil {
		sink = func(string, []any) {}
	}
	return &Service{
		opts:   opts.withDefaults(),
		sink:   sink,
		state:  StateInit,
		filter: subscription.New(),
	}
}

// Tree returns the address-space tree. It is valid once Start has
// begun (the first step of Start order is initializing it); calling
// it before Start has been invoked returns nil.
func (s *Service) Tree() *tree.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// Filter returns the subscription filter governing which inbound OSC
// addresses reach the sink.
func (s *Service) Filter() *subscription.Filter {
	return s.filter
}

// State reports the orchestrator's current lifecycle stage.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ErrInvalidState is returned when Start or Stop is called from a
// stage that doesn't permit it.
type ErrInvalidState struct {
	Op    string
	State State
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("service: cannot %s from state %s", e.Op, e.State)
}

// Start brings the node up in dependency order: initialize the Tree,
// register the HTTP query endpoint, start the HTTP listener, start
// the UDP receiver, publish mDNS, and schedule the discovery-prime
// browse. It returns the HostInfo record describing the node, or an
// error if a bind failed or the service was not in a startable
// state.
func (s *Service) Start(ctx context.Context) (hostinfo.HostInfo, error) {
	s.mu.Lock()
	if s.state != StateInit && s.state != StateStopped {
		state := s.state
		s.mu.Unlock()
		return hostinfo.HostInfo{}, &ErrInvalidState{Op: "Start", State: state}
	}
	s.state = StateStarting
	s.startedCh = make(chan struct{})
	s.mu.Unlock()

	var hi hostinfo.HostInfo

	// 1. initialize Tree
	s.mu.Lock()
	s.tree = tree.New(s.opts.RootDescription)
	s.mu.Unlock()

	// Port allocation happens alongside tree init, before anything
	// binds.
	httpPort := s.opts.HTTPPort
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.opts.BindAddress, httpPort))
	if err != nil {
		s.failStart()
		return hostinfo.HostInfo{}, err
	}
	httpPort = listener.Addr().(*net.TCPAddr).Port

	oscPort := s.opts.OSCPort
	if oscPort == 0 {
		oscPort = randomPort(s.opts.OSCPortRangeMin, s.opts.OSCPortRangeMax)
	}

	s.mu.Lock()
	s.httpPort = httpPort
	s.oscPort = oscPort
	s.listener = listener
	s.mu.Unlock()

	hi = hostinfo.HostInfo{
		Name:         s.opts.OSCQueryHostName,
		Extensions:   hostinfo.FullExtensions,
		OSCIP:        s.opts.OSCIP,
		OSCPort:      oscPort,
		OSCTransport: s.opts.OSCTransport,
	}

	// 2. register method endpoints (the HTTP handler routes every
	// path through the tree at request time, so "registering" it is
	// just wiring the mux).
	handler := queryhttp.New(s.tree, func() hostinfo.HostInfo { return hi })
	mux := http.NewServeMux()
	mux.Handle("/", handler)
	httpServer := &http.Server{Handler: mux}

	s.mu.Lock()
	s.httpServer = httpServer
	s.mu.Unlock()

	// 3. start HTTP listener
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("service: http server ended: %v", err)
		}
	}()

	// 4. start UDP listener
	receiver := oscreceiver.New(oscPort, s.filter, s.sink)
	if err := receiver.Start(); err != nil {
		_ = httpServer.Close()
		s.failStart()
		return hostinfo.HostInfo{}, err
	}
	s.mu.Lock()
	s.receiver = receiver
	s.mu.Unlock()

	// 5. publish mDNS
	advertiser := discovery.New(s.opts.ServiceName, httpPort)
	if err := advertiser.Publish(); err != nil {
		log.Printf("service: mDNS publish failed: %v", err)
	}
	s.mu.Lock()
	s.advertiser = advertiser
	s.mu.Unlock()

	// 6. schedule discovery prime
	if s.opts.DiscoveryPrime {
		advertiser.BrowseOnce(ctx, s.opts.DiscoveryPrimeDelay, s.opts.DiscoveryPrimeWindow)
	}

	s.mu.Lock()
	s.state = StateRunning
	close(s.startedCh)
	s.mu.Unlock()

	return hi, nil
}

func (s *Service) failStart() {
	s.mu.Lock()
	s.state = StateStopped
	if s.startedCh != nil {
		close(s.startedCh)
	}
	s.mu.Unlock()
}

// HTTPPort returns the bound HTTP port once Start has completed.
func (s *Service) HTTPPort() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.httpPort
}

// OSCPort returns the bound OSC UDP port once Start has completed.
func (s *Service) OSCPort() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.oscPort
}

// Stop tears the node down in reverse start order: close the UDP
// socket, unpublish mDNS, destroy the mDNS handle, then close the
// HTTP server and await its drain. If called while still Starting, it
// waits for Start to finish (or fail) first.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	state := s.state
	startedCh := s.startedCh
	s.mu.Unlock()

	if state == StateInit {
		return &ErrInvalidState{Op: "Stop", State: state}
	}
	if state == StateStopped {
		return nil
	}
	if state == StateStarting && startedCh != nil {
		select {
		case <-startedCh:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return nil
	}
	s.state = StateStopping
	receiver := s.receiver
	advertiser := s.advertiser
	httpServer := s.httpServer
	s.mu.Unlock()

	if receiver != nil {
		receiver.Stop()
	}
	if advertiser != nil {
		advertiser.Unpublish()
	}
	if httpServer != nil {
		if err := httpServer.Shutdown(ctx); err != nil {
			_ = httpServer.Close()
		}
	}

	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()
	return nil
}

func randomPort(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.Intn(max-min+1)
}
