// Package oscreceiver binds a UDP socket and decodes inbound OSC
// datagrams, handing accepted ones to an injected sink. A small struct
// wraps a go-osc Server and StandardDispatcher, with a single handler
// routing every inbound address through a catch-all wildcard instead
// of one hardcoded address.
package oscreceiver

import (
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/hypebeast/go-osc/osc"

	"github.com/dmitriyfree/oscqueryd/subscription"
)

// Sink receives an accepted OSC message's address and argument list.
// The receiver does not interpret the payload; arguments keep
// whatever concrete Go types go-osc decoded them as (int32, float32,
// string, []byte, and so on).
type Sink func(address string, arguments []any)

// Receiver is a UDP OSC listener bound to 0.0.0.0:Port. Inbound
// datagrams are decoded by go-osc and passed through a Filter before
// reaching the Sink.
type Receiver struct {
	port   int
	filter *subscription.Filter
	sink   Sink

	mu     sync.Mutex
	conn   net.PacketConn
	server *osc.Server
}

// New constructs a Receiver bound to port, filtering through filter
// before calling sink for each accepted message.
func New(port int, filter *subscription.Filter, sink Sink) *Receiver {
	return &Receiver{port: port, filter: filter, sink: sink}
}

// Port returns the UDP port this receiver was constructed with (0
// meaning "let the OS choose" until Start binds it).
func (r *Receiver) Port() int { return r.port }

// LocalAddr returns the socket's bound address, or nil if Start has
// not been called yet. Useful when Port() was 0 and the OS assigned
// an ephemeral port.
func (r *Receiver) LocalAddr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	return r.conn.LocalAddr()
}

// Start binds the UDP socket and begins serving. The bind itself is
// synchronous so callers see a bind failure immediately; the serve
// loop that follows runs in its own goroutine and logs
// malformed-datagram / serve errors rather than propagating them.
func (r *Receiver) Start() error {
	addr := fmt.Sprintf("0.0.0.0:%d", r.port)
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return err
	}

	dispatcher := osc.NewStandardDispatcher()
	if err := dispatcher.AddMsgHandler("*", r.handle); err != nil {
		conn.Close()
		return err
	}

	r.mu.Lock()
	r.conn = conn
	r.server = &osc.Server{Addr: addr, Dispatcher: dispatcher}
	server := r.server
	r.mu.Unlock()

	go func() {
		if err := server.Serve(conn); err != nil {
			log.Printf("oscreceiver: serve on %s ended: %v", addr, err)
		}
	}()
	return nil
}

// handle is the catch-all dispatcher callback: every inbound address
// reaches here, and the subscription Filter (not go-osc's router)
// decides whether it is delivered.
func (r *Receiver) handle(msg *osc.Message) {
	if !r.filter.Accepts(msg.Address) {
		return
	}
	r.sink(msg.Address, msg.Arguments)
}

// Stop closes the UDP socket. Errors are logged and ignored — shutdown
// must complete regardless.
func (r *Receiver) Stop() {
	r.mu.Lock()
	conn := r.conn
	r.conn = nil
	r.mu.Unlock()

	if conn == nil {
		return
	}
	if err := conn.Close(); err != nil {
		log.Printf("oscreceiver: close error: %v", err)
	}
}
