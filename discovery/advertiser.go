// Package discovery publishes the _oscjson._tcp mDNS service and
// performs a one-shot discovery-priming browse. Its lifecycle —
// New/Publish/Unpublish guarding a handle behind a mutex, plus a
// goroutine-and-context.WithTimeout browse reporting through a
// callback — follows the same shape as a scan-and-connect device
// manager: New constructs an idle handle, a bounded goroutine performs
// the one-shot operation and reports through a callback, and
// Publish/Unpublish guard the live handle.
package discovery

import (
	"context"
	"log"
	"time"

	"github.com/grandcat/zeroconf"
)

const serviceType = "_oscjson._tcp"

// Advertiser owns the mDNS publish handle for one OSC Query node.
type Advertiser struct {
	serviceName string
	port        int

	server *zeroconf.Server
}

// New constructs an Advertiser for serviceName, publishing on port
// when Publish is called.
func New(serviceName string, port int) *Advertiser {
	return &Advertiser{serviceName: serviceName, port: port}
}

// Publish registers exactly one mDNS record: service type _oscjson,
// protocol tcp, instance name serviceName, port as given, empty TXT
// records.
func (a *Advertiser) Publish() error {
	server, err := zeroconf.Register(a.serviceName, serviceType, "local.", a.port, nil, nil)
	if err != nil {
		return err
	}
	a.server = server
	return nil
}

// Unpublish destroys the mDNS handle. Errors are swallowed — shutdown
// must complete regardless of what the mDNS stack reports.
func (a *Advertiser) Unpublish() {
	if a.server == nil {
		return
	}
	a.server.Shutdown()
	a.server = nil
}

// BrowseOnce schedules a short, best-effort browse for _oscjson._tcp
// services after delay, torn down after window. On some hosts, an
// outbound mDNS browse is what causes the platform stack to notice
// services other hosts just published; this primes that behavior right
// after startup. Results are logged, not otherwise used; all errors
// are swallowed.
//
// It spawns a goroutine, bounds it with context.WithTimeout, reports
// what's found through a callback, and lets the context end the
// operation rather than an explicit stop call.
func (a *Advertiser) BrowseOnce(ctx context.Context, delay, window time.Duration) {
	go func() {
		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return
			}
		}

		browseCtx, cancel := context.WithTimeout(ctx, window)
		defer cancel()

		resolver, err := zeroconf.NewResolver(nil)
		if err != nil {
			log.Printf("discovery: browse resolver init failed: %v", err)
			return
		}

		entries := make(chan *zeroconf.ServiceEntry, 8)
		go func() {
			for entry := range entries {
				log.Printf("discovery: browse saw %s", entry.Instance)
			}
		}()

		if err := resolver.Browse(browseCtx, serviceType, "local.", entries); err != nil {
			log.Printf("discovery: browse failed: %v", err)
			return
		}
		<-browseCtx.Done()
	}()
}
