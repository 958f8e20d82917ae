// Command oscqueryd runs a standalone OSC Query node: it advertises an
// address space over HTTP/JSON, receives OSC over UDP, and publishes
// itself over mDNS so an OSC-aware peer can find it.
//
// Wiring is straightforward: build the Service, start the background
// work, register the initial address-space state, then block on an
// exit signal.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitriyfree/oscqueryd/service"
	"github.com/dmitriyfree/oscqueryd/tree"
)

func main() {
	opts := service.DefaultOptions()
	opts.OSCQueryHostName = "oscqueryd"
	opts.RootDescription = "oscqueryd address space"

	svc := service.New(opts, logOSCMessage)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hostInfo, err := svc.Start(ctx)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	registerDemoTree(svc)

	log.Printf("oscqueryd listening: http=%d osc=%d (%s)", svc.HTTPPort(), svc.OSCPort(), hostInfo.OSCTransport)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := svc.Stop(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	log.Println("oscqueryd stopped")
}

func logOSCMessage(address string, arguments []any) {
	fmt.Printf("osc: %s %v\n", address, arguments)
}

// registerDemoTree pre-populates a small address space so the binary
// is observable end-to-end.
func registerDemoTree(svc *service.Service) {
	readWrite := tree.AccessReadWrite
	readOnly := tree.AccessReadOnly

	svc.Tree().AddMethod("/example/ping", tree.MethodSpec{
		Description: strPtr("prints its argument when received"),
		Access:      &readWrite,
		Arguments:   []tree.Argument{{Type: tree.TypeSpec{Code: "s"}}},
	})

	minVol, maxVol := 0.0, 1.0
	svc.Tree().AddMethod("/example/volume", tree.MethodSpec{
		Description: strPtr("master volume"),
		Access:      &readWrite,
		Arguments: []tree.Argument{
			{Type: tree.TypeSpec{Code: "f"}, Range: &tree.Range{Min: &minVol, Max: &maxVol}},
		},
	})
	_ = svc.Tree().SetValue("/example/volume", 0, 0.5)

	svc.Tree().AddMethod("/example/uptime", tree.MethodSpec{
		Description: strPtr("seconds since start"),
		Access:      &readOnly,
		Arguments:   []tree.Argument{{Type: tree.TypeSpec{Code: "i"}}},
	})
}

func strPtr(s string) *string { return &s }
