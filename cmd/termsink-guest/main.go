//go:build wasip1

// Command termsink-guest renders the demo scene through the termsink host
// module. Build with GOOS=wasip1 GOARCH=wasm and run under `termsink wasm`.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lixenwraith/termsink/backend/remote"
	"github.com/lixenwraith/termsink/demo"
	"github.com/lixenwraith/termsink/render"
)

func main() {
	frames := flag.Int("frames", 200, "frames to render")
	title := flag.String("title", demo.Title, "block title")
	flag.Parse()

	// stdout is the host terminal
	log.SetOutput(os.Stderr)

	d := render.NewDriver(remote.NewHostCallSink(), demo.Scene(*title, *frames),
		render.WithMaxFrames(*frames),
		render.WithLogger(log.Default()),
	)
	if err := d.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "termsink-guest: %v\n", err)
		os.Exit(1)
	}
}
