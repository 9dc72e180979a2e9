// Command gen-trace writes a synthetic hand-tracking capture for
// pipeline testing and replay.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/glia-xr/handray/internal/handtrack"
	"github.com/glia-xr/handray/internal/trace"
)

var (
	outPath = flag.String("o", "capture.jsonl", "output capture path; - writes to stdout")
	count   = flag.Int("n", 3000, "number of frames to generate")
	hand    = flag.String("hand", "right", "tracked hand (left or right)")
	seed    = flag.Int64("seed", 1, "generator seed")
)

func main() {
	flag.Parse()

	var handedness handtrack.Handedness
	switch *hand {
	case "left":
		handedness = handtrack.LeftHand
	case "right":
		handedness = handtrack.RightHand
	default:
		log.Fatalf("unknown hand %q, want left or right", *hand)
	}

	out := os.Stdout
	if *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("failed to create output: %v", err)
		}
		defer f.Close()
		out = f
	}

	gen := trace.NewSyntheticGenerator(handedness, *seed)
	w := trace.NewWriter(out)
	for i := 0; i < *count; i++ {
		if err := w.Write(gen.NextFrame()); err != nil {
			log.Fatalf("failed to write frame %d: %v", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("failed to flush capture: %v", err)
	}
	if *outPath != "-" {
		log.Printf("wrote %d frames to %s", *count, *outPath)
	}
}
