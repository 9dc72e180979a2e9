// Command trace-plot renders PNG plots of a recorded session: the
// stabilized ray origin over time and the pointing gate timeline.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/glia-xr/handray/internal/handraydb"
)

var (
	dbPath    = flag.String("db", "handray.db", "session database path")
	sessionID = flag.String("session", "", "session to plot; empty uses the latest")
	outDir    = flag.String("o", "plots", "output directory")
)

func main() {
	flag.Parse()

	db, err := handraydb.New(*dbPath)
	if err != nil {
		log.Fatalf("failed to open session db: %v", err)
	}
	defer db.Close()

	session := *sessionID
	if session == "" {
		session, err = db.LatestSession()
		if err != nil {
			log.Fatalf("failed to resolve latest session: %v", err)
		}
	}

	frames, err := db.SessionRayFrames(session)
	if err != nil {
		log.Fatalf("failed to load session frames: %v", err)
	}
	if len(frames) == 0 {
		log.Fatalf("session %s has no recorded frames", session)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}
	if err := generateSessionPlots(session, frames, *outDir); err != nil {
		log.Fatalf("failed to generate plots: %v", err)
	}
	log.Printf("wrote plots for session %s to %s", session, *outDir)
}

var handColors = map[string]color.Color{
	"left":  color.RGBA{R: 214, G: 69, B: 65, A: 255},
	"right": color.RGBA{R: 31, G: 119, B: 180, A: 255},
}

func handColor(hand string) color.Color {
	if c, ok := handColors[hand]; ok {
		return c
	}
	return color.RGBA{A: 255}
}

// generateSessionPlots writes one origin plot per axis plus the gate
// timeline, all keyed to seconds since the first frame.
func generateSessionPlots(session string, frames []handraydb.RayFrameRow, outDir string) error {
	byHand := make(map[string][]handraydb.RayFrameRow)
	for _, f := range frames {
		byHand[f.Hand] = append(byHand[f.Hand], f)
	}
	start := frames[0].TimestampNanos

	axes := []struct {
		name string
		idx  int
	}{
		{"x", 0},
		{"y", 1},
		{"z", 2},
	}
	for _, axis := range axes {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("Ray origin %s - session %s", axis.name, session)
		p.X.Label.Text = "Time (s)"
		p.Y.Label.Text = "Distance (m)"

		for hand, rows := range byHand {
			pts := make(plotter.XYs, 0, len(rows))
			for _, row := range rows {
				pts = append(pts, plotter.XY{
					X: float64(row.TimestampNanos-start) / 1e9,
					Y: row.Origin[axis.idx],
				})
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				return err
			}
			line.Color = handColor(hand)
			line.Width = vg.Points(1)
			p.Add(line)
			p.Legend.Add(hand, line)
		}
		p.Legend.Top = true

		out := filepath.Join(outDir, fmt.Sprintf("origin_%s.png", axis.name))
		if err := p.Save(14*vg.Inch, 6*vg.Inch, out); err != nil {
			return fmt.Errorf("save origin plot: %w", err)
		}
	}

	pGate := plot.New()
	pGate.Title.Text = fmt.Sprintf("Pointing gate - session %s", session)
	pGate.X.Label.Text = "Time (s)"
	pGate.Y.Label.Text = "Gate (0/1)"
	pGate.Y.Min = -0.1
	pGate.Y.Max = 1.1

	for hand, rows := range byHand {
		pts := make(plotter.XYs, 0, len(rows))
		for _, row := range rows {
			v := 0.0
			if row.Pointing {
				v = 1.0
			}
			pts = append(pts, plotter.XY{
				X: float64(row.TimestampNanos-start) / 1e9,
				Y: v,
			})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = handColor(hand)
		line.Width = vg.Points(1)
		pGate.Add(line)
		pGate.Legend.Add(hand, line)
	}
	pGate.Legend.Top = true

	out := filepath.Join(outDir, "gate.png")
	if err := pGate.Save(14*vg.Inch, 3*vg.Inch, out); err != nil {
		return fmt.Errorf("save gate plot: %w", err)
	}
	return nil
}
