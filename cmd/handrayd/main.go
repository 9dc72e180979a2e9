// Command handrayd runs the hand-pointing pipeline over a capture:
// frames in, stabilized rays and gate values out, recorded to sqlite
// and served through the debug monitor.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glia-xr/handray/internal/config"
	"github.com/glia-xr/handray/internal/handraydb"
	"github.com/glia-xr/handray/internal/handtrack"
	"github.com/glia-xr/handray/internal/monitor"
	"github.com/glia-xr/handray/internal/trace"
)

var (
	tracePath  = flag.String("trace", "", "capture file to replay (JSONL); empty reads stdin")
	dbPath     = flag.String("db", "handray.db", "session database path")
	listen     = flag.String("listen", ":8080", "monitor listen address; empty disables the monitor")
	configPath = flag.String("config", "", "tuning config JSON (optional)")
	label      = flag.String("label", "", "session label")
	realtime   = flag.Bool("realtime", false, "pace the replay to the capture timestamps")
)

// pipelineConfig binds the tuning file to the pipeline's config
// records.
func pipelineConfig(t *config.TuningConfig) handtrack.Config {
	return handtrack.Config{
		Pivot: handtrack.PivotConfig{
			BaseY:       t.GetPivotBaseY(),
			MultiplierY: t.GetPivotMultiplierY(),
			MinY:        t.GetPivotMinY(),
			MaxY:        t.GetPivotMaxY(),
			BaseX:       t.GetPivotBaseX(),
			MultiplierX: t.GetPivotMultiplierX(),
			MinX:        t.GetPivotMinX(),
			MaxX:        t.GetPivotMaxX(),
			OffsetZ:     t.GetHeadPivotOffsetZ(),
		},
		Gate: handtrack.GateConfig{
			BackwardTolerance:      t.GetBackwardTolerance(),
			UpTolerance:            t.GetUpTolerance(),
			FingerPointedTolerance: t.GetFingerPointedTolerance(),
			Delay:                  t.GetPointerGateDelay(),
		},
		StabilizerHalfLife: t.GetStabilizerHalfLife(),
	}
}

func main() {
	flag.Parse()

	tuning := config.EmptyTuningConfig()
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
		tuning = loaded
	}

	db, err := handraydb.New(*dbPath)
	if err != nil {
		log.Fatalf("failed to open session db: %v", err)
	}
	defer db.Close()

	sessionID, err := db.CreateSession(*label, time.Now())
	if err != nil {
		log.Fatalf("failed to create session: %v", err)
	}
	log.Printf("recording session %s", sessionID)

	cfg := pipelineConfig(tuning)
	pipelines := map[handtrack.Handedness]*handtrack.HandPipeline{
		handtrack.LeftHand:  handtrack.NewHandPipeline(handtrack.LeftHand, cfg),
		handtrack.RightHand: handtrack.NewHandPipeline(handtrack.RightHand, cfg),
	}

	ws := monitor.NewWebServer(
		[]*handtrack.HandPipeline{pipelines[handtrack.LeftHand], pipelines[handtrack.RightHand]},
		db, sessionID,
	)
	if *listen != "" {
		go func() {
			log.Printf("monitor listening on %s", *listen)
			if err := http.ListenAndServe(*listen, ws.ServeMux()); err != nil {
				log.Printf("monitor server stopped: %v", err)
			}
		}()
	}

	var input io.Reader = os.Stdin
	if *tracePath != "" {
		f, err := os.Open(*tracePath)
		if err != nil {
			log.Fatalf("failed to open capture: %v", err)
		}
		defer f.Close()
		input = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	frames, transitions := replay(ctx, trace.NewReader(input), pipelines, db, ws, sessionID, *realtime)
	log.Printf("replay complete: %d frames, %d gate transitions", frames, transitions)

	if *listen != "" && ctx.Err() == nil {
		log.Printf("monitor still serving; interrupt to exit")
		<-ctx.Done()
	}
}

// replay drives the pipelines with the capture's frames, recording
// every tick and each gate transition.
func replay(
	ctx context.Context,
	r *trace.Reader,
	pipelines map[handtrack.Handedness]*handtrack.HandPipeline,
	db *handraydb.DB,
	ws *monitor.WebServer,
	sessionID string,
	realtime bool,
) (frames, transitions int) {
	lastPointing := make(map[handtrack.Handedness]bool)
	var prev time.Time

	for ctx.Err() == nil {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("stopping replay: %v", err)
			break
		}

		ts := f.Timestamp()
		if realtime && !prev.IsZero() && ts.After(prev) {
			select {
			case <-time.After(ts.Sub(prev)):
			case <-ctx.Done():
				return
			}
		}
		prev = ts

		hand := f.Handedness()
		p := pipelines[hand]
		if f.HasJoints() {
			p.UpdateHandJoints(ts, f.Head.Pose(), f.JointPoses())
		} else {
			p.Update(f.Input())
		}
		frames++

		snap := p.Snapshot()
		if err := db.RecordRayFrame(sessionID, snap); err != nil {
			log.Printf("failed to record frame: %v", err)
		}

		if snap.Pointing != lastPointing[hand] {
			lastPointing[hand] = snap.Pointing
			transitions++
			if err := db.RecordGateEvent(sessionID, ts, hand, snap.Pointing); err != nil {
				log.Printf("failed to record gate event: %v", err)
			}
			ws.Publish(handraydb.GateEventRow{
				TimestampNanos: ts.UnixNano(),
				Hand:           string(hand),
				Pointing:       snap.Pointing,
			})
		}
	}
	return frames, transitions
}
