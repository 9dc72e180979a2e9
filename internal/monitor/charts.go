package monitor

import (
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/glia-xr/handray/internal/handraydb"
)

// handleSessionCharts renders a quick HTML page of a recorded session
// using go-echarts: the gate timeline and the stabilized ray origin
// over time. Query params:
//   - session_id (optional; defaults to the session this server records
//     into, then to the latest recorded session)
func (ws *WebServer) handleSessionCharts(w http.ResponseWriter, r *http.Request) {
	if ws.db == nil {
		ws.writeJSONError(w, http.StatusNotFound, "no session store configured")
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = ws.sessionID
	}
	if sessionID == "" {
		latest, err := ws.db.LatestSession()
		if err != nil {
			ws.writeJSONError(w, http.StatusNotFound, "no sessions recorded")
			return
		}
		sessionID = latest
	}

	frames, err := ws.db.SessionRayFrames(sessionID)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, "failed to load session frames")
		return
	}
	if len(frames) == 0 {
		ws.writeJSONError(w, http.StatusNotFound, "session has no recorded frames")
		return
	}

	byHand := make(map[string][]handraydb.RayFrameRow)
	for _, f := range frames {
		byHand[f.Hand] = append(byHand[f.Hand], f)
	}

	startNanos := frames[0].TimestampNanos

	gate := charts.NewLine()
	gate.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "pointing gate", Subtitle: sessionID}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
	)
	origin := charts.NewLine()
	origin.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "stabilized ray origin"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "meters"}),
	)

	for hand, rows := range byHand {
		xs := make([]string, 0, len(rows))
		gateData := make([]opts.LineData, 0, len(rows))
		originX := make([]opts.LineData, 0, len(rows))
		originY := make([]opts.LineData, 0, len(rows))
		originZ := make([]opts.LineData, 0, len(rows))
		for _, row := range rows {
			xs = append(xs, fmt.Sprintf("%.2f", float64(row.TimestampNanos-startNanos)/1e9))
			v := 0
			if row.Pointing {
				v = 1
			}
			gateData = append(gateData, opts.LineData{Value: v})
			originX = append(originX, opts.LineData{Value: row.Origin[0]})
			originY = append(originY, opts.LineData{Value: row.Origin[1]})
			originZ = append(originZ, opts.LineData{Value: row.Origin[2]})
		}
		gate.SetXAxis(xs).AddSeries(hand, gateData)
		origin.SetXAxis(xs).
			AddSeries(hand+" x", originX).
			AddSeries(hand+" y", originY).
			AddSeries(hand+" z", originZ)
	}

	page := components.NewPage()
	page.AddCharts(gate, origin)
	if err := page.Render(w); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, "failed to render charts")
	}
}
