package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ts2/transitcore/schedule"
)

// GET /api/network - the static track network: stations and edges.
func serveNetwork(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if net == nil {
		http.Error(w, "not initialized", http.StatusServiceUnavailable)
		return
	}
	type vertexOut struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	type edgeOut struct {
		From   int64   `json:"from"`
		To     int64   `json:"to"`
		Weight float64 `json:"weight"`
	}
	vertices := net.Vertices()
	vout := make([]vertexOut, 0, len(vertices))
	var eout []edgeOut
	for _, v := range vertices {
		vout = append(vout, vertexOut{ID: int64(v), Name: net.VertexName(v)})
		for _, e := range net.OutEdges(v) {
			weight, ok := net.EdgeWeight(e)
			if !ok {
				continue
			}
			from, to := net.EdgeEndpoints(e)
			eout = append(eout, edgeOut{From: int64(from), To: int64(to), Weight: weight})
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"vertices": vout, "edges": eout})
}

// GET /api/schedule - every synthesized train route, in string form.
func serveSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if sched == nil {
		http.Error(w, "not initialized", http.StatusServiceUnavailable)
		return
	}
	routes := sched.TrainRoutes()
	out := make([]string, 0, len(routes))
	for _, tr := range routes {
		out = append(out, tr.String())
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"routes": out})
}

// GET /api/simulation/snapshot - the simulator's current read-only state.
func serveSimulationSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if sim == nil {
		http.Error(w, "not initialized", http.StatusServiceUnavailable)
		return
	}
	snap := sim.Snapshot()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"currentTime": int(snap.CurrentTime),
		"numActive":   snap.NumActive,
		"numExited":   snap.NumExited,
		"numStranded": snap.NumStranded,
		"running":     sim.IsStarted(),
	})
}

// GET /api/analytics/kpis - most recent passenger KPI snapshot.
func serveKPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if sim != nil {
		takeSnapshot()
	}
	snap := latestSnapshot()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"timestamp":         snap.ts.Format(time.RFC3339),
		"averageWaitTime":   snap.averageWaitTime,
		"p90WaitTime":       snap.p90WaitTime,
		"averageTravelTime": snap.averageTravelTime,
		"throughput":        snap.throughput,
		"strandedCount":     snap.strandedCount,
	})
}

// GET /api/analytics/historical?window=<minutes> - KPI snapshots within
// the trailing window (default defaultThroughputWindow).
func serveKPIHistorical(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	window := defaultThroughputWindow
	if m := r.URL.Query().Get("window"); m != "" {
		if mins, err := strconv.Atoi(m); err == nil && mins > 0 {
			window = time.Duration(mins) * time.Minute
		}
	}
	snaps := historicalSnapshots(window)
	type row struct {
		Timestamp         string  `json:"timestamp"`
		AverageWaitTime   float64 `json:"averageWaitTime"`
		P90WaitTime       float64 `json:"p90WaitTime"`
		AverageTravelTime float64 `json:"averageTravelTime"`
		Throughput        int     `json:"throughput"`
		StrandedCount     int     `json:"strandedCount"`
	}
	out := make([]row, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, row{
			Timestamp:         s.ts.Format(time.RFC3339),
			AverageWaitTime:   s.averageWaitTime,
			P90WaitTime:       s.p90WaitTime,
			AverageTravelTime: s.averageTravelTime,
			Throughput:        s.throughput,
			StrandedCount:     s.strandedCount,
		})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"snapshots": out})
}

// POST /api/simulation/restart - rebuild the simulator from the
// originally configured demand, optionally auto-starting it.
func serveSimulationRestart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if sim == nil {
		http.Error(w, "not initialized", http.StatusServiceUnavailable)
		return
	}
	if sim.IsStarted() {
		sim.Pause()
	}
	rebuildSimulator()
	recordSimulationControl("RESTARTED")

	var body struct {
		AutoStart bool `json:"autoStart"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.AutoStart {
		sim.Start(schedule.Time(simCfg.MaxStepSize))
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"status":"OK"}`))
}

// GET /api/audit/logs?since=<id>&limit=<n> - recent audit entries.
func serveAuditLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	since := int64(0)
	if s := r.URL.Query().Get("since"); s != "" {
		since, _ = strconv.ParseInt(s, 10, 64)
	}
	limit := 200
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	entries := audits.getSince(since, limit)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"entries": entries})
}

// GET /api/audit/stream - server-sent events of new audit entries.
func serveAuditStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	ch := audits.subscribe()
	defer audits.unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	notify := r.Context().Done()
	for {
		select {
		case <-notify:
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			b, err := json.Marshal(entry)
			if err != nil {
				continue
			}
			w.Write([]byte("data: "))
			w.Write(b)
			w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}

func installHTTPAPI() {
	http.HandleFunc("/api/network", serveNetwork)
	http.HandleFunc("/api/schedule", serveSchedule)
	http.HandleFunc("/api/simulation/snapshot", serveSimulationSnapshot)
	http.HandleFunc("/api/simulation/restart", serveSimulationRestart)
	http.HandleFunc("/api/analytics/kpis", serveKPI)
	http.HandleFunc("/api/analytics/historical", serveKPIHistorical)
	http.HandleFunc("/api/audit/logs", serveAuditLogs)
	http.HandleFunc("/api/audit/stream", serveAuditStream)
}
