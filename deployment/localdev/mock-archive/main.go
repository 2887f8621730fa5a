// mock-archive serves synthetic archive responses for local development of
// the culprit engine: a channel matrix with a planted culprit, lock-state
// segments, and mean-frequency statistics.
package main

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"time"
)

type channelsRequest struct {
	Target     string   `json:"target"`
	Candidates []string `json:"candidates"`
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Rate       float64  `json:"rate"`
}

type channelPayload struct {
	Name    string    `json:"name"`
	Samples []float64 `json:"samples"`
}

type stateRequest struct {
	Channel string  `json:"channel"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

type stateSample struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/v1/archive/channels", func(w http.ResponseWriter, r *http.Request) {
		if !enforcePost(w, r) {
			return
		}
		var req channelsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		rate := req.Rate
		if rate <= 0 {
			rate = 256
		}
		n := int((req.End - req.Start) * rate)
		if n <= 0 {
			n = 2560
		}

		channels := make([]channelPayload, 0, 1+len(req.Candidates))
		// The target carries a slow oscillation plus noise shaped like the
		// second candidate, so that channel scores highest.
		channels = append(channels, channelPayload{Name: req.Target, Samples: synthSeries(n, rate, 0.4, 1.0)})
		for i, name := range req.Candidates {
			freq := 0.1 * float64(i+1)
			amp := 0.5
			if i == 1 {
				freq, amp = 0.4, 2.0
			}
			channels = append(channels, channelPayload{Name: name, Samples: synthSeries(n, rate, freq, amp)})
		}
		writeJSON(w, map[string]any{"rate": rate, "channels": channels})
	})

	mux.HandleFunc("/api/v1/archive/state", func(w http.ResponseWriter, r *http.Request) {
		if !enforcePost(w, r) {
			return
		}
		var req stateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		samples := []stateSample{
			{Time: req.Start, Value: 1},
			{Time: (req.Start + req.End) / 2, Value: 1},
			{Time: req.End, Value: 1},
		}
		writeJSON(w, map[string]any{
			"segments": []map[string]any{{"samples": samples}},
		})
	})

	mux.HandleFunc("/api/v1/archive/mean-frequency", func(w http.ResponseWriter, r *http.Request) {
		if !enforcePost(w, r) {
			return
		}
		writeJSON(w, map[string]any{"mean_frequency": 0.42})
	})

	logger := log.New(log.Writer(), "archive-mock ", log.LstdFlags|log.Lmicroseconds)
	srv := &http.Server{
		Addr:    ":8080",
		Handler: logRequests(logger, mux),
	}

	logger.Println("listening on :8080")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}

func synthSeries(n int, rate, freq, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / rate
		out[i] = amp * math.Sin(2*math.Pi*freq*t)
	}
	return out
}

func enforcePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rw.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
