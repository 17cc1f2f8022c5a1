package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const readyTimeout = 2 * time.Second

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(map[string]string{"status": "ok"}).Write(w)
}

// handleReady pings the store so load balancers stop routing to an
// instance whose database is gone.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.ledger.Ping(ctx); err != nil {
		s.logger.WarnContext(ctx, "Readiness check failed", "error", err)
		NewJSONResponse().
			Status(http.StatusServiceUnavailable).
			JSON(map[string]string{"status": "unavailable"}).
			Write(w)
		return
	}
	NewJSONResponse().JSON(map[string]string{"status": "ready"}).Write(w)
}

// handleMetrics writes counters as "name value" lines.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	line := func(name string, v int64) {
		fmt.Fprintf(&b, "%s %d\n", name, v)
	}

	tm := s.tracer.GetMetrics()
	line("http_requests_total", tm.TotalRequests)
	line("http_requests_in_flight", tm.InFlight)
	line("http_client_errors_total", tm.ClientErrors)
	line("http_server_errors_total", tm.ServerErrors)
	line("http_response_time_avg_microseconds", tm.AverageResponseTime)

	c := s.ledger.Counters()
	line("expenses_created_total", c.Created)
	line("expenses_replayed_total", c.Replayed)
	line("expenses_conflicts_total", c.Conflicts)

	if s.cacheStats != nil {
		cs := s.cacheStats()
		line("record_cache_entries", int64(cs.Size))
		line("record_cache_hits_total", cs.Hits)
		line("record_cache_misses_total", cs.Misses)
	}

	rl := s.limiter.GetMetrics()
	line("rate_limited_requests_total", rl.TotalHits)
	line("rate_limit_clients", rl.ClientCount)

	sec := s.detector.GetMetrics()
	line("suspicious_requests_total", sec.SuspiciousRequests)
	line("invalid_client_ip_total", sec.InvalidIPAttempts)

	NewJSONResponse().
		Header("Content-Type", "text/plain; charset=utf-8").
		Body([]byte(b.String())).
		Write(w)
}
