package route

import (
	"net/http"

	"eventcal/src-server/utils"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler registers every route on a fresh muxer.
func Handler(as *utils.AppState) http.Handler {
	muxer := http.NewServeMux()
	muxer.Handle("GET /metrics", promhttp.Handler())
	Health(muxer, as)
	Events(muxer, as)
	Ical(muxer, as)
	SPA(muxer, as)
	return LogMiddleware(CorsMiddleware(as, muxer))
}
