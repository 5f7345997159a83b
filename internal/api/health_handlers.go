package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"catalog": s.checkCatalog(),
		"search":  s.checkSearchIndex(),
		"covers":  s.checkCoverCache(),
	}

	overall := "healthy"
	for _, c := range components {
		switch {
		case c.Status == "unhealthy":
			overall = "unhealthy"
		case c.Status == "degraded" && overall == "healthy":
			overall = "degraded"
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

func (s *Server) checkCatalog() ComponentHealth {
	if s.services == nil || s.services.Recommend == nil {
		return ComponentHealth{Status: "unhealthy", Message: "catalog not loaded"}
	}
	summary := s.services.Recommend.Summary()
	return ComponentHealth{
		Status:  "healthy",
		Message: strconv.Itoa(summary.Books) + " books, " + strconv.Itoa(summary.Genres) + " genres",
	}
}

// checkSearchIndex verifies the title index answers.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.services == nil || s.services.Recommend == nil {
		return ComponentHealth{Status: "degraded", Message: "title index not configured"}
	}

	start := time.Now()
	docCount, err := s.services.Recommend.IndexedTitles()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "title index unreachable",
		}
	}
	if docCount == 0 {
		return ComponentHealth{
			Status:  "degraded",
			Latency: latency.String(),
			Message: "title index empty",
		}
	}

	return ComponentHealth{Status: "healthy", Latency: latency.String()}
}

// checkCoverCache reports the cover cache. Covers are optional, so a
// missing cache only degrades.
func (s *Server) checkCoverCache() ComponentHealth {
	if s.services == nil || s.services.Cache == nil {
		return ComponentHealth{Status: "degraded", Message: "cover cache not configured"}
	}

	start := time.Now()
	n, err := s.services.Cache.CoverCount()
	latency := time.Since(start)
	if err != nil {
		return ComponentHealth{Status: "degraded", Latency: latency.String(), Message: "cover cache read failed"}
	}

	msg := strconv.Itoa(n) + " cached covers"
	if s.services.Cache.InMemory() {
		msg += " (in-memory)"
	}
	return ComponentHealth{Status: "healthy", Latency: latency.String(), Message: msg}
}
