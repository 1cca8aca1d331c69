package http

import (
	"net/http"
	"strings"
	"time"

	"jobboard/internal/domain/user"
	"jobboard/internal/http/handlers"
	"jobboard/internal/http/metrics"
	httpmw "jobboard/internal/http/middleware"
	"jobboard/internal/observability"
)

type RouterDependencies struct {
	JobHandler         *handlers.JobHandler
	ApplicationHandler *handlers.ApplicationHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Metrics            *metrics.Collector
	Logger             *observability.Logger
	RequestTimeout     time.Duration
}

type Router struct {
	deps           RouterDependencies
	metricsHandler *metrics.Handler
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps, metricsHandler: metrics.NewHandler(deps.Metrics)}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging(r.deps.Logger), httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, httpmw.Metrics(r.deps.Metrics), httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.metricsHandler.ServeHTTP(w, req)
			return
		case req.Method == http.MethodGet && path == "/jobs":
			r.deps.JobHandler.List(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/jobs/") && segmentCount(path) == 2:
			r.deps.JobHandler.Get(w, req)
			return
		}

		if strings.HasPrefix(path, "/jobs") || strings.HasPrefix(path, "/seekers") || strings.HasPrefix(path, "/employers") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodPost && path == "/jobs":
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.JobHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/jobs/") && segmentCount(path) == 2:
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.JobHandler.Update)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/jobs/") && segmentCount(path) == 2:
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.JobHandler.Delete)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/jobs/") && strings.HasSuffix(path, "/apply"):
		httpmw.RequireRole(user.RoleSeeker)(http.HandlerFunc(r.deps.ApplicationHandler.Apply)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/jobs/") && strings.Contains(path, "/applications/") && strings.HasSuffix(path, "/status"):
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.ApplicationHandler.UpdateStatus)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/jobs/") && strings.Contains(path, "/applications/") && strings.HasSuffix(path, "/accept"):
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.ApplicationHandler.Accept)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/jobs/") && strings.Contains(path, "/applications/") && strings.HasSuffix(path, "/reject"):
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.ApplicationHandler.Reject)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/seekers/jobs":
		httpmw.RequireRole(user.RoleSeeker)(http.HandlerFunc(r.deps.JobHandler.ListAnnotated)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/seekers/applications":
		httpmw.RequireRole(user.RoleSeeker)(http.HandlerFunc(r.deps.JobHandler.ListApplied)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/employers/jobs":
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.JobHandler.ListByEmployer)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/employers/applications":
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.JobHandler.ListEmployerApplications)).ServeHTTP(w, req)
		return
	}

	http.NotFound(w, req)
}

func segmentCount(path string) int {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(trimmed, "/"))
}
