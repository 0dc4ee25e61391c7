package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/specialistvlad/meshplan/internal/config"
	"github.com/specialistvlad/meshplan/internal/ctxlog"
	"github.com/specialistvlad/meshplan/internal/mesh"
	"github.com/specialistvlad/meshplan/internal/mission"
	"github.com/specialistvlad/meshplan/internal/planner"
	"github.com/specialistvlad/meshplan/internal/session"
)

type partitionRequest struct {
	Agents []*config.Agent `json:"agents"`
}

type partitionResponse struct {
	*session.PartitionResult
	Status string `json:"status,omitempty"`
}

type goalRequest struct {
	Agent int               `json:"agent"`
	Goal  config.Coordinate `json:"goal"`
}

type goalResponse struct {
	*planner.Path
	Error string `json:"error,omitempty"`
}

type coverageRequest struct {
	Agent int                `json:"agent"`
	Home  *config.Coordinate `json:"home,omitempty"`
}

type coverageResponse struct {
	*planner.Tour
	Length  float64 `json:"length"`
	Mission string  `json:"mission,omitempty"`
}

// handler builds the API mux. Every planning call is serialised by the session.
func (a *App) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("POST /region", a.regionHandler)
	mux.HandleFunc("POST /partition", a.partitionHandler)
	mux.HandleFunc("POST /plan/goal", a.goalHandler)
	mux.HandleFunc("POST /plan/coverage", a.coverageHandler)
	return mux
}

// healthHandler creates an http.Handler that logs requests to the provided logger.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) regionHandler(w http.ResponseWriter, r *http.Request) {
	var req config.Region
	if !a.decode(w, r, &req) {
		return
	}
	info, err := a.session.DefineRegion(a.requestContext(r), toRegion(&req))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.respond(w, http.StatusOK, info)
}

func (a *App) partitionHandler(w http.ResponseWriter, r *http.Request) {
	var req partitionRequest
	if !a.decode(w, r, &req) {
		return
	}
	specs, err := toSpecs(req.Agents)
	if err != nil {
		a.fail(w, err)
		return
	}
	res, err := a.session.Partition(a.requestContext(r), specs)
	if err != nil {
		a.fail(w, err)
		return
	}
	resp := partitionResponse{PartitionResult: res}
	if res.Status != nil {
		resp.Status = res.Status.Error()
	}
	a.respond(w, http.StatusOK, resp)
}

func (a *App) goalHandler(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !a.decode(w, r, &req) {
		return
	}
	path, err := a.session.PlanToGoal(a.requestContext(r), req.Agent, point(req.Goal))
	if err != nil && !errors.Is(err, planner.ErrBranchIsolated) {
		a.fail(w, err)
		return
	}
	resp := goalResponse{Path: path}
	if err != nil {
		resp.Error = err.Error()
	}
	a.respond(w, http.StatusOK, resp)
}

func (a *App) coverageHandler(w http.ResponseWriter, r *http.Request) {
	var req coverageRequest
	if !a.decode(w, r, &req) {
		return
	}
	tour, err := a.session.PlanFullCoverage(a.requestContext(r), req.Agent)
	if err != nil {
		a.fail(w, err)
		return
	}
	resp := coverageResponse{Tour: tour, Length: planner.Length(tour.Waypoints)}
	if req.Home != nil {
		var buf bytes.Buffer
		items := mission.Build(point(*req.Home), planner.Points(tour.Waypoints), mission.DefaultOptions())
		if err := mission.Write(&buf, items); err != nil {
			a.fail(w, err)
			return
		}
		resp.Mission = buf.String()
	}
	a.respond(w, http.StatusOK, resp)
}

func (a *App) requestContext(r *http.Request) context.Context {
	return ctxlog.WithLogger(r.Context(), a.logger.With("path", r.URL.Path))
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		a.respond(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}

// fail maps engine errors onto HTTP statuses.
func (a *App) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrGeometryUnavailable), errors.Is(err, session.ErrNotPartitioned):
		status = http.StatusConflict
	case errors.Is(err, mesh.ErrDegenerateRegion),
		errors.Is(err, planner.ErrUnknownAgent),
		errors.Is(err, planner.ErrInvalidGoal),
		errors.Is(err, config.ErrInvalid):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("Request failed.", "error", err)
	}
	a.respond(w, status, map[string]string{"error": err.Error()})
}

func (a *App) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("Failed to encode response.", "error", err)
	}
}

// serve runs the API until ctx is cancelled.
func (a *App) serve(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	a.httpServer = &http.Server{
		Addr:              a.config.Listen,
		Handler:           a.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🛰️ Planning API starting", "address", a.config.Listen)
		// ListenAndServe will return an error on graceful shutdown.
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("planning API failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	return a.closeServer()
}

func (a *App) closeServer() error {
	logger := a.logger
	if a.httpServer == nil {
		logger.Debug("Planning API was not running.")
		return nil
	}

	// Create a context with a timeout for the shutdown process.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("Shutting down planning API...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Planning API shutdown failed", "error", err)
		return err
	}
	logger.Debug("Planning API shut down gracefully.")
	return nil
}
