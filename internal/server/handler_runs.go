package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/me/credsched/internal/workload"
	"github.com/me/credsched/pkg/model"
)

// handleCreateRun simulates the posted workload and records the run. Runs
// that abort are recorded too, with state FAILED.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, model.NewValidationError("Invalid request body: "+err.Error()))
		return
	}

	wl, err := workload.Parse(body)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, model.NewValidationError("Invalid workload: "+err.Error()))
		return
	}

	run, err := workload.Execute(wl, s.sim, s.logger)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			respondError(w, r, http.StatusBadRequest, apiErr)
			return
		}
		respondInternal(w, r, err)
		return
	}

	if err := s.store.CreateRun(r.Context(), run); err != nil {
		respondInternal(w, r, err)
		return
	}

	s.logger.Info("run recorded", "id", run.ID, "name", run.Name, "state", run.State, "clock", run.Summary.Clock)
	respond(w, r, http.StatusCreated, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	opts := model.DefaultListOptions()
	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		opts.Offset = v
	}
	opts.State = q.Get("state")
	opts.Clamp()

	runs, total, err := s.store.ListRuns(r.Context(), opts)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if runs == nil {
		runs = []*model.Run{}
	}

	respondPage(w, r, runs, model.NewPagination(total, len(runs), opts))
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if run == nil {
		respondError(w, r, http.StatusNotFound, model.NewNotFoundError("run", id))
		return
	}
	respond(w, r, http.StatusOK, run)
}
