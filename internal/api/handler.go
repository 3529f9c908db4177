package api

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/rolling-stock-scheduling/rssched-solver/internal/instance"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/localsearch"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/objective"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/schedule"
)

// Handler bundles the HTTP surface's dependencies: the local-search
// options every /solve request runs with, the thread count reported in the
// output's info block (read once at startup from RAYON_NUM_THREADS), and
// the structured logger.
type Handler struct {
	Options localsearch.Options
	Threads int
	Logger  *zap.Logger
}

// NewHandler builds a Handler with opts and threads fixed for the process
// lifetime; everything else is request-scoped.
func NewHandler(opts localsearch.Options, threads int, logger *zap.Logger) *Handler {
	return &Handler{Options: opts, Threads: threads, Logger: logger}
}

// Health answers GET /health. The solver holds no datastore connection to
// probe, so this handler is dependency-free by construction.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Healthy"))
}

// Solve answers POST /solve: decode, validate/load, run local search, and
// format the output. A driver that reports the circulation persistently
// infeasible answers 500 Unsolvable; an unexpected panic answers 500
// Internal.
func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			h.Logger.Error("solve request panicked", zap.Any("panic", rec))
			writeError(w, h.Logger, http.StatusInternalServerError, KindInternal, "internal error")
		}
	}()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.fail(w, http.StatusBadRequest, KindInvalidInstance, errors.Wrap(err, "reading request body"))

		return
	}
	if len(body) == 0 {
		h.fail(w, http.StatusBadRequest, KindInvalidInstance, errors.New("empty request body"))

		return
	}

	var req SolveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.fail(w, http.StatusBadRequest, KindInvalidInstance, errors.Wrap(err, "decoding solve request"))

		return
	}

	inst, err := instance.Load(toInstanceInput(req))
	if err != nil {
		h.fail(w, http.StatusBadRequest, KindInvalidInstance, errors.Wrap(err, "loading instance"))

		return
	}

	initial := schedule.NewInitialSchedule(inst)
	obj := objective.NewRollingStockObjective()
	result, err := localsearch.Run(inst, obj, initial, h.Options)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, KindUnsolvable, errors.Wrap(err, "solving instance"))

		return
	}

	hostname, _ := os.Hostname()
	resp := buildResponse(inst, result, h.Threads, time.Since(start).Milliseconds(), time.Now().UTC().Format(time.RFC3339), hostname)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Logger.Error("failed to encode solve response", zap.Error(err))
	}

	h.Logger.Info("solve request completed",
		zap.Duration("runningTime", time.Since(start)),
		zap.Int("numberOfThreads", h.Threads),
		zap.Int64("unservedPassengers", resp.ObjectiveValue.UnservedPassengers),
		zap.Int64("vehicleCount", resp.ObjectiveValue.VehicleCount),
	)
}

func (h *Handler) fail(w http.ResponseWriter, status int, kind Kind, err error) {
	h.Logger.Warn("solve request rejected", zap.String("kind", string(kind)), zap.Error(err))
	writeError(w, h.Logger, status, kind, err.Error())
}
