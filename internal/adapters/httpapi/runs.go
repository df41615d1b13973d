package httpapi

import (
	"errors"
	"net/http"

	"github.com/Guilhem-Bonnet/showwatch/internal/app"
	"github.com/Guilhem-Bonnet/showwatch/internal/httpjson"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

type RunsHandler struct {
	runner RunTrigger
}

func NewRunsHandler(runner RunTrigger) *RunsHandler {
	return &RunsHandler{runner: runner}
}

func (h *RunsHandler) Routes(r chi.Router) {
	r.Post("/runs", h.trigger)
}

// trigger exécute un run de façon synchrone et renvoie son résultat.
func (h *RunsHandler) trigger(w http.ResponseWriter, r *http.Request) {
	res, err := h.runner.Run(r.Context())
	if err != nil {
		if errors.Is(err, app.ErrRunInProgress) {
			httpjson.WriteError(w, http.StatusConflict, err.Error())
			return
		}
		hlog.FromRequest(r).Error().Err(err).Str("run_id", res.RunID).Msg("run failed")
		writeErr(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, res)
}
