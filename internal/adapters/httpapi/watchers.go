package httpapi

import (
	"net/http"
	"time"

	"github.com/Guilhem-Bonnet/showwatch/internal/domain"
	"github.com/Guilhem-Bonnet/showwatch/internal/httpjson"
	"github.com/Guilhem-Bonnet/showwatch/internal/ports"
	"github.com/go-chi/chi/v5"
)

type WatchersHandler struct {
	watchlist ports.WatchlistSource
	state     ports.StateStore
	now       func() time.Time
}

func NewWatchersHandler(watchlist ports.WatchlistSource, state ports.StateStore, now func() time.Time) *WatchersHandler {
	if now == nil {
		now = time.Now
	}
	return &WatchersHandler{watchlist: watchlist, state: state, now: now}
}

func (h *WatchersHandler) Routes(r chi.Router) {
	r.Get("/watchers", h.list)
	r.Get("/watchers/{id}", h.get)
	r.Get("/state", h.getState)
}

type watcherView struct {
	domain.Watcher
	Active      bool   `json:"active"`
	Expired     bool   `json:"expired"`
	LastMaxDate string `json:"lastMaxDate,omitempty"`
}

func (h *WatchersHandler) views(r *http.Request) ([]watcherView, error) {
	list, err := h.watchlist.Load(r.Context())
	if err != nil {
		return nil, err
	}
	st, err := h.state.Load(r.Context())
	if err != nil {
		return nil, err
	}
	now := h.now()
	out := make([]watcherView, 0, len(list))
	for _, w := range list {
		v := watcherView{Watcher: w, Active: w.Active(now), Expired: w.Expired(now)}
		if d, ok := st.LastMax(w.ID); ok {
			v.LastMaxDate = d.String()
		}
		out = append(out, v)
	}
	return out, nil
}

func (h *WatchersHandler) list(w http.ResponseWriter, r *http.Request) {
	views, err := h.views(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, views)
}

func (h *WatchersHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	views, err := h.views(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	for _, v := range views {
		if v.ID == id {
			httpjson.Write(w, http.StatusOK, v)
			return
		}
	}
	httpjson.WriteError(w, http.StatusNotFound, "not found")
}

func (h *WatchersHandler) getState(w http.ResponseWriter, r *http.Request) {
	st, err := h.state.Load(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, st)
}

func writeErr(w http.ResponseWriter, err error) {
	if code := ports.ErrorCode(err); code != "" {
		httpjson.WriteCodedError(w, http.StatusInternalServerError, code, err.Error())
		return
	}
	httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
}
