package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Guilhem-Bonnet/showwatch/internal/adapters/memorybus"
	"github.com/Guilhem-Bonnet/showwatch/internal/app"
	"github.com/Guilhem-Bonnet/showwatch/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type staticWatchlist []domain.Watcher

func (l staticWatchlist) Load(context.Context) ([]domain.Watcher, error) { return l, nil }

type staticState struct{ st domain.State }

func (s *staticState) Load(context.Context) (domain.State, error) { return s.st.Clone(), nil }
func (s *staticState) Save(_ context.Context, st domain.State) error {
	s.st = st.Clone()
	return nil
}

type fakeRunner struct {
	res  app.RunResult
	err  error
	last *app.LastRun
}

func (f *fakeRunner) Run(context.Context) (app.RunResult, error) { return f.res, f.err }

func (f *fakeRunner) LastRun() (app.LastRun, bool) {
	if f.last == nil {
		return app.LastRun{}, false
	}
	return *f.last, true
}

func newTestServer(t *testing.T, runner RunTrigger) (*Server, *memorybus.Bus) {
	t.Helper()
	expired := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	list := staticWatchlist{
		{ID: "m1", Movie: "Dune", Cinema: "PVR Juhu", URL: "https://example.test/m1", Enabled: true},
		{ID: "m2", Movie: "Old", Cinema: "INOX", URL: "https://example.test/m2", Enabled: true, ExpiresAt: &expired},
	}
	st := domain.NewState()
	d, err := domain.ParseShowDate("2025-06-03")
	require.NoError(t, err)
	st.SetLastMax("m1", d)

	bus := memorybus.New()
	s := NewServer(zerolog.Nop(), runner, list, &staticState{st: st}, bus)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s, bus
}

func TestWatchers_List(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/watchers", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d", http.StatusOK, rr.Code)
	}

	var got []watcherView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.True(t, got[0].Active)
	require.Equal(t, "2025-06-03", got[0].LastMaxDate)
	require.False(t, got[1].Active)
	require.True(t, got[1].Expired)
	require.Empty(t, got[1].LastMaxDate)
}

func TestWatchers_GetNotFound(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/watchers/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: want %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestState_Get(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d", http.StatusOK, rr.Code)
	}
	require.JSONEq(t, `{"m1":{"lastMaxDate":"2025-06-03"}}`, rr.Body.String())
}

func TestRuns_Trigger(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{res: app.RunResult{RunID: "r1", Outcome: app.OutcomeCompleted, Notifications: 1}})

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d", http.StatusOK, rr.Code)
	}
	var got app.RunResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "r1", got.RunID)
	require.Equal(t, 1, got.Notifications)
}

func TestRuns_InProgressIsConflict(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{err: app.ErrRunInProgress})

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil))
	if rr.Code != http.StatusConflict {
		t.Fatalf("status: want %d, got %d", http.StatusConflict, rr.Code)
	}
}

func TestRuns_FailureKeepsErrorCode(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{err: &app.CodedError{Code: "http_status", Message: "fetch: 503"}})

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: want %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	require.Contains(t, rr.Body.String(), `"code":"http_status"`)
}

func TestEvents_StreamsBusEvents(t *testing.T) {
	s, bus := newTestServer(t, nil)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	sc := bufio.NewScanner(res.Body)
	readEvent := func() (string, string) {
		var topic, data string
		for sc.Scan() {
			line := sc.Text()
			if line == "" {
				return topic, data
			}
			if v, ok := strings.CutPrefix(line, "event: "); ok {
				topic = v
			}
			if v, ok := strings.CutPrefix(line, "data: "); ok {
				data = v
			}
		}
		t.Fatalf("stream ended: %v", sc.Err())
		return "", ""
	}

	topic, _ := readEvent()
	require.Equal(t, "hello", topic)

	bus.Publish("watcher.new_date", []byte(`{"watcherId":"m1"}`))
	topic, data := readEvent()
	require.Equal(t, "watcher.new_date", topic)
	require.Equal(t, `{"watcherId":"m1"}`, data)
}

func TestOpenAPI_ListsRoutes(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.json", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d", http.StatusOK, rr.Code)
	}
	require.Contains(t, rr.Body.String(), "/api/v1/runs")
}

func TestHealth_ReportsLastRun(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{last: &app.LastRun{RunID: "r42", Outcome: app.OutcomeExhausted}})

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d", http.StatusOK, rr.Code)
	}
	var got healthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "ok", got.Status)
	require.NotEmpty(t, got.Version)
	require.NotNil(t, got.LastRun)
	require.Equal(t, "r42", got.LastRun.RunID)
	require.Equal(t, app.OutcomeExhausted, got.LastRun.Outcome)
}

func TestHealth_WithoutRunner(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), "lastRun")
}
