package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Guilhem-Bonnet/showwatch/internal/ports"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNotifier_PostsSendMessage(t *testing.T) {
	var gotPath string
	var got sendMessageRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	defer ts.Close()

	n := NewNotifier(zerolog.Nop(), resty.New(), ts.URL, "123:abc", "-1001")
	require.NoError(t, n.Send(context.Background(), "hello"))
	require.Equal(t, "/bot123:abc/sendMessage", gotPath)
	require.Equal(t, "-1001", got.ChatID)
	require.Equal(t, "hello", got.Text)
}

func TestNotifier_HTTPErrorRedactsToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Unauthorized for ` + r.URL.Path + `"}`))
	}))
	defer ts.Close()

	n := NewNotifier(zerolog.Nop(), resty.New(), ts.URL, "secret-token", "1")
	err := n.Send(context.Background(), "hello")
	require.Error(t, err)
	require.Equal(t, "http_status", ports.ErrorCode(err))
	require.False(t, strings.Contains(err.Error(), "secret-token"), "token leaked: %s", err)
}

func TestNotifier_DryRunWithoutToken(t *testing.T) {
	n := NewNotifier(zerolog.Nop(), resty.New(), "http://127.0.0.1:1", "", "")
	require.True(t, n.DryRun())
	require.NoError(t, n.Send(context.Background(), "hello"))
}
