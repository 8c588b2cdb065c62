package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchat/finchat/calc"
	"github.com/finchat/finchat/core"
	"github.com/finchat/finchat/model"
	"github.com/finchat/finchat/runner"
)

func newTestServer(t *testing.T, mock *model.MockModel) http.Handler {
	t.Helper()
	reg, err := calc.DefaultRegistry()
	require.NoError(t, err)
	return New(runner.New(mock, reg)).Handler()
}

func createSession(t *testing.T, h http.Handler, prompt string) string {
	t.Helper()
	body := strings.NewReader(`{"system_prompt": "` + prompt + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/sessions", body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["session_id"])
	return resp["session_id"]
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, model.NewMockModel("mock"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateSession(t *testing.T) {
	h := newTestServer(t, model.NewMockModel("mock"))
	id := createSession(t, h, "You are a helpful assistant.")
	assert.NotEmpty(t, id)
}

func TestSubmitMessage_StreamsEvents(t *testing.T) {
	mock := model.NewMockModel("mock").Enqueue(core.NewAssistantMessage("Hello there!"))
	h := newTestServer(t, mock)
	id := createSession(t, h, "prompt")

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/messages",
		strings.NewReader(`{"text": "hi"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: content\n")
	assert.Contains(t, body, "event: completed\n")
	assert.Contains(t, body, `"final_text":"Hello there!"`)
}

func TestSubmitMessage_ToolEvents(t *testing.T) {
	mock := model.NewMockModel("mock").Enqueue(
		core.Message{Role: core.RoleAssistant, ToolCalls: []core.ToolCall{
			{ID: "call-1", Name: "get_weather", Arguments: map[string]any{"location": "sf"}},
		}},
		core.NewAssistantMessage("It's 60°F and foggy in SF."),
	)
	h := newTestServer(t, mock)
	id := createSession(t, h, "prompt")

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/messages",
		strings.NewReader(`{"text": "weather in sf?"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "event: tool_invocation\n")
	assert.Contains(t, body, `"name":"get_weather"`)
	assert.Contains(t, body, "event: tool_result\n")
	assert.Contains(t, body, `"output":"It's 60 degrees and foggy."`)
	assert.Contains(t, body, "event: completed\n")

	// Event ordering on the wire.
	assert.Less(t,
		strings.Index(body, "event: tool_invocation"),
		strings.Index(body, "event: tool_result"))
	assert.Less(t,
		strings.Index(body, "event: tool_result"),
		strings.Index(body, "event: completed"))
}

func TestSubmitMessage_Validation(t *testing.T) {
	h := newTestServer(t, model.NewMockModel("mock"))
	id := createSession(t, h, "prompt")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/messages",
		strings.NewReader(`{"text": ""}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/messages",
		strings.NewReader(`not json`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitMessage_UnknownSession(t *testing.T) {
	h := newTestServer(t, model.NewMockModel("mock"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/nope/messages",
		strings.NewReader(`{"text": "hi"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistoryAndClear(t *testing.T) {
	mock := model.NewMockModel("mock").Enqueue(core.NewAssistantMessage("ok"))
	h := newTestServer(t, mock)
	id := createSession(t, h, "prompt")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/messages",
		strings.NewReader(`{"text": "hi"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []messageJSON `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 3)
	assert.Equal(t, "system", resp.Messages[0].Role)
	assert.Equal(t, "user", resp.Messages[1].Role)
	assert.Equal(t, "assistant", resp.Messages[2].Role)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/clear", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/history", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Messages, 1)
}

func TestDeleteSession(t *testing.T) {
	h := newTestServer(t, model.NewMockModel("mock"))
	id := createSession(t, h, "prompt")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/sessions/"+id, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/history", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	promReg := prometheus.NewRegistry()
	reg, err := calc.DefaultRegistry()
	require.NoError(t, err)

	r := runner.New(model.NewMockModel("mock"), reg)
	h := New(r, func(o *Options) {
		o.MetricsHandler = promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})
	}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
