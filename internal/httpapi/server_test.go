package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"modelbridge/internal/manager"
	"modelbridge/internal/session"
	"modelbridge/pkg/types"
)

type mockService struct {
	models    []types.Model
	status    types.StatusResponse
	ready     bool
	loadErr   error
	embedErr  error
	searchErr error
	lastLoad  types.LoadRequest
	lastQuery types.SearchRequest
	unloads   int
}

func (m *mockService) Handshake() string            { return session.HandshakeMessage }
func (m *mockService) ListModels() []types.Model    { return append([]types.Model(nil), m.models...) }
func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool                  { return m.ready }
func (m *mockService) Load(ctx context.Context, req types.LoadRequest) (types.LoadResponse, error) {
	m.lastLoad = req
	if m.loadErr != nil {
		return types.LoadResponse{}, m.loadErr
	}
	return types.LoadResponse{Loaded: true, Path: req.Path, Message: "model loaded"}, nil
}
func (m *mockService) Unload() types.LoadResponse {
	m.unloads++
	return types.LoadResponse{Loaded: false}
}
func (m *mockService) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return []float32{1, 0, 0}, nil
}
func (m *mockService) Search(ctx context.Context, req types.SearchRequest) (types.SearchResponse, error) {
	m.lastQuery = req
	if m.searchErr != nil {
		return types.SearchResponse{}, m.searchErr
	}
	return types.SearchResponse{Engine: "placeholder", Results: []types.SearchHit{{Text: req.Text, Score: 1}}}, nil
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandshakeHandler(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/handshake", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.HandshakeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Message != session.HandshakeMessage {
		t.Fatalf("message=%q", body.Message)
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
}

func TestModelsHandler(t *testing.T) {
	svc := &mockService{models: []types.Model{{ID: "m1"}, {ID: "m2"}}}
	r := NewMux(svc)
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.ModelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Models) != 2 {
		t.Fatalf("models len=%d", len(body.Models))
	}
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{Loaded: true, HandleBytes: 10}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !body.Loaded || body.HandleBytes != 10 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestReadyz(t *testing.T) {
	r := NewMux(&mockService{ready: true})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz_NotReady(t *testing.T) {
	r := NewMux(&mockService{ready: false})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "no model loaded") {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestLoad_WithPath(t *testing.T) {
	svc := &mockService{}
	w := postJSON(t, NewMux(svc), "/load", `{"path":"/models/test.bin"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if svc.lastLoad.Path != "/models/test.bin" {
		t.Fatalf("path not forwarded: %+v", svc.lastLoad)
	}
}

func TestLoad_EmptyBodyUsesDefault(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/load", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if svc.lastLoad != (types.LoadRequest{}) {
		t.Fatalf("expected empty request, got %+v", svc.lastLoad)
	}
}

func TestLoad_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		kind string
	}{
		{session.ErrInvalidArgument("empty model path"), http.StatusBadRequest, "invalid_argument"},
		{session.ErrNotFound("/x.gguf", nil), http.StatusNotFound, "not_found"},
		{manager.ErrModelNotFound("ghost"), http.StatusNotFound, "not_found"},
		{session.ErrMalformedFormat("/x.gguf", "bad magic"), http.StatusUnprocessableEntity, "malformed_format"},
		{session.ErrUnsupportedVersion("/x.gguf", 1), http.StatusUnprocessableEntity, "unsupported_version"},
		{session.ErrResourceExhausted("alloc", nil), http.StatusInsufficientStorage, "resource_exhausted"},
		{session.ErrUnavailable("llama not built"), http.StatusServiceUnavailable, "unavailable"},
		{session.ErrCanceled(context.Canceled), http.StatusRequestTimeout, "canceled"},
		{mockHTTPError{msg: "teapot", code: http.StatusTeapot}, http.StatusTeapot, ""},
		{io.EOF, http.StatusInternalServerError, ""},
	}
	for _, c := range cases {
		w := postJSON(t, NewMux(&mockService{loadErr: c.err}), "/load", `{"path":"/x.gguf"}`)
		if w.Code != c.code {
			t.Fatalf("%v: status=%d want %d", c.err, w.Code, c.code)
		}
		var body types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("json: %v", err)
		}
		if body.Code != c.code || body.Kind != c.kind || body.Error == "" {
			t.Fatalf("%v: unexpected error body %+v", c.err, body)
		}
	}
}

func TestLoad_UnsupportedMediaType(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/load", bytes.NewBufferString(`{"path":"/x"}`))
	req.Header.Set("Content-Type", "text/plain")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestUnload_AlwaysOK(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/unload", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d", w.Code)
		}
	}
	if svc.unloads != 2 {
		t.Fatalf("unloads=%d", svc.unloads)
	}
}

func TestEmbed_OK(t *testing.T) {
	w := postJSON(t, NewMux(&mockService{}), "/embed", `{"text":"ping"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.EmbedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Dim != 3 || len(body.Embedding) != 3 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestEmbed_NotLoadedIs409(t *testing.T) {
	w := postJSON(t, NewMux(&mockService{embedErr: session.ErrNotLoaded}), "/embed", `{"text":"ping"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestEmbed_BadJSON(t *testing.T) {
	w := postJSON(t, NewMux(&mockService{}), "/embed", "not-json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestEmbed_BodyTooLarge(t *testing.T) {
	SetMaxBodyBytes(64)
	defer SetMaxBodyBytes(0)
	big := `{"text":"` + strings.Repeat("a", 128) + `"}`
	w := postJSON(t, NewMux(&mockService{}), "/embed", big)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for too-large body, got %d", w.Code)
	}
}

func TestCORS_OptIn(t *testing.T) {
	SetCORSOptions(true, []string{"http://ui.local"}, nil, nil)
	defer SetCORSOptions(false, nil, nil, nil)
	r := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodGet, "/handshake", nil)
	req.Header.Set("Origin", "http://ui.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://ui.local" {
		t.Fatalf("allow-origin=%q", got)
	}

	SetCORSOptions(false, nil, nil, nil)
	w = httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("cors disabled but allow-origin=%q", got)
	}
}

func TestStatusForError_Wrapped(t *testing.T) {
	err := errors.Join(errors.New("context"), session.ErrNotLoaded)
	if got := statusForError(err); got != http.StatusConflict {
		t.Fatalf("status=%d", got)
	}
}

func TestSearch_OK(t *testing.T) {
	svc := &mockService{}
	w := postJSON(t, NewMux(svc), "/search", `{"text":"ping","k":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if svc.lastQuery != (types.SearchRequest{Text: "ping", K: 3}) {
		t.Fatalf("request not forwarded: %+v", svc.lastQuery)
	}
	var body types.SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Results) != 1 || body.Results[0].Text != "ping" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestSearch_DisabledIs503(t *testing.T) {
	svc := &mockService{searchErr: session.ErrUnavailable("similarity search disabled")}
	w := postJSON(t, NewMux(svc), "/search", `{"text":"ping"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}
