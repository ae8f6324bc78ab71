package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIURL {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIURL)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL(http://) returned nil error, want missing host")
	}
}

type recordedRequest struct {
	method    string
	path      string
	body      string
	requestID string
	userAgent string
}

func newRecordingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var got []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = append(got, recordedRequest{
			method:    r.Method,
			path:      r.URL.Path,
			body:      string(body),
			requestID: r.Header.Get("X-Request-ID"),
			userAgent: r.Header.Get("User-Agent"),
		})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, &got
}

func TestClient_FetchesEndpoints(t *testing.T) {
	t.Parallel()

	server, got := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/containers":
			_, _ = w.Write([]byte(`{"containers":[
				{"id":"abc123def456","full_id":"abc123def4567890","image":"app_template:latest","state":"running","status":"Up 3 minutes","tenant_id":"t-1","template_id":"app_template","template_name":"Basic Web App","url":"http://t-1.localhost"},
				{"full_id":"ffff0000eeee1111","state":"dead"}]}`))
		case "/api/templates":
			_ = json.NewEncoder(w).Encode(TemplateListResponse{Templates: []Template{{ID: "app_template", Name: "Basic Web App", Port: "8081"}}})
		case "/api/containers/abc123def4567890/logs":
			_ = json.NewEncoder(w).Encode(LogsResponse{Logs: "line one\nline two"})
		case "/api/containers/abc123def4567890/inspect":
			_, _ = w.Write([]byte(`{"details":{"id":"abc123def4567890","name":"/tenant","restart_count":2,
				"state":{"Status":"running","Running":true,"Pid":42,"StartedAt":"2025-01-02T03:04:05Z"},
				"config":{"Image":"app_template:latest","ExposedPorts":{"8081/tcp":{},"53/udp":{}},"Labels":{"template.id":"app_template"}},
				"mounts":[{"Type":"volume","Name":"tenant_data_t-1","Destination":"/app/data","RW":true}],
				"network_settings":{"Networks":{"dev_container_default":{"IPAddress":"172.18.0.5"}}}}}`))
		default:
			http.NotFound(w, r)
		}
	})

	c, err := NewClient(server.URL, Timeouts{}, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	containers, err := c.FetchContainers(ctx)
	if err != nil {
		t.Fatalf("FetchContainers returned error: %v", err)
	}
	if len(containers) != 2 {
		t.Fatalf("FetchContainers = %d containers, want 2", len(containers))
	}
	first := containers[0]
	if first.FullID != "abc123def4567890" || first.State != StateRunning || first.TemplateName != "Basic Web App" || first.TenantID != "t-1" {
		t.Fatalf("first container = %#v", first)
	}
	if containers[1].State != StateOther {
		t.Fatalf("unknown state decoded as %q, want %q", containers[1].State, StateOther)
	}
	if containers[1].DisplayID() != "ffff0000eeee" {
		t.Fatalf("DisplayID = %q, want derived short id", containers[1].DisplayID())
	}

	templates, err := c.FetchTemplates(ctx)
	if err != nil {
		t.Fatalf("FetchTemplates returned error: %v", err)
	}
	if len(templates) != 1 || templates[0].ID != "app_template" {
		t.Fatalf("FetchTemplates = %#v", templates)
	}

	logs, err := c.Logs(ctx, "abc123def4567890")
	if err != nil {
		t.Fatalf("Logs returned error: %v", err)
	}
	if logs != "line one\nline two" {
		t.Fatalf("Logs = %q", logs)
	}

	details, err := c.Inspect(ctx, "abc123def4567890")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if details.RestartCount != 2 || details.State == nil || details.State.Pid != 42 {
		t.Fatalf("Inspect details = %#v", details)
	}
	if details.Config == nil || details.Config.Labels["template.id"] != "app_template" {
		t.Fatalf("Inspect config = %#v", details.Config)
	}
	ports := details.ExposedPorts()
	if len(ports) != 2 || ports[0] != "53/udp" || ports[1] != "8081/tcp" {
		t.Fatalf("ExposedPorts = %v, want [53/udp 8081/tcp]", ports)
	}
	if details.StartedAt().IsZero() {
		t.Fatalf("StartedAt should parse RFC3339")
	}
	if len(details.Mounts) != 1 || details.Mounts[0].Destination != "/app/data" {
		t.Fatalf("Mounts = %#v", details.Mounts)
	}
	if ip := details.NetworkSettings.Networks["dev_container_default"].IPAddress; ip != "172.18.0.5" {
		t.Fatalf("network ip = %q", ip)
	}

	for _, req := range *got {
		if req.requestID == "" {
			t.Fatalf("request %s %s missing X-Request-ID", req.method, req.path)
		}
		if !strings.HasPrefix(req.userAgent, "flotilla/") {
			t.Fatalf("User-Agent = %q, want flotilla/*", req.userAgent)
		}
	}
}

func TestClient_LifecycleEndpoints(t *testing.T) {
	t.Parallel()

	server, got := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/launch" && r.Method == http.MethodPost:
			_, _ = w.Write([]byte(`{"message":"Notes App container launched!","container_id":"c9","tenant_id":"t-9"}`))
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	})

	c, err := NewClient(server.URL, Timeouts{}, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	res, err := c.Launch(ctx, " note_template ")
	if err != nil {
		t.Fatalf("Launch returned error: %v", err)
	}
	if res.Message != "Notes App container launched!" || res.ContainerID != "c9" {
		t.Fatalf("Launch result = %#v", res)
	}
	for _, action := range []Action{ActionStart, ActionStop, ActionRestart} {
		if err := c.Control(ctx, "c1", action); err != nil {
			t.Fatalf("Control(%s) returned error: %v", action, err)
		}
	}
	if err := c.Remove(ctx, "c1"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}

	want := []struct{ method, path string }{
		{http.MethodPost, "/api/launch"},
		{http.MethodPost, "/api/containers/c1/start"},
		{http.MethodPost, "/api/containers/c1/stop"},
		{http.MethodPost, "/api/containers/c1/restart"},
		{http.MethodDelete, "/api/launch/c1"},
	}
	if len(*got) != len(want) {
		t.Fatalf("got %d requests, want %d", len(*got), len(want))
	}
	for i, w := range want {
		if (*got)[i].method != w.method || (*got)[i].path != w.path {
			t.Fatalf("request %d = %s %s, want %s %s", i, (*got)[i].method, (*got)[i].path, w.method, w.path)
		}
	}
	if !strings.Contains((*got)[0].body, `"template":"note_template"`) {
		t.Fatalf("launch body = %q, want trimmed template id", (*got)[0].body)
	}
}

func TestClient_ControlRejectsDeleteAndBlankID(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", Timeouts{}, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := c.Control(context.Background(), "c1", ActionDelete); err == nil {
		t.Fatalf("Control(delete) returned nil error, want error")
	}
	if err := c.Control(context.Background(), "c1", Action("pause")); err == nil {
		t.Fatalf("Control(pause) returned nil error, want error")
	}
	if err := c.Remove(context.Background(), "  "); err == nil {
		t.Fatalf("Remove(blank) returned nil error, want error")
	}
}

func TestClient_BackendErrorCarriesMessage(t *testing.T) {
	t.Parallel()

	server, _ := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/containers/gone/stop":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Container not found"}`))
		case "/api/containers/c1/logs":
			_, _ = w.Write([]byte(`{"error":"Failed to get logs: boom"}`))
		case "/api/containers":
			http.Error(w, "nope", http.StatusInternalServerError)
		case "/api/templates":
			_, _ = w.Write([]byte("{not-json"))
		}
	})

	c, err := NewClient(server.URL, Timeouts{}, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	err = c.Control(ctx, "gone", ActionStop)
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("Control error = %T %v, want *BackendError", err, err)
	}
	if be.Message != "Container not found" || be.StatusCode != http.StatusNotFound {
		t.Fatalf("BackendError = %#v", be)
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound = false, want true")
	}

	_, err = c.Logs(ctx, "c1")
	if !errors.As(err, &be) || be.Message != "Failed to get logs: boom" {
		t.Fatalf("Logs error = %v, want backend error from 2xx error body", err)
	}

	_, err = c.FetchContainers(ctx)
	if !errors.As(err, &be) || !strings.Contains(be.Message, "returned status 500") {
		t.Fatalf("FetchContainers error = %v, want status 500 backend error", err)
	}

	_, err = c.FetchTemplates(ctx)
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchTemplates error = %v, want decode response error", err)
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr, Timeouts{List: time.Second}, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchContainers(context.Background())
	if !IsTransport(err) {
		t.Fatalf("FetchContainers error = %T %v, want *TransportError", err, err)
	}
}

func TestClient_TimeoutIsTransportError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewClient(server.URL, Timeouts{Diagnostic: 50 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Inspect(context.Background(), "slow")
	if !IsTransport(err) {
		t.Fatalf("Inspect error = %T %v, want *TransportError", err, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Inspect error = %v, want it to wrap context.DeadlineExceeded", err)
	}
}

func TestParseState(t *testing.T) {
	cases := map[string]State{
		"running":    StateRunning,
		" Exited ":   StateExited,
		"created":    StateCreated,
		"paused":     StatePaused,
		"restarting": StateRestarting,
		"dead":       StateOther,
		"":           StateOther,
	}
	for in, want := range cases {
		if got := ParseState(in); got != want {
			t.Fatalf("ParseState(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestActionHelpers(t *testing.T) {
	if !ActionDelete.Valid() || Action("pause").Valid() {
		t.Fatalf("Valid mismatch")
	}
	if ActionStop.PastTense() != "stopped" || ActionDelete.PastTense() != "deleted" {
		t.Fatalf("PastTense mismatch: %q %q", ActionStop.PastTense(), ActionDelete.PastTense())
	}
	if ShortID("0123456789abcdef") != "0123456789ab" {
		t.Fatalf("ShortID mismatch")
	}
}
