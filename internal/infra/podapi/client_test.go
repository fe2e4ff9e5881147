package podapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"podctl/internal/config"
	"podctl/internal/domain"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	cli := New(config.API{BaseURL: srv.URL, Key: "test-key", Timeout: 5 * time.Second})
	return cli, srv
}

func TestGetPod(t *testing.T) {
	var gotAuth string
	cli, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/pods/pod123" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.Pod{ID: "pod123", DesiredStatus: "RUNNING"})
	}))
	defer srv.Close()

	pod, err := cli.GetPod(context.Background(), "pod123")
	if err != nil {
		t.Fatalf("GetPod: %v", err)
	}
	if pod.Status() != domain.PodRunning {
		t.Errorf("status = %s, want running", pod.Status())
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
}

func TestCreatePod(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody CreatePodRequest
	cli, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.Pod{ID: "newpod", DesiredStatus: "RUNNING"})
	}))
	defer srv.Close()

	pod, err := cli.CreatePod(context.Background(), CreatePodRequest{
		Name:              "ast-1",
		ImageName:         "runpod/pytorch:2.8.0",
		GPUTypeID:         "A100",
		GPUCount:          2,
		VolumeInGB:        500,
		ContainerDiskInGB: 20,
		SupportPublicIP:   true,
		StartSSH:          true,
	})
	if err != nil {
		t.Fatalf("CreatePod: %v", err)
	}
	if pod.ID != "newpod" {
		t.Errorf("pod id = %q", pod.ID)
	}
	if gotMethod != http.MethodPost || gotPath != "/pods" {
		t.Errorf("request was %s %s", gotMethod, gotPath)
	}
	if gotBody.Name != "ast-1" || gotBody.GPUTypeID != "A100" || gotBody.GPUCount != 2 || gotBody.VolumeInGB != 500 {
		t.Errorf("request body = %+v", gotBody)
	}
}

func TestTerminatePod(t *testing.T) {
	var gotMethod, gotPath string
	cli, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := cli.TerminatePod(context.Background(), "pod123"); err != nil {
		t.Fatalf("TerminatePod: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/pods/pod123" {
		t.Errorf("request was %s %s", gotMethod, gotPath)
	}
}

func TestStopPod(t *testing.T) {
	var gotMethod, gotPath string
	cli, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := cli.StopPod(context.Background(), "pod123"); err != nil {
		t.Fatalf("StopPod: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/pods/pod123/stop" {
		t.Errorf("request was %s %s", gotMethod, gotPath)
	}
}

func TestStopPodAPIError(t *testing.T) {
	cli, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "pod not found", http.StatusNotFound)
	}))
	defer srv.Close()

	if err := cli.StopPod(context.Background(), "ghost"); err == nil {
		t.Error("expected error from 404 response")
	}
}

func TestStatusInvalidOnError(t *testing.T) {
	cli, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if got := cli.Status(context.Background(), "pod123"); got != domain.PodInvalid {
		t.Errorf("status = %s, want invalid", got)
	}
}

func TestLifecycleStopInstance(t *testing.T) {
	var stopped string
	cli, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stopped = r.URL.Path
	}))
	defer srv.Close()

	lc := &Lifecycle{Aliases: resolverFunc(func(alias string) (string, error) {
		if alias != "gpu-1" {
			return "", domain.ErrUnknownAlias
		}
		return "pod123", nil
	}), Client: cli}

	if err := lc.StopInstance(context.Background(), "gpu-1"); err != nil {
		t.Fatalf("StopInstance: %v", err)
	}
	if stopped != "/pods/pod123/stop" {
		t.Errorf("stop path = %q", stopped)
	}

	if err := lc.StopInstance(context.Background(), "nope"); err == nil {
		t.Error("unknown alias did not error")
	}
}

type resolverFunc func(alias string) (string, error)

func (f resolverFunc) Resolve(alias string) (string, error) { return f(alias) }
