package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/robertof/wheel-bridge/bridge"
	"github.com/robertof/wheel-bridge/classifier"
	"github.com/robertof/wheel-bridge/device/rb19"
	"github.com/robertof/wheel-bridge/host"
)

func newTestServer(t *testing.T) (*http.ServeMux, *host.Memory, *host.Slot, *bridge.Controller) {
	t.Helper()

	rs, err := classifier.BuiltinRules(classifier.DefaultVersion)
	if err != nil {
		t.Fatalf("BuiltinRules got error: %v", err)
	}

	mem, slot := host.NewMemory(), host.NewSlot()

	ctl := bridge.New(bridge.Options{
		Identity:   rb19.Default(),
		Classifier: classifier.New(rs, rb19.Default()),
		Logs:       mem,
		Telemetry:  mem,
		Publisher:  slot,
	})

	actions := bridge.Actions{}
	ctl.RegisterActions(actions)

	mux := http.NewServeMux()
	host.RegisterHandlers(mux, mem, slot)
	registerControlHandlers(mux, ctl, actions)

	return mux, mem, slot, ctl
}

func request(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	return rec
}

func TestControlHandlers(t *testing.T) {
	mux, _, slot, ctl := newTestServer(t)

	request(mux, http.MethodPut, "/host/log", "Connected to device on COM4 named Redbull RB19 Steering Interface Pre-Processor (@115200bps)")
	ctl.Tick()

	if rec := request(mux, http.MethodGet, "/properties/connected", ""); strings.TrimSpace(rec.Body.String()) != "true" {
		t.Fatalf("GET /properties/connected: got %q", rec.Body.String())
	}

	if rec := request(mux, http.MethodPut, "/bitepoint", "95"); strings.TrimSpace(rec.Body.String()) != "90" {
		t.Fatalf("PUT /bitepoint 95: got %q", rec.Body.String())
	}

	if cmd, _ := slot.Take(); cmd != "CLUTCH_BP:90.0" {
		t.Fatalf("command after PUT /bitepoint: got %q", cmd)
	}

	if rec := request(mux, http.MethodPut, "/bitepoint", "lots"); rec.Code != http.StatusBadRequest {
		t.Fatalf("PUT /bitepoint lots: got status %d", rec.Code)
	}

	request(mux, http.MethodPut, "/mode", "true")

	if rec := request(mux, http.MethodPost, "/actions/decreaseBitePoint", ""); rec.Code != http.StatusOK {
		t.Fatalf("POST /actions/decreaseBitePoint: got status %d", rec.Code)
	}

	if got := ctl.Snapshot().BitePoint; got != 89.5 {
		t.Fatalf("bite point after decrease: got %v, wanted 89.5", got)
	}

	if rec := request(mux, http.MethodPost, "/actions/launchControl", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("POST /actions/launchControl: got status %d", rec.Code)
	}

	if rec := request(mux, http.MethodGet, "/properties/gear", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("GET /properties/gear: got status %d", rec.Code)
	}

	if rec := request(mux, http.MethodGet, "/logs", ""); !strings.Contains(rec.Body.String(), "Connected to device on COM4") {
		t.Fatalf("GET /logs: got %q", rec.Body.String())
	}
}
