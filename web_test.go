/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
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

	"github.com/Seednode/slicebox/protocol"
	"github.com/Seednode/slicebox/relay"
	"github.com/Seednode/slicebox/scenario"
	"github.com/julienschmidt/httprouter"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func testServer(t *testing.T, cfg *Config) *httptest.Server {
	t.Helper()

	errs := make(chan error, 64)
	mux, rooms := newRouter(cfg, errs)
	srv := httptest.NewServer(mux)

	t.Cleanup(func() {
		rooms.Close()
		srv.Close()
	})

	return srv
}

func defaultConfig() *Config {
	return &Config{
		bind:           "127.0.0.1",
		port:           8080,
		sessionTimeout: time.Hour,
	}
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, []byte) {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", url, err)
	}
	return resp, body
}

func TestStaticRoutes(t *testing.T) {
	srv := testServer(t, defaultConfig())

	for _, tc := range []struct {
		path, contentType, contains string
	}{
		{"/healthz", "text/plain; charset=utf-8", "Ok"},
		{"/version", "text/plain; charset=utf-8", "slicebox v" + releaseVersion},
		{"/robots.txt", "text/plain; charset=utf-8", "Disallow: /ninja/"},
		{"/", "text/html; charset=utf-8", "Open a room"},
		{"/assets/style.css", "text/css; charset=utf-8", "main {"},
		{"/favicons/favicon.svg", "image/svg+xml", "<svg"},
	} {
		resp, body := get(t, srv.Client(), srv.URL+tc.path)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status %d", tc.path, resp.StatusCode)
			continue
		}
		if got := resp.Header.Get("Content-Type"); got != tc.contentType {
			t.Errorf("%s: content type %q", tc.path, got)
		}
		if !strings.Contains(string(body), tc.contains) {
			t.Errorf("%s: body lacks %q", tc.path, tc.contains)
		}
		if resp.Header.Get("Content-Security-Policy") == "" {
			t.Errorf("%s: no security headers", tc.path)
		}
	}
}

func TestHomePageShowsServer(t *testing.T) {
	srv := testServer(t, defaultConfig())

	_, body := get(t, srv.Client(), srv.URL+"/")
	if !strings.Contains(string(body), "slicebox host --server "+srv.URL) {
		t.Fatalf("home page does not show the server url:\n%s", body)
	}
}

func TestMissingAsset(t *testing.T) {
	srv := testServer(t, defaultConfig())

	resp, _ := get(t, srv.Client(), srv.URL+"/assets/nope.js")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestNewRoomRedirects(t *testing.T) {
	srv := testServer(t, defaultConfig())

	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	resp, _ := get(t, client, srv.URL+"/new")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status %d", resp.StatusCode)
	}

	loc := resp.Header.Get("Location")
	pin := strings.TrimPrefix(loc, "/ninja/")
	if !strings.HasPrefix(loc, "/ninja/") || !protocol.ValidPIN(pin) {
		t.Fatalf("Location = %q", loc)
	}
}

func TestRoomPage(t *testing.T) {
	srv := testServer(t, defaultConfig())

	resp, body := get(t, srv.Client(), srv.URL+"/ninja/482913")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	for _, want := range []string{
		`<div class="pin">482913</div>`,
		`src="/ninja/482913/qr"`,
		"slicebox play --server " + srv.URL + " --pin 482913",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("room page lacks %q", want)
		}
	}

	resp, _ = get(t, srv.Client(), srv.URL+"/ninja/abc")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("invalid pin status %d", resp.StatusCode)
	}
}

func TestQRCodes(t *testing.T) {
	srv := testServer(t, defaultConfig())

	for _, path := range []string{"/ninja/482913/qr", "/qr?data=" + "hello%20world"} {
		resp, body := get(t, srv.Client(), srv.URL+path)
		if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
			t.Fatalf("%s: status %d type %q", path, resp.StatusCode, resp.Header.Get("Content-Type"))
		}
		if !bytes.HasPrefix(body, pngMagic) {
			t.Fatalf("%s: not a png", path)
		}
	}

	resp, _ := get(t, srv.Client(), srv.URL+"/qr")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty data status %d", resp.StatusCode)
	}

	resp, _ = get(t, srv.Client(), srv.URL+"/qr?data="+strings.Repeat("x", maxQRData+1))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("oversized data status %d", resp.StatusCode)
	}
}

func TestQRURLMatchesRoute(t *testing.T) {
	srv := testServer(t, defaultConfig())

	resp, body := get(t, srv.Client(), protocol.QRURL(srv.URL, "http://example/ninja/482913"))
	if resp.StatusCode != http.StatusOK || !bytes.HasPrefix(body, pngMagic) {
		t.Fatalf("QRURL target status %d", resp.StatusCode)
	}
}

func TestSoundEffects(t *testing.T) {
	srv := testServer(t, defaultConfig())

	resp, body := get(t, srv.Client(), srv.URL+"/sfx/slice")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "audio/wav" {
		t.Fatalf("status %d type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if string(body[:4]) != "RIFF" || string(body[8:12]) != "WAVE" {
		t.Fatalf("not a wav file")
	}

	_, again := get(t, srv.Client(), srv.URL+"/sfx/slice")
	if !bytes.Equal(body, again) {
		t.Error("cached effect differs")
	}

	resp, _ = get(t, srv.Client(), srv.URL+"/sfx/kazoo")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown effect status %d", resp.StatusCode)
	}
}

func TestRoomsListing(t *testing.T) {
	srv := testServer(t, defaultConfig())

	resp, body := get(t, srv.Client(), srv.URL+"/rooms")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	var rooms []relay.RoomInfo
	if err := json.Unmarshal(body, &rooms); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rooms) != 0 {
		t.Fatalf("rooms = %+v", rooms)
	}
}

func TestScenariosOnlyWithKey(t *testing.T) {
	srv := testServer(t, defaultConfig())

	resp, _ := get(t, srv.Client(), srv.URL+"/scenarios?topic=x")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d without a key", resp.StatusCode)
	}
}

type fakeGenerator struct {
	mu    sync.Mutex
	topic string
	count int
}

func (f *fakeGenerator) Generate(_ context.Context, topic string, count int) []scenario.Node {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.topic, f.count = topic, count
	return []scenario.Node{{ID: "sc-1-0", OpponentName: "Lan", TimeLimit: scenario.TimeLimit}}
}

func TestServeScenarios(t *testing.T) {
	cfg := defaultConfig()
	gen := &fakeGenerator{}
	errs := make(chan error, 1)

	mux := httprouter.New()
	mux.GET("/scenarios", serveScenarios(cfg, gen, errs))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, body := get(t, srv.Client(), srv.URL+"/scenarios?topic=roommates&count=2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	var nodes []scenario.Node
	if err := json.Unmarshal(body, &nodes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(nodes) != 1 || nodes[0].OpponentName != "Lan" {
		t.Fatalf("nodes = %+v", nodes)
	}
	gen.mu.Lock()
	topic, count := gen.topic, gen.count
	gen.mu.Unlock()
	if topic != "roommates" || count != 2 {
		t.Fatalf("generator got %q, %d", topic, count)
	}

	for _, q := range []string{"", "?topic=x&count=0", "?topic=x&count=99", "?topic=x&count=two"} {
		resp, _ := get(t, srv.Client(), srv.URL+"/scenarios"+q)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%q: status %d", q, resp.StatusCode)
		}
	}
}

func TestRealIP(t *testing.T) {
	for _, tc := range []struct {
		remote string
		header map[string]string
		want   string
	}{
		{"10.0.0.1:1234", nil, "10.0.0.1:1234"},
		{"10.0.0.1:1234", map[string]string{"X-Real-IP": "203.0.113.9"}, "203.0.113.9:1234"},
		{"10.0.0.1:1234", map[string]string{"CF-Connecting-IP": "2001:db8::1"}, "[2001:db8::1]:1234"},
		{"10.0.0.1:1234", map[string]string{"X-Real-IP": "not an ip"}, "10.0.0.1:1234"},
	} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tc.remote
		for k, v := range tc.header {
			r.Header.Set(k, v)
		}
		if got := realIP(r); got != tc.want {
			t.Errorf("realIP(%v) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestHumanReadableSize(t *testing.T) {
	for n, want := range map[int64]string{
		999:       "999 B",
		1000:      "1.0 kB",
		1_500_000: "1.5 MB",
	} {
		if got := humanReadableSize(n); got != want {
			t.Errorf("humanReadableSize(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}

	cfg.tlsCert = "cert.pem"
	if err := cfg.validate(); err == nil {
		t.Error("accepted a cert without a key")
	}

	cfg = defaultConfig()
	cfg.port = 70000
	if err := cfg.validate(); err == nil {
		t.Error("accepted port 70000")
	}

	cfg = defaultConfig()
	cfg.maxPlayers = -1
	if err := cfg.validate(); err == nil {
		t.Error("accepted negative max players")
	}
}

func TestConfigValidateClient(t *testing.T) {
	cfg := &Config{server: "http://localhost:8080"}
	if err := cfg.validateClient(false, false); err != nil {
		t.Fatalf("host without pin: %v", err)
	}
	if err := cfg.validateClient(true, true); !errors.Is(err, ErrInvalidPIN) {
		t.Fatalf("missing pin = %v", err)
	}

	cfg.pin = "482913"
	if err := cfg.validateClient(true, true); !errors.Is(err, ErrNoName) {
		t.Fatalf("missing name = %v", err)
	}

	cfg.name = "Ana"
	if err := cfg.validateClient(true, true); err != nil {
		t.Fatalf("complete config: %v", err)
	}

	cfg.server = "localhost"
	if err := cfg.validateClient(true, true); err == nil {
		t.Fatal("accepted a server without a scheme")
	}
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("SLICEBOX_PORT", "9090")
	t.Setenv("SLICEBOX_MAX_PLAYERS", "30")
	t.Setenv("SLICEBOX_SESSION_TIMEOUT", "5m")

	cfg := &Config{}
	newCmd(cfg)

	if cfg.port != 9090 || cfg.maxPlayers != 30 || cfg.sessionTimeout != 5*time.Minute {
		t.Fatalf("cfg = port %d, max %d, timeout %s", cfg.port, cfg.maxPlayers, cfg.sessionTimeout)
	}
}

func TestSubcommandFlags(t *testing.T) {
	t.Setenv("SLICEBOX_NAME", "Ana")

	cfg := &Config{}
	cmd := newCmd(cfg)

	play, _, err := cmd.Find([]string{"play"})
	if err != nil || play.Name() != "play" {
		t.Fatalf("play command: %v", err)
	}
	if err := play.Flags().Parse([]string{"--pin", "482913", "--server", "http://relay:8080"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.name != "Ana" || cfg.pin != "482913" || cfg.server != "http://relay:8080" {
		t.Fatalf("cfg = name %q pin %q server %q", cfg.name, cfg.pin, cfg.server)
	}
	if err := cfg.validateClient(true, true); err != nil {
		t.Fatalf("validateClient: %v", err)
	}
}
