/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Seednode/slicebox/audio"
	"github.com/Seednode/slicebox/protocol"
	"github.com/Seednode/slicebox/relay"
	"github.com/Seednode/slicebox/scenario"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const (
	qrSize          = 320 // mobile-friendly size
	maxQRData       = 1024
	maxScenarios    = 10
	scenarioTimeout = 75 * time.Second
)

func registerNinjaGame(cfg *Config, mux *httprouter.Router, errs chan<- error) *relay.Manager {
	rooms := relay.NewManager(cfg.sessionTimeout)
	rooms.Logf = logger(cfg)
	if cfg.maxPlayers > 0 {
		// The host holds a connection too.
		rooms.MaxClients = cfg.maxPlayers + 1
	}

	mux.GET(cfg.prefix+"/new", redirectNewRoom(cfg, rooms))
	mux.GET(cfg.prefix+"/rooms", serveRooms(cfg, rooms, errs))
	mux.GET(cfg.prefix+"/qr", serveQR(cfg, errs))
	mux.GET(cfg.prefix+"/sfx/:effect", serveEffect(cfg, errs))

	mux.GET(cfg.prefix+"/ninja/:pin", serveRoomPage(cfg, errs))
	mux.GET(cfg.prefix+"/ninja/:pin/qr", serveRoomQR(cfg, errs))
	mux.GET(cfg.prefix+"/ninja/:pin/ws", rooms.ServeWS(protocol.ValidPIN))

	if cfg.geminiKey != "" {
		client := scenario.NewClient(cfg.geminiKey, cfg.geminiModel)
		client.Logf = logger(cfg)
		mux.GET(cfg.prefix+"/scenarios", serveScenarios(cfg, client, errs))
	}

	return rooms
}

// newRoomPIN draws PINs until one is not in use.
func newRoomPIN(rooms *relay.Manager) string {
	for {
		pin := protocol.NewPIN()
		if !rooms.Exists(pin) {
			return pin
		}
	}
}

func redirectNewRoom(cfg *Config, rooms *relay.Manager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		pin := newRoomPIN(rooms)

		logf(cfg, "ROOMS: Assigned pin %s to %s", pin, realIP(r))

		http.Redirect(w, r, cfg.prefix+"/ninja/"+pin, http.StatusSeeOther)
	}
}

func serveRooms(cfg *Config, rooms *relay.Manager, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		if err := json.NewEncoder(w).Encode(rooms.Rooms()); err != nil {
			errs <- err
		}
	}
}

func writePNG(cfg *Config, w http.ResponseWriter, errs chan<- error, data string) {
	png, err := qrcode.Encode(data, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	securityHeaders(cfg, w)

	if _, err := w.Write(png); err != nil {
		errs <- err
	}
}

// serveQR encodes the data query parameter.
func serveQR(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		data := r.URL.Query().Get("data")
		if data == "" || len(data) > maxQRData {
			http.Error(w, "missing or oversized data", http.StatusBadRequest)

			return
		}

		writePNG(cfg, w, errs, data)
	}
}

// serveRoomQR encodes the room page URL.
func serveRoomQR(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		pin := ps.ByName("pin")
		if !protocol.ValidPIN(pin) {
			http.NotFound(w, r)

			return
		}

		writePNG(cfg, w, errs, baseURL(cfg, r)+"/ninja/"+pin)
	}
}

func serveRoomPage(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		pin := ps.ByName("pin")
		if !protocol.ValidPIN(pin) {
			http.NotFound(w, r)

			return
		}

		server := html.EscapeString(baseURL(cfg, r))

		body := fmt.Sprintf(`<h1>Room</h1>
<div class="pin">%[1]s</div>
<p><img class="qr" src="%[2]s/ninja/%[1]s/qr" alt="QR code for room %[1]s"></p>
<h2>Host</h2>
<pre>slicebox host --server %[3]s --pin %[1]s</pre>
<h2>Students</h2>
<pre>slicebox play --server %[3]s --pin %[1]s --name YOUR_NAME</pre>`, pin, cfg.prefix, server)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		written, err := io.WriteString(w, newPage(cfg, "slicebox "+pin, body))
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Room page %s (%s) to %s in %s",
			pin,
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// effectCache holds rendered WAV files; synthesis is deterministic.
type effectCache struct {
	mu   sync.Mutex
	wavs map[audio.Effect][]byte
}

func (c *effectCache) get(e audio.Effect) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if data, ok := c.wavs[e]; ok {
		return data, nil
	}

	data, err := audio.WAV(e)
	if err != nil {
		return nil, err
	}
	if c.wavs == nil {
		c.wavs = make(map[audio.Effect][]byte)
	}
	c.wavs[e] = data

	return data, nil
}

func serveEffect(cfg *Config, errs chan<- error) httprouter.Handle {
	cache := &effectCache{}

	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		e, err := audio.ParseEffect(ps.ByName("effect"))
		if err != nil {
			http.NotFound(w, r)

			return
		}

		data, err := cache.get(e)
		if err != nil {
			errs <- err
			http.Error(w, "render failed", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "audio/wav")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Cache-Control", "public, max-age=86400")
		securityHeaders(cfg, w)

		if _, err := w.Write(data); err != nil {
			errs <- err
		}
	}
}

// generator is the part of scenario.Client the handler needs.
type generator interface {
	Generate(ctx context.Context, topic string, count int) []scenario.Node
}

func serveScenarios(cfg *Config, gen generator, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		topic := r.URL.Query().Get("topic")
		if topic == "" {
			http.Error(w, "missing topic", http.StatusBadRequest)

			return
		}

		count := 3
		if s := r.URL.Query().Get("count"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > maxScenarios {
				http.Error(w, fmt.Sprintf("count must be between 1 and %d", maxScenarios), http.StatusBadRequest)

				return
			}
			count = n
		}

		_ = http.NewResponseController(w).SetWriteDeadline(time.Now().Add(scenarioTimeout))

		ctx, cancel := context.WithTimeout(r.Context(), scenarioTimeout-5*time.Second)
		defer cancel()

		nodes := gen.Generate(ctx, topic, count)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		if err := json.NewEncoder(w).Encode(nodes); err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: %d scenarios about %q to %s in %s",
			len(nodes),
			topic,
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}
