/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Seednode/slicebox/audio"
	"github.com/Seednode/slicebox/audio/device"
	"github.com/Seednode/slicebox/protocol"
	"github.com/Seednode/slicebox/session"
	"github.com/Seednode/slicebox/tui"
)

// redirectLog keeps log output off the terminal while tcell owns it.
func redirectLog(cfg *Config) (func(), error) {
	if cfg.logFile == "" {
		log.SetOutput(io.Discard)

		return func() { log.SetOutput(os.Stderr) }, nil
	}

	f, err := os.OpenFile(cfg.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)

	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

// openAudio falls back to silence when there is no usable sound device.
func openAudio(cfg *Config) (audio.Player, func()) {
	if cfg.mute {
		return audio.Nop{}, func() {}
	}

	s, err := device.NewSpeaker()
	if err != nil {
		logf(cfg, "START: Sound disabled: %v", err)

		return audio.Nop{}, func() {}
	}

	return s, s.Close
}

func runArcade(ctx context.Context, cfg *Config) error {
	restore, err := redirectLog(cfg)
	if err != nil {
		return err
	}
	defer restore()

	player, closeAudio := openAudio(cfg)
	defer closeAudio()

	screen, err := tui.Open()
	if err != nil {
		return err
	}
	defer screen.Fini()

	logf(cfg, "START: slicebox v%s arcade", releaseVersion)

	return tui.NewArcade(screen, player).Run(ctx)
}

func runHost(ctx context.Context, cfg *Config) error {
	pin := cfg.pin
	if pin == "" {
		pin = protocol.NewPIN()
	}

	restore, err := redirectLog(cfg)
	if err != nil {
		return err
	}
	defer restore()

	conn, err := session.Dial(ctx, cfg.server, pin, logger(cfg))
	if err != nil {
		return err
	}
	defer conn.Close()

	player, closeAudio := openAudio(cfg)
	defer closeAudio()

	host := session.NewHost(conn, pin, player, logger(cfg))
	host.SyncInterval = cfg.syncInterval

	screen, err := tui.Open()
	if err != nil {
		return err
	}
	defer screen.Fini()

	logf(cfg, "HOST: Hosting room %s on %s", pin, cfg.server)

	joinURL := strings.TrimSuffix(cfg.server, "/") + "/ninja/" + pin

	return tui.NewHostView(screen, host, joinURL).Run(ctx)
}

func runPlay(ctx context.Context, cfg *Config) error {
	restore, err := redirectLog(cfg)
	if err != nil {
		return err
	}
	defer restore()

	conn, err := session.Dial(ctx, cfg.server, cfg.pin, logger(cfg))
	if err != nil {
		return err
	}
	defer conn.Close()

	player, closeAudio := openAudio(cfg)
	defer closeAudio()

	screen, err := tui.Open()
	if err != nil {
		return err
	}
	defer screen.Fini()

	w, h := screen.Size()
	student := session.NewStudent(conn, cfg.pin, float64(w*tui.CellWidth), float64(h*tui.CellHeight), player, logger(cfg))

	logf(cfg, "STUDENT: Joining room %s on %s", cfg.pin, cfg.server)

	return tui.NewStudentView(screen, student).Run(ctx, cfg.playerID, strings.TrimSpace(cfg.name), protocol.NewAvatarID())
}
