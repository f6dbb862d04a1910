/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Seednode/slicebox/ninja"
	"github.com/Seednode/slicebox/protocol"
	"github.com/Seednode/slicebox/session"
	"github.com/gdamore/tcell/v2"
)

// HostView is the classroom host's screen: lobby, live rankings and podium.
type HostView struct {
	screen  tcell.Screen
	host    *session.Host
	joinURL string
	qr      string

	loop   *ninja.Loop
	state  protocol.GameState
	status string
	now    func() time.Time
}

// NewHostView shows joinURL as text and as a QR code in the lobby.
func NewHostView(screen tcell.Screen, host *session.Host, joinURL string) *HostView {
	v := &HostView{
		screen:  screen,
		host:    host,
		joinURL: joinURL,
		state:   host.State(),
		now:     time.Now,
	}
	if joinURL != "" {
		v.qr, _ = QRBlock(joinURL)
	}

	// Frames only run while playing, to keep the clock moving.
	v.loop = ninja.NewLoop(2, v.frame)

	return v
}

// Run shows the room until the user quits, ctx is cancelled or the relay
// connection drops.
func (v *HostView) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	v.host.OnChange(func(st protocol.GameState) {
		v.loop.Do(func() {
			v.state = st
			if st.Phase == protocol.Playing {
				v.loop.Resume()
			}
			v.draw()
		})
	})

	hostErr := make(chan error, 1)
	go func() {
		hostErr <- v.host.Run(ctx)
		cancel()
	}()

	go pollEvents(v.screen, v.loop, v.handle, cancel)
	v.loop.Do(v.draw)

	_ = v.loop.Run(ctx)
	cancel()

	if err := <-hostErr; errors.Is(err, session.ErrDisconnected) {
		return err
	}
	return nil
}

func (v *HostView) frame() bool {
	v.draw()
	return v.state.Phase == protocol.Playing
}

func (v *HostView) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			break
		}

		var err error
		switch ev.Rune() {
		case 's':
			err = v.host.Start(v.now())
		case 'e':
			err = v.host.End()
		}
		v.status = ""
		if err != nil {
			v.status = err.Error()
		}

	case *tcell.EventResize:
		v.screen.Sync()
	}

	v.draw()
	return true
}

func (v *HostView) draw() {
	wipe(v.screen)
	drawHost(v.screen, v.state, v.joinURL, v.qr, v.status, v.now())
	v.screen.Show()
}

func drawHost(c canvas, st protocol.GameState, joinURL, qr, status string, now time.Time) {
	switch st.Phase {
	case protocol.Lobby:
		drawLobby(c, st, joinURL, qr)

	case protocol.Playing:
		drawLive(c, st)
		if st.StartTime != nil {
			w, _ := c.Size()
			centered(c, w/2, 1, styleBase, clock(now.Sub(time.UnixMilli(*st.StartTime))))
		}

	case protocol.Finished:
		drawPodium(c, st)
	}

	if status != "" {
		text(c, 1, 0, styleHeart, status)
	}
}

// clock formats an elapsed duration as m:ss.
func clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
