/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package tui

import (
	"context"
	"errors"

	"github.com/Seednode/slicebox/audio"
	"github.com/Seednode/slicebox/ninja"
	"github.com/gdamore/tcell/v2"
)

// Arcade is the single-player game.
type Arcade struct {
	screen tcell.Screen
	round  *ninja.Round
	loop   *ninja.Loop
}

// NewArcade sizes the playfield to screen. player may be nil.
func NewArcade(screen tcell.Screen, player audio.Player) *Arcade {
	fw, fh := fieldSize(screen.Size())

	a := &Arcade{screen: screen}
	a.round = ninja.NewRound(ninja.ArcadePolicy(), fw, fh, nil, player)
	a.loop = ninja.NewLoop(ninja.FrameRate, a.frame)

	return a
}

// Run plays until the user quits or ctx is cancelled.
func (a *Arcade) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go pollEvents(a.screen, a.loop, a.handle, cancel)
	a.loop.Do(a.draw)

	err := a.loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *Arcade) frame() bool {
	alive := a.round.Tick()
	a.draw()
	return alive
}

func (a *Arcade) draw() {
	wipe(a.screen)
	drawRound(a.screen, a.round, "", "")
	a.screen.Show()
}

func (a *Arcade) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			return false
		}
		if isStart(ev) && !a.round.Active() {
			a.round.Start()
			a.loop.Resume()
		}

	case *tcell.EventMouse:
		a.round.PointerMoved(pointer(ev))

	case *tcell.EventResize:
		a.screen.Sync()
		a.round.Sim.Resize(fieldSize(a.screen.Size()))
	}

	if !a.loop.Ticking() {
		a.draw()
	}
	return true
}
