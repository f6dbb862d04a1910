/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package tui

import (
	"github.com/Seednode/slicebox/ninja"
	"github.com/gdamore/tcell/v2"
)

// Open initializes the terminal with mouse motion reporting, so a plain
// drag or hover acts as the blade.
func Open() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		return nil, err
	}

	screen.SetStyle(styleBase)
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	screen.Clear()

	return screen, nil
}

// pollEvents forwards terminal events to loop until the screen is
// finalized or the loop exits. handle runs on the loop goroutine; quit is
// called when it returns false.
func pollEvents(screen tcell.Screen, loop *ninja.Loop, handle func(tcell.Event) bool, quit func()) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}

		ok := loop.Do(func() {
			if !handle(ev) {
				quit()
			}
		})
		if !ok {
			return
		}
	}
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

func isStart(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEnter:
		return true
	case tcell.KeyRune:
		return ev.Rune() == ' '
	}
	return false
}

// pointer maps a mouse event to playfield pixels.
func pointer(ev *tcell.EventMouse) ninja.Point {
	x, y := ev.Position()
	return toField(x, y)
}
