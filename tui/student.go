/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Seednode/slicebox/ninja"
	"github.com/Seednode/slicebox/protocol"
	"github.com/Seednode/slicebox/session"
	"github.com/gdamore/tcell/v2"
)

// StudentView is a player's screen. Drawing happens on the student's loop
// goroutine, which also owns the round.
type StudentView struct {
	screen  tcell.Screen
	student *session.Student
}

func NewStudentView(screen tcell.Screen, student *session.Student) *StudentView {
	return &StudentView{screen: screen, student: student}
}

// Run joins the room as name and plays until the user quits, ctx is
// cancelled or the relay connection drops.
func (v *StudentView) Run(ctx context.Context, id, name string, avatarID int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := v.student
	s.OnFrame(v.draw)
	s.OnChange(func(protocol.GameState) { s.Loop.Do(v.draw) })

	go pollEvents(v.screen, s.Loop, v.handle, cancel)

	s.Join(id, name, avatarID)
	s.Loop.Do(v.draw)

	err := s.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (v *StudentView) handle(ev tcell.Event) bool {
	s := v.student

	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			return false
		}

	case *tcell.EventMouse:
		s.Round.PointerMoved(pointer(ev))

	case *tcell.EventResize:
		v.screen.Sync()
		s.Round.Sim.Resize(fieldSize(v.screen.Size()))
		v.draw()
	}
	return true
}

func (v *StudentView) draw() {
	wipe(v.screen)
	drawStudent(v.screen, v.student.State(), v.student.Me(), v.student.Round)
	v.screen.Show()
}

func drawStudent(c canvas, st protocol.GameState, me protocol.Player, r *ninja.Round) {
	w, h := c.Size()

	switch st.Phase {
	case protocol.Lobby:
		centered(c, w/2, h/2-3, styleTitle, "YOU'RE IN!")
		centered(c, w/2, h/2-1, styleAccent, me.Name)
		centered(c, w/2, h/2+1, styleBase, fmt.Sprintf("Room %s · %d players", st.PIN, len(st.Players)))
		centered(c, w/2, h/2+3, styleDim, "Waiting for the host to start...")

	case protocol.Playing:
		drawRound(c, r, "OUT OF LIVES", "Waiting for the host to end the round")

	case protocol.Finished:
		centered(c, w/2, h/2-2, styleTitle, "ROUND OVER")
		centered(c, w/2, h/2, styleAccent, fmt.Sprintf("Your score: %d", r.Score()))
		centered(c, w/2, h/2+2, styleDim, "Look at the big screen for the podium   [q] quit")
	}
}
