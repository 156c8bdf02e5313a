// Package tui is the terminal front end: both players share one keyboard.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Screen wraps tcell.Screen with the few calls the game needs.
type Screen struct {
	screen tcell.Screen
}

// NewScreen creates and initializes the terminal screen.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}

	return Wrap(s)
}

// Wrap initializes an existing tcell screen, e.g. a simulation screen.
func Wrap(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}

	s.SetStyle(tcell.StyleDefault)
	s.Clear()

	return &Screen{screen: s}, nil
}

func (that *Screen) Close() {
	that.screen.Fini()
}

func (that *Screen) PollEvent() tcell.Event {
	return that.screen.PollEvent()
}

// Interrupt wakes up a blocked PollEvent.
func (that *Screen) Interrupt() {
	_ = that.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func (that *Screen) Clear() {
	that.screen.Clear()
}

func (that *Screen) Show() {
	that.screen.Show()
}

func (that *Screen) Sync() {
	that.screen.Sync()
}

func (that *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	that.screen.SetContent(x, y, r, nil, style)
}

func (that *Screen) Size() (width, height int) {
	return that.screen.Size()
}
