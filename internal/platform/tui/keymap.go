package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/quadarcade/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game and menu actions.
type KeyMapper struct {
	game map[string]core.Action
}

// NewKeyMapper creates a key mapper with the default bindings. Arrows and
// WASD steer, space and enter are the two main buttons.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{game: map[string]core.Action{
		"ctrl+c": core.ActionQuit,
		"q":      core.ActionQuit,
		"w":      core.ActionUp,
		"up":     core.ActionUp,
		"s":      core.ActionDown,
		"down":   core.ActionDown,
		"a":      core.ActionLeft,
		"left":   core.ActionLeft,
		"d":      core.ActionRight,
		"right":  core.ActionRight,
		" ":      core.ActionJump,
		"enter":  core.ActionSecondary,
		"x":      core.ActionAlt,
		"m":      core.ActionMode,
		"p":      core.ActionPause,
		"r":      core.ActionRestart,
		"esc":    core.ActionBack,
		"b":      core.ActionBack,
	}}
}

// MapKey returns the game action bound to msg, or ActionNone.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	if a, ok := km.game[msg.String()]; ok {
		return a
	}
	return core.ActionNone
}

// MapKeyToFrame sets the action bound to msg in frame. It reports whether
// the key asks to quit.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return action == core.ActionQuit
}

// MenuAction is a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
