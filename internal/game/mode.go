package game

import (
	"fmt"
	"strings"
)

// Mode selects how turns are played
type Mode int

const (
	// Auto deals every player one card per pass until someone busts
	Auto Mode = iota
	// Manual asks each player whether to stand before drawing
	Manual
)

// String returns the mode name as shown to players
func (m Mode) String() string {
	switch m {
	case Auto:
		return "AUTO"
	case Manual:
		return "MANUAL"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ModeFromChoice maps the prompt answer to a mode: 0 is Auto, anything else Manual
func ModeFromChoice(choice int) Mode {
	if choice != 0 {
		return Manual
	}
	return Auto
}

// ParseMode accepts "auto"/"manual" (any case) or the prompt digits "0"/"1"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "0":
		return Auto, nil
	case "manual", "1":
		return Manual, nil
	}
	return Auto, fmt.Errorf("unknown mode %q (want auto or manual)", s)
}
