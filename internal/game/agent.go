package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// OpponentView is what a player can see of another seat
type OpponentView struct {
	Name  string
	Score int
	Plays bool
}

// PlayerView is the read-only state handed to an Agent when it must decide
type PlayerView struct {
	Name          string
	Score         int
	Cards         []deck.Card
	Pass          int
	ActivePlayers int
	Opponents     []OpponentView
}

// Agent decides whether a player stands instead of drawing.
// Agents receive a snapshot and must not mutate game state.
type Agent interface {
	ShouldStand(view PlayerView) (bool, error)
}

// AgentFunc adapts a function to Agent
type AgentFunc func(view PlayerView) (bool, error)

// ShouldStand calls f(view)
func (f AgentFunc) ShouldStand(view PlayerView) (bool, error) { return f(view) }

// HumanAgent asks a person through a prompt function
type HumanAgent struct {
	promptFunc func(view PlayerView) (bool, error)
}

// NewHumanAgent creates a new human agent with a prompt function
func NewHumanAgent(promptFunc func(view PlayerView) (bool, error)) *HumanAgent {
	return &HumanAgent{promptFunc: promptFunc}
}

// ShouldStand prompts the human for a decision
func (h *HumanAgent) ShouldStand(view PlayerView) (bool, error) {
	if h.promptFunc == nil {
		return false, errors.New("no user interface available")
	}
	stand, err := h.promptFunc(view)
	if err != nil {
		return false, fmt.Errorf("prompt %s: %w", view.Name, err)
	}
	return stand, nil
}

// ThresholdAgent stands once the score reaches Threshold
type ThresholdAgent struct {
	Threshold int
}

// ShouldStand returns true at or above the threshold
func (a ThresholdAgent) ShouldStand(view PlayerView) (bool, error) {
	return view.Score >= a.Threshold, nil
}

// NeverStandAgent draws until the round ends
type NeverStandAgent struct{}

// ShouldStand always returns false
func (NeverStandAgent) ShouldStand(PlayerView) (bool, error) { return false, nil }

// RandomAgent stands with probability StandProbability
type RandomAgent struct {
	rng              *rand.Rand
	StandProbability float64
}

// NewRandomAgent creates a coin-flip agent. A nil rng uses the global source.
func NewRandomAgent(rng *rand.Rand) *RandomAgent {
	return &RandomAgent{rng: rng, StandProbability: 0.5}
}

// ShouldStand flips a weighted coin
func (a *RandomAgent) ShouldStand(PlayerView) (bool, error) {
	var f float64
	if a.rng != nil {
		f = a.rng.Float64()
	} else {
		f = rand.Float64()
	}
	return f < a.StandProbability, nil
}

// DefaultThreshold is the stand score used by "threshold" without a value
const DefaultThreshold = 17

// ParseAgent builds a bot agent from a spec string:
//
//	threshold[:N]  stand at N or above (default 17)
//	never          never stand
//	random         stand half the time
func ParseAgent(spec string, rng *rand.Rand) (Agent, error) {
	name, arg, hasArg := strings.Cut(strings.ToLower(strings.TrimSpace(spec)), ":")
	switch name {
	case "threshold":
		n := DefaultThreshold
		if hasArg {
			v, err := strconv.Atoi(arg)
			if err != nil || v < 1 {
				return nil, fmt.Errorf("invalid threshold %q", arg)
			}
			n = v
		}
		return ThresholdAgent{Threshold: n}, nil
	case "never":
		if hasArg {
			return nil, fmt.Errorf("agent %q takes no argument", name)
		}
		return NeverStandAgent{}, nil
	case "random":
		if hasArg {
			return nil, fmt.Errorf("agent %q takes no argument", name)
		}
		return NewRandomAgent(rng), nil
	}
	return nil, fmt.Errorf("unknown agent %q (want threshold[:N], never or random)", spec)
}
