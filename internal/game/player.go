package game

import (
	"github.com/lox/blackjack/internal/deck"
)

// BustLimit is the highest score a player can hold and stay in the round
const BustLimit = 21

// RankValue returns the points a rank is worth. Aces are always 11; there is
// no soft hand adjustment.
func RankValue(r deck.Rank) int {
	switch {
	case r == deck.Ace:
		return 11
	case r.IsFace():
		return 10
	default:
		return int(r)
	}
}

// HandScore sums the rank values of cards
func HandScore(cards []deck.Card) int {
	score := 0
	for _, c := range cards {
		score += RankValue(c.Rank)
	}
	return score
}

// Player represents a player in the round
type Player struct {
	Name  string
	cards []deck.Card
	score int
	plays bool
}

// NewPlayer creates a player who is still in the round
func NewPlayer(name string) *Player {
	return &Player{Name: name, plays: true}
}

// Hit adds card to the hand and recomputes the score. Busting does not fold
// the player; callers check IsBust.
func (p *Player) Hit(card deck.Card) {
	p.cards = append(p.cards, card)
	p.score = HandScore(p.cards)
}

// Stand stops the player drawing for the rest of the round
func (p *Player) Stand() {
	p.plays = false
}

// Score returns the sum of the held cards
func (p *Player) Score() int {
	return p.score
}

// Plays returns true until the player stands
func (p *Player) Plays() bool {
	return p.plays
}

// IsBust returns true when the score is over 21
func (p *Player) IsBust() bool {
	return p.score > BustLimit
}

// Cards returns a copy of the held cards in the order they were drawn
func (p *Player) Cards() []deck.Card {
	out := make([]deck.Card, len(p.cards))
	copy(out, p.cards)
	return out
}
