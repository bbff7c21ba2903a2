package statistics

import (
	"fmt"
	"math"
	"sort"
)

// RoundOutcome is the part of a finished round the aggregates care about
type RoundOutcome struct {
	Seats      int // Number of players at the table
	WinnerSeat int // 0-based seat of the winner, -1 when every player went over 21
	WinScore   int // Winning score, meaningless without a winner
	Passes     int // Passes over the table before the round ended
	Busts      int // Players that ended above 21
	CardsDrawn int
}

// HasWinner reports whether the round produced a winner
func (o RoundOutcome) HasWinner() bool {
	return o.WinnerSeat >= 0
}

// Statistics aggregates outcomes over many rounds
type Statistics struct {
	Rounds   int
	NoWinner int   // Rounds where every player went over 21
	Wins     []int // Wins per seat, grown as wider tables are seen

	SumWinScore  float64
	SumWinScore2 float64   // Sum of squares for variance calculation
	WinScores    []float64 // Every winning score for median/percentile calculation

	SeatRounds int // Sum of seats over all rounds, the denominator for bust rate
	Busts      int
	Passes     int
	CardsDrawn int
}

// Add incorporates one round
func (s *Statistics) Add(o RoundOutcome) {
	s.Rounds++
	s.SeatRounds += o.Seats
	s.Busts += o.Busts
	s.Passes += o.Passes
	s.CardsDrawn += o.CardsDrawn

	if !o.HasWinner() {
		s.NoWinner++
		return
	}

	for len(s.Wins) <= o.WinnerSeat {
		s.Wins = append(s.Wins, 0)
	}
	s.Wins[o.WinnerSeat]++

	score := float64(o.WinScore)
	s.SumWinScore += score
	s.SumWinScore2 += score * score
	s.WinScores = append(s.WinScores, score)
}

// Decided returns the number of rounds that produced a winner
func (s *Statistics) Decided() int {
	return s.Rounds - s.NoWinner
}

// WinRate returns the share of all rounds won by seat
func (s *Statistics) WinRate(seat int) float64 {
	if s.Rounds == 0 || seat < 0 || seat >= len(s.Wins) {
		return 0
	}
	return float64(s.Wins[seat]) / float64(s.Rounds)
}

// Mean returns the average winning score over decided rounds
func (s *Statistics) Mean() float64 {
	n := s.Decided()
	if n == 0 {
		return 0
	}
	return s.SumWinScore / float64(n)
}

// Variance returns the sample variance of winning scores
func (s *Statistics) Variance() float64 {
	n := s.Decided()
	if n < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumWinScore2 - float64(n)*mean*mean) / float64(n-1)
}

// StdDev returns the sample standard deviation of winning scores
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// Median returns the median winning score
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the winning score at p (0.0 to 1.0), interpolating
// between neighbours
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.WinScores) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.WinScores))
	copy(sorted, s.WinScores)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// AvgPasses returns the average number of passes per round
func (s *Statistics) AvgPasses() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Passes) / float64(s.Rounds)
}

// BustRate returns the share of seats that ended a round above 21
func (s *Statistics) BustRate() float64 {
	if s.SeatRounds == 0 {
		return 0
	}
	return float64(s.Busts) / float64(s.SeatRounds)
}

// Validate checks that the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	wins := 0
	for _, w := range s.Wins {
		wins += w
	}
	if wins+s.NoWinner != s.Rounds {
		return fmt.Errorf("wins (%d) plus undecided rounds (%d) do not match rounds (%d)",
			wins, s.NoWinner, s.Rounds)
	}
	if len(s.WinScores) != wins {
		return fmt.Errorf("winning scores (%d) do not match wins (%d)", len(s.WinScores), wins)
	}
	if s.Busts > s.SeatRounds {
		return fmt.Errorf("busts (%d) exceed seats played (%d)", s.Busts, s.SeatRounds)
	}
	return nil
}
