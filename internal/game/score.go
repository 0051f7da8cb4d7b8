package game

import (
	"errors"
	"fmt"
)

// ErrNegativeScore is returned when a negative amount is added.
var ErrNegativeScore = errors.New("score amount must not be negative")

// ScoreTracker accumulates points. It only ever goes up.
type ScoreTracker struct {
	total int
}

// Add increases the score by amount and returns the new total.
func (s *ScoreTracker) Add(amount int) (int, error) {
	if amount < 0 {
		return s.total, fmt.Errorf("add %d: %w", amount, ErrNegativeScore)
	}
	s.total += amount
	return s.total, nil
}

// Score returns the current total.
func (s *ScoreTracker) Score() int {
	return s.total
}
