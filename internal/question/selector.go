package question

import (
	"errors"
	"math/rand/v2"
)

// ErrNoEligibleQuestion means every candidate was already asked, or the pool is empty.
var ErrNoEligibleQuestion = errors.New("no eligible question")

const defaultMaxDraws = 1000

// Selector draws one unseen question by rejection sampling over the full pool.
type Selector struct {
	maxDraws int
	intn     func(n int) int
}

// NewSelector builds a selector that gives up sampling after maxDraws redraws.
// A nil intn uses math/rand/v2.
func NewSelector(maxDraws int, intn func(n int) int) *Selector {
	if maxDraws <= 0 {
		maxDraws = defaultMaxDraws
	}
	if intn == nil {
		intn = rand.IntN
	}
	return &Selector{maxDraws: maxDraws, intn: intn}
}

// Pick returns a uniformly random candidate whose id is not in previous, along
// with the number of rejected draws. Each draw is taken from the whole pool.
// When the draw bound is hit the pick falls back to the eligible subset, which
// keeps the result uniform and the call bounded.
func (s *Selector) Pick(candidates []Question, previous map[int]struct{}) (Question, int, error) {
	eligible := 0
	for _, q := range candidates {
		if _, seen := previous[q.ID]; !seen {
			eligible++
		}
	}
	if eligible == 0 {
		return Question{}, 0, ErrNoEligibleQuestion
	}

	for draw := 0; draw < s.maxDraws; draw++ {
		q := candidates[s.intn(len(candidates))]
		if _, seen := previous[q.ID]; !seen {
			return q, draw, nil
		}
	}

	target := s.intn(eligible)
	for _, q := range candidates {
		if _, seen := previous[q.ID]; seen {
			continue
		}
		if target == 0 {
			return q, s.maxDraws, nil
		}
		target--
	}
	return Question{}, s.maxDraws, ErrNoEligibleQuestion
}

func idSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
