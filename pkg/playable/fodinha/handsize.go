package fodinha

import "fodinha-server/pkg/deck"

// MaxHandSize is the largest hand that can be dealt to every player while keeping
// one card back as the trump indicator
func MaxHandSize(players int) int {
	if players <= 0 {
		return 0
	}

	return (deck.Size - 1) / players
}

// nextHandSize returns the hand size of the next round and whether the hand size is still growing.
// The hand size climbs from 1 to max and back down again, turning around at each end.
func nextHandSize(size int, growing bool, max int) (int, bool) {
	if max <= 1 {
		return 1, true
	}

	if growing {
		size++
		if size >= max {
			return max, false
		}

		return size, true
	}

	size--
	if size <= 1 {
		return 1, true
	}

	return size, false
}

// firstHandSize returns the opening hand size and direction
func firstHandSize(from StartFrom, max int) (int, bool) {
	if from == StartFromMax && max > 1 {
		return max, false
	}

	return 1, true
}
