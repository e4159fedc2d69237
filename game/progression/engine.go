// Package progression implements the experience curve and level-up rules.
package progression

import (
	"errors"
	"math"

	"github.com/azerothdev/azeroth-api/model"
)

const (
	// MaxLevel is the level cap. Experience gained at the cap is discarded.
	MaxLevel = 70

	xpBase     = 500
	xpExponent = 1.5
)

// ErrNegativeAmount is returned when a negative experience amount is granted.
var ErrNegativeAmount = errors.New("progression: experience amount must be non-negative")

// ExperienceForLevel returns the experience required to advance past the
// given level: trunc(500 * level^1.5). Defined for level >= 1 and strictly
// increasing.
func ExperienceForLevel(level int) int64 {
	return int64(xpBase * math.Pow(float64(level), xpExponent))
}

// GrantExperience adds the truncated amount to the player's experience and
// resolves any resulting level-ups in place.
//
// Each level-up consumes the threshold of the level being left and carries
// the remainder forward, so one large grant can raise several levels. At the
// cap any surplus experience is zeroed, not banked.
func GrantExperience(p *model.Player, amount float64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	p.Experience += int64(amount) // truncate toward zero

	for {
		if p.Level >= MaxLevel {
			p.Experience = 0
			return nil
		}
		required := ExperienceForLevel(p.Level)
		if p.Experience < required {
			return nil
		}
		p.Experience -= required
		p.Level++
	}
}
