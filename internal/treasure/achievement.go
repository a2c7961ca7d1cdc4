package treasure

import "github.com/abhisek/zibao/internal/curriculum"

// Standing summarizes achievement progress for a treasure count.
type Standing struct {
	Earned    []curriculum.Achievement
	Next      *curriculum.Achievement
	Remaining int // treasures still needed for Next
}

// StandingFor computes achievement progress from the curriculum thresholds.
func StandingFor(c *curriculum.Curriculum, count int) Standing {
	s := Standing{Earned: c.Earned(count)}
	for _, a := range c.Achievements() {
		if count < a.Threshold {
			s.Next = &a
			s.Remaining = a.Threshold - count
			break
		}
	}
	return s
}
