// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package position

import "math"

// ScoreInputs are the signals feeding the consensus score. Missing
// signals use their zero values: 0 citations, nil peer review, year 0
// (which disables the age adjustment).
type ScoreInputs struct {
	CitationCount  int
	PeerReviewed   *bool
	IsReview       bool
	IsMetaAnalysis bool
	Year           int

	// ReferenceYear anchors the age adjustment so scores are
	// reproducible; callers pass the current year for live scoring and
	// a fixed year in tests.
	ReferenceYear int

	Retracted bool
}

// ComputeScore derives the 0-100 consensus score.
//
// Base 50. Citations add a log-scaled bonus capped at 30. Peer review
// adds or subtracts 10. Meta-analyses add 15, other reviews 10. Age
// relative to the reference year adjusts for vetting time: future years
// (a data error) cost 20, works under 3 years old cost 5, 3-5 years
// gain 5, 6-10 years are neutral, and older works lose up to 10. A
// retraction costs a flat 50 after everything else. The result is
// clamped to [0,100].
func ComputeScore(in ScoreInputs) int {
	score := 50

	if in.CitationCount > 0 {
		bonus := int(10 * math.Log10(float64(in.CitationCount)+1))
		if bonus > 30 {
			bonus = 30
		}
		score += bonus
	}

	if in.PeerReviewed != nil {
		if *in.PeerReviewed {
			score += 10
		} else {
			score -= 10
		}
	}

	if in.IsMetaAnalysis {
		score += 15
	} else if in.IsReview {
		score += 10
	}

	if in.Year != 0 {
		age := in.ReferenceYear - in.Year
		switch {
		case age < 0:
			score -= 20
		case age <= 2:
			score -= 5
		case age <= 5:
			score += 5
		case age <= 10:
			// Neither fresh nor stale.
		default:
			penalty := (age - 10) / 5
			if penalty > 10 {
				penalty = 10
			}
			score -= penalty
		}
	}

	if in.Retracted {
		score -= 50
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Label maps a score onto its descriptive band. The band thresholds
// are stable across releases: users correlate the words with the
// numeric thresholds.
func Label(score int) string {
	switch {
	case score >= 80:
		return "very high"
	case score >= 65:
		return "high"
	case score >= 50:
		return "moderate"
	case score >= 35:
		return "somewhat low"
	default:
		return "low"
	}
}
