package models

import (
	"time"

	"github.com/dmitrijs2005/severity/internal/common"
)

// Prediction is one stored classifier call. (UserID, LocalID) identifies
// it; LocalID counts from 1 per user.
type Prediction struct {
	LocalID   int64
	UserID    int64
	Features  [common.FeatureCount]float64
	Result    int
	CreatedAt time.Time
}

// ReferralAdvice accompanies results of 3 and above.
const ReferralAdvice = "Disarankan membawa anak anda pada specialist."

// NeedsReferral reports whether the result warrants a specialist visit.
func (p *Prediction) NeedsReferral() bool {
	return NeedsReferral(p.Result)
}

func NeedsReferral(result int) bool {
	return result >= 3
}

// Advice returns ReferralAdvice when the result needs a referral, "" otherwise.
func (p *Prediction) Advice() string {
	if p.NeedsReferral() {
		return ReferralAdvice
	}
	return ""
}
