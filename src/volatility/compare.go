package volatility

import (
	"fmt"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

type VolSentiment string

const (
	// SentimentFear: implied vol far above realized, option premium is
	// pricing in a move the history has not shown.
	SentimentFear        VolSentiment = "fear"
	SentimentElevated    VolSentiment = "elevated_premium"
	SentimentNeutral     VolSentiment = "neutral"
	SentimentComplacency VolSentiment = "complacency"
)

type VolComparison struct {
	Historical  float64
	Implied     float64
	Difference  float64
	PercentDiff float64
	Sentiment   VolSentiment
}

// Compare reports the gap between historical (realized) and implied
// volatility with a qualitative label derived from the relative gap.
func Compare(historical, implied float64) (*VolComparison, error) {
	if historical <= 0 {
		return nil, &eventmodels.DataValidationError{Func: "volatility.Compare", Reason: fmt.Sprintf("historical vol must be positive, got %v", historical)}
	}

	if implied <= 0 {
		return nil, &eventmodels.DataValidationError{Func: "volatility.Compare", Reason: fmt.Sprintf("implied vol must be positive, got %v", implied)}
	}

	diff := implied - historical
	pct := diff / historical

	sentiment := SentimentNeutral
	switch {
	case pct > 0.50:
		sentiment = SentimentFear
	case pct > 0.15:
		sentiment = SentimentElevated
	case pct < -0.15:
		sentiment = SentimentComplacency
	}

	return &VolComparison{
		Historical:  historical,
		Implied:     implied,
		Difference:  diff,
		PercentDiff: pct,
		Sentiment:   sentiment,
	}, nil
}
