package services

import (
	"math"

	"github.com/betwise/betwise-backend/internal/logger"
	"github.com/betwise/betwise-backend/internal/types"
)

const (
	RecommendationValueBet = "Value bet - recommended"
	RecommendationNeutral  = "Neutral"
	RecommendationNoValue  = "No value"
)

// ValueService turns a bookmaker price and the caller's own win probability
// into a value-bet verdict. It is stateless and performs no validation: the
// HTTP boundary rejects non-positive prices and probabilities outside
// (0, 100] before this service is reached.
type ValueService interface {
	CalculateValue(bookmakerOdd, yourProbability float64) types.ValueAssessment
}

type valueService struct {
	log *logger.Logger
}

func NewValueService(baseLog *logger.Logger) ValueService {
	serviceLog := baseLog.With("service", "ValueService")
	return &valueService{log: serviceLog}
}

// CalculateValue derives, in order: the implied probability of the price
// (margin included), the fair odd for the caller's probability, and the
// expected-value fraction. The recommendation and the isValue flag are
// classified on the unrounded value; only the echoed fields are rounded for
// display. The two thresholds differ on purpose: a result can be "Neutral"
// (value within ±0.05) and still carry isValue = true (value strictly
// positive).
func (vs *valueService) CalculateValue(bookmakerOdd, yourProbability float64) types.ValueAssessment {
	impliedProbability := (1 / bookmakerOdd) * 100
	trueOdd := 100 / yourProbability
	value := (yourProbability*bookmakerOdd)/100 - 1

	var recommendation string
	switch {
	case value > 0.05:
		recommendation = RecommendationValueBet
	case value > -0.05:
		recommendation = RecommendationNeutral
	default:
		recommendation = RecommendationNoValue
	}

	return types.ValueAssessment{
		BookmakerOdd:       bookmakerOdd,
		ImpliedProbability: round2(impliedProbability),
		YourProbability:    yourProbability,
		TrueOdd:            round2(trueOdd),
		Value:              round3(value),
		Recommendation:     recommendation,
		IsValue:            value > 0,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
