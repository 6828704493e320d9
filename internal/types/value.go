package types

// ValueAssessment is the transient result of one value-bet calculation. It is
// never persisted; every call produces a fresh tuple owned by the caller.
type ValueAssessment struct {
	BookmakerOdd         float64    `json:"bookmakerOdd"`
	ImpliedProbability   float64    `json:"impliedProbability"`
	YourProbability      float64    `json:"yourProbability"`
	TrueOdd              float64    `json:"trueOdd"`
	Value                float64    `json:"value"`
	Recommendation       string     `json:"recommendation"`
	IsValue              bool       `json:"isValue"`
}

// OddsUpdate is a partial odds write; nil fields are left unchanged.
type OddsUpdate struct {
	P1   *float64   `json:"p1"`
	X    *float64   `json:"x"`
	P2   *float64   `json:"p2"`
}
