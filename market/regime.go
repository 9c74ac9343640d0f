package market

// Regime represents the volatility state of the synthetic market.
type Regime string

const (
	RegimeCalm     Regime = "calm"
	RegimeStressed Regime = "stressed"
)

// IsStressed checks if the regime is the high volatility one
func (r Regime) IsStressed() bool {
	return r == RegimeStressed
}

// Other returns the regime a transition leads to.
func (r Regime) Other() Regime {
	if r == RegimeStressed {
		return RegimeCalm
	}
	return RegimeStressed
}
