package market

// OptionType is the exchange code for the option side.
type OptionType string

const (
	Call OptionType = "CE"
	Put  OptionType = "PE"
)

// Valid reports whether t is one of the two recognized option codes.
func (t OptionType) Valid() bool {
	return t == Call || t == Put
}

// StrikeMode selects which strike to trade relative to the underlying
// price at signal time.
type StrikeMode string

const (
	ATM  StrikeMode = "ATM"
	ITM1 StrikeMode = "ITM1"
	ITM2 StrikeMode = "ITM2"
	OTM1 StrikeMode = "OTM1"
	OTM2 StrikeMode = "OTM2"
)

// offsets holds the signed strike offset, in units of the strike
// interval, for a call. Puts use the negated value: a lower strike is
// in-the-money for a call but out-of-the-money for a put.
var offsets = map[StrikeMode]int{
	ATM:  0,
	ITM1: -1,
	ITM2: -2,
	OTM1: 1,
	OTM2: 2,
}

// Offset returns the strike offset for the mode and option type.
// Unrecognized modes fall back to at-the-money.
func (m StrikeMode) Offset(t OptionType) int {
	off, ok := offsets[m]
	if !ok {
		return 0
	}
	if t == Put {
		return -off
	}
	return off
}
