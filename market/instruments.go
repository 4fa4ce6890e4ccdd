package market

import "strings"

// InstrumentMeta describes an optionable index as the exchange lists it.
type InstrumentMeta struct {
	Name           string
	Exchange       string
	StrikeInterval int // rupee gap between adjacent strikes
	LotSize        int // contracts per lot
}

var Instruments = map[string]InstrumentMeta{
	"NIFTY": {
		Name:           "NIFTY",
		Exchange:       "NSE",
		StrikeInterval: 50,
		LotSize:        50,
	},
	"BANKNIFTY": {
		Name:           "BANKNIFTY",
		Exchange:       "NSE",
		StrikeInterval: 100,
		LotSize:        15,
	},
	"FINNIFTY": {
		Name:           "FINNIFTY",
		Exchange:       "NSE",
		StrikeInterval: 50,
		LotSize:        40,
	},
	"SENSEX": {
		Name:           "SENSEX",
		Exchange:       "NSE",
		StrikeInterval: 100,
		LotSize:        10,
	},
}

const (
	defaultStrikeInterval = 50
	defaultLotSize        = 50
)

// StrikeInterval returns the strike gap for the instrument, defaulting
// to 50 for anything not in the table.
func StrikeInterval(instrument string) int {
	if meta, ok := Instruments[strings.ToUpper(instrument)]; ok {
		return meta.StrikeInterval
	}
	return defaultStrikeInterval
}

// LotSize returns the contract multiplier for the instrument. A
// positive entry in overrides wins over the table; anything unknown
// defaults to 50.
func LotSize(instrument string, overrides map[string]int) int {
	key := strings.ToUpper(instrument)
	if overrides != nil {
		if n, ok := overrides[key]; ok && n > 0 {
			return n
		}
	}
	if meta, ok := Instruments[key]; ok {
		return meta.LotSize
	}
	return defaultLotSize
}
