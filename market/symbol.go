package market

import (
	"fmt"
	"strings"
)

var monthCodes = map[string]string{
	"01": "JAN", "02": "FEB", "03": "MAR", "04": "APR",
	"05": "MAY", "06": "JUN", "07": "JUL", "08": "AUG",
	"09": "SEP", "10": "OCT", "11": "NOV", "12": "DEC",
}

// BuildSymbol formats the broker symbol for a weekly option contract:
// NSE:<root><DD><MMM><YY><strike><CE|PE>, e.g. NSE:NIFTY31JUL2521500CE.
// expiry must be a YYMMDD code as returned by NextExpiry.
//
// Any instrument containing "NIFTY" that is not bank- or fin-nifty
// collapses to the bare NIFTY root. That is deliberate and matches the
// live symbology; it also means a hypothetical "XNIFTY" would collapse.
func BuildSymbol(instrument string, strike int, optType OptionType, expiry string) (string, error) {
	if len(expiry) != 6 {
		return "", fmt.Errorf("build symbol: bad expiry code %q", expiry)
	}
	month, ok := monthCodes[expiry[2:4]]
	if !ok {
		return "", fmt.Errorf("build symbol: bad expiry month in %q", expiry)
	}
	year, day := expiry[:2], expiry[4:6]

	root := strings.ToUpper(strings.TrimPrefix(instrument, "NSE:"))
	if strings.Contains(root, "NIFTY") && !strings.Contains(root, "BANK") && !strings.Contains(root, "FIN") {
		root = "NIFTY"
	}

	return fmt.Sprintf("NSE:%s%s%s%s%d%s", root, day, month, year, strike, optType), nil
}
