package market

import "time"

// Weekly index options on the NSE expire on Thursdays.
const expiryWeekday = time.Thursday

// NextExpiry returns the next weekly expiry strictly after now, encoded
// as YYMMDD. If now falls on the expiry weekday it rolls to next week's
// contract: the current week's contract stops trading that day.
func NextExpiry(now time.Time) string {
	daysAhead := int(expiryWeekday) - int(now.Weekday())
	if daysAhead <= 0 {
		daysAhead += 7
	}
	return now.AddDate(0, 0, daysAhead).Format("060102")
}
