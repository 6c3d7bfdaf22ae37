package download

import "time"

// LastNDays returns the calendar dates from `from` going back n days
// (oldest first, `from` included).
func LastNDays(n int, from time.Time) []time.Time {
	d := truncateToDate(from)
	out := make([]time.Time, 0, n+1)
	for i := n; i >= 0; i-- {
		out = append(out, d.AddDate(0, 0, -i))
	}
	return out
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsBusinessDayJP returns true if the Tokyo Stock Exchange trades on d.
// It excludes weekends, Japanese national holidays (with substitute and
// "sandwiched" citizens' holidays) and the Dec 31 - Jan 3 closure.
func IsBusinessDayJP(d time.Time) bool {
	d = truncateToDate(d)
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	if m, day := d.Month(), d.Day(); (m == time.December && day == 31) || (m == time.January && day <= 3) {
		return false
	}
	return !isHolidayJP(d)
}

func isHolidayJP(d time.Time) bool {
	if isNamedHolidayJP(d) {
		return true
	}
	// Substitute holiday: first non-holiday after a holiday falling on Sunday.
	for p := d.AddDate(0, 0, -1); isNamedHolidayJP(p); p = p.AddDate(0, 0, -1) {
		if p.Weekday() == time.Sunday {
			return true
		}
	}
	// Citizens' holiday: a weekday squeezed between two holidays.
	return d.Weekday() != time.Sunday &&
		isNamedHolidayJP(d.AddDate(0, 0, -1)) &&
		isNamedHolidayJP(d.AddDate(0, 0, 1))
}

// isNamedHolidayJP covers the fixed, Happy Monday and equinox holidays.
func isNamedHolidayJP(d time.Time) bool {
	y, m, day := d.Date()

	fixed := map[time.Month][]int{
		time.January:  {1},
		time.February: {11, 23},
		time.April:    {29},
		time.May:      {3, 4, 5},
		time.August:   {11},
		time.November: {3, 23},
	}
	for _, f := range fixed[m] {
		if f == day {
			return true
		}
	}

	switch m {
	case time.January: // Coming of Age Day
		return isNthMonday(d, 2)
	case time.March:
		return day == vernalEquinox(y)
	case time.July: // Marine Day
		return isNthMonday(d, 3)
	case time.September: // Respect for the Aged Day
		return isNthMonday(d, 3) || day == autumnalEquinox(y)
	case time.October: // Sports Day
		return isNthMonday(d, 2)
	}
	return false
}

func isNthMonday(d time.Time, n int) bool {
	return d.Weekday() == time.Monday && (d.Day()-1)/7 == n-1
}

// Equinox days from the standard approximation, valid 1980-2099.
func vernalEquinox(year int) int {
	return int(20.8431+0.242194*float64(year-1980)) - (year-1980)/4
}

func autumnalEquinox(year int) int {
	return int(23.2488+0.242194*float64(year-1980)) - (year-1980)/4
}
