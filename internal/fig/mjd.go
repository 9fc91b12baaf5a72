package fig

// DateTime is a decoded FIG 0/10 date-and-time stamp.
type DateTime struct {
	Year, Month, Day   int
	Hours, Minutes, Seconds int
	Milliseconds       int
	UTCFlag            bool
}

// MJDToGregorian converts a Modified Julian Date to a Gregorian calendar
// date using the integer Fliegel & Van Flandern algorithm, ported from the
// reference decoder's modified_julian_date routine.
func MJDToGregorian(mjd int) (year, month, day int) {
	j := mjd + 2400001 // convert MJD to Julian Day Number
	jAdj := j + 32044
	g := jAdj / 146097
	dg := jAdj % 146097
	c := (dg/36524 + 1) * 3 / 4
	dc := dg - c*36524
	b := dc / 1461
	db := dc % 1461
	a := (db/365 + 1) * 3 / 4
	da := db - a*365
	y := g*400 + c*100 + b*4 + a
	m := (da*5+308)/153 - 2
	d := da - (m+4)*153/5 + 122

	year = y - 4800 + (m+2)/12
	month = (m+2)%12 + 1
	day = d + 1
	return
}
