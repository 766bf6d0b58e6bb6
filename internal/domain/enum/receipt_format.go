package enum

// DateFormat selects how receipt dates are printed.
type DateFormat string

const (
	DateFormatDMY DateFormat = "DD/MM/YYYY"
	DateFormatMDY DateFormat = "MM/DD/YYYY"
	DateFormatISO DateFormat = "YYYY-MM-DD"
)

// Layout returns the Go time layout. Unknown values fall back to DD/MM/YYYY.
func (f DateFormat) Layout() string {
	switch f {
	case DateFormatMDY:
		return "01/02/2006"
	case DateFormatISO:
		return "2006-01-02"
	default:
		return "02/01/2006"
	}
}

// TimeFormat selects 24-hour or 12-hour receipt times.
type TimeFormat string

const (
	TimeFormat24Hour TimeFormat = "24hour"
	TimeFormat12Hour TimeFormat = "12hour"
)

// Layout returns the Go time layout. Unknown values fall back to 24-hour.
func (f TimeFormat) Layout() string {
	if f == TimeFormat12Hour {
		return "03:04 PM"
	}
	return "15:04"
}
