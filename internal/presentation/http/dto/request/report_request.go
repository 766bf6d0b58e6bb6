package request

// ReportPeriodRequest bounds a report. Dates are YYYY-MM-DD; to is inclusive.
type ReportPeriodRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}
