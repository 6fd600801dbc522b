package form

import (
	"strconv"
	"time"
)

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// MonthName returns the lower case Portuguese name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// DateParts holds the pieces of a date the template prints separately.
type DateParts struct {
	Day     string // no zero padding
	Month   string // Portuguese month name
	Year    string
	Compact string // D/MM/YYYY
}

// SplitDate formats t into DateParts.
func SplitDate(t time.Time) DateParts {
	day := strconv.Itoa(t.Day())
	year := strconv.Itoa(t.Year())
	month := t.Format("01")
	return DateParts{
		Day:     day,
		Month:   MonthName(t.Month()),
		Year:    year,
		Compact: day + "/" + month + "/" + year,
	}
}
