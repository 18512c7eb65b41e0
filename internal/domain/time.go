// internal/domain/time.go
package domain

import (
	"fmt"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// Date is a calendar day without a time-of-day component. The zero
// value means "no date".
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today is the current calendar day at call time.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool       { return d.t.IsZero() }
func (d Date) Time() time.Time    { return d.t }
func (d Date) String() string     { return d.t.Format(dateLayout) }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// YearMonth is a calendar month without a day component, the grain
// budgets are keyed on.
type YearMonth struct {
	t time.Time // first day of the month, UTC
}

func NewYearMonth(year int, month time.Month) YearMonth {
	return YearMonth{t: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)}
}

// YearMonthOf truncates t to its calendar month.
func YearMonthOf(t time.Time) YearMonth {
	return NewYearMonth(t.Year(), t.Month())
}

// ParseYearMonth parses "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return YearMonthOf(t), nil
}

func (m YearMonth) IsZero() bool            { return m.t.IsZero() }
func (m YearMonth) Time() time.Time         { return m.t }
func (m YearMonth) String() string          { return m.t.Format(monthLayout) }
func (m YearMonth) Before(o YearMonth) bool { return m.t.Before(o.t) }
func (m YearMonth) Equal(o YearMonth) bool  { return m.t.Equal(o.t) }

// AddMonths shifts the month by n, which may be negative.
func (m YearMonth) AddMonths(n int) YearMonth {
	return YearMonthOf(m.t.AddDate(0, n, 0))
}

// FirstDay is the first calendar day of the month.
func (m YearMonth) FirstDay() Date {
	return DateOf(m.t)
}

// LastDay is the last calendar day of the month.
func (m YearMonth) LastDay() Date {
	return DateOf(m.t.AddDate(0, 1, -1))
}

// View formats the month for listings: machine value plus display string.
func (m YearMonth) View() Month {
	return Month{
		Value:   m.t.Format(monthLayout),
		Display: m.t.Format("January 2006"),
	}
}

func (m YearMonth) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *YearMonth) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid month %s", s)
	}
	parsed, err := ParseYearMonth(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
