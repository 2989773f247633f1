package core

import (
	"fmt"
	"sort"
	"time"
)

// Supported locales for month names.
const (
	LocaleEnglish    = "en"
	LocaleIndonesian = "id"
)

var monthNames = map[string][12]string{
	LocaleEnglish: {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	LocaleIndonesian: {
		"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember",
	},
}

var weekdayHeaders = map[string][7]string{
	LocaleEnglish:    {"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"},
	LocaleIndonesian: {"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"},
}

// KnownLocales returns the supported locale codes in sorted order.
func KnownLocales() []string {
	out := make([]string, 0, len(monthNames))
	for k := range monthNames {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsKnownLocale reports whether locale has month names.
func IsKnownLocale(locale string) bool {
	_, ok := monthNames[locale]
	return ok
}

func resolveLocale(locale string) string {
	if IsKnownLocale(locale) {
		return locale
	}
	return LocaleEnglish
}

// MonthName returns the localized name of m. Unknown locales use English.
func MonthName(locale string, m time.Month) string {
	return monthNames[resolveLocale(locale)][m-time.January]
}

// WeekdayHeaders returns localized short weekday names starting on Sunday.
func WeekdayHeaders(locale string) [7]string {
	return weekdayHeaders[resolveLocale(locale)]
}

// FormatDeadline renders a date as "<day> <month name> <year>", the form
// stored in a task's deadline field.
func FormatDeadline(t time.Time, locale string) string {
	return fmt.Sprintf("%d %s %d", t.Day(), MonthName(locale, t.Month()), t.Year())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LeadingBlanks returns the Sunday based weekday index of the first day of
// the month, i.e. how many padding cells precede day 1 in the grid.
func LeadingBlanks(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// CalendarCell is one slot of a month grid. Day is zero for padding cells.
type CalendarCell struct {
	Day int
}

// Blank reports whether the cell is padding before day 1.
func (c CalendarCell) Blank() bool {
	return c.Day == 0
}

// MonthGrid returns LeadingBlanks padding cells followed by the days of the
// month numbered 1..DaysInMonth.
func MonthGrid(year int, month time.Month) []CalendarCell {
	blanks := LeadingBlanks(year, month)
	days := DaysInMonth(year, month)
	cells := make([]CalendarCell, 0, blanks+days)
	for i := 0; i < blanks; i++ {
		cells = append(cells, CalendarCell{})
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, CalendarCell{Day: d})
	}
	return cells
}

// DatePicker is the calendar used to choose a deadline. The displayed month
// moves independently of the committed selection.
type DatePicker struct {
	Month  time.Month
	Year   int
	Locale string

	selected    time.Time
	hasSelected bool
}

// NewDatePicker opens a picker on now's month with now selected.
func NewDatePicker(now time.Time, locale string) *DatePicker {
	p := &DatePicker{Locale: resolveLocale(locale)}
	p.Reset(now)
	return p
}

// Reset shows now's month and selects now, as when the picker is reopened.
func (p *DatePicker) Reset(now time.Time) {
	p.Month = now.Month()
	p.Year = now.Year()
	p.selected = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	p.hasSelected = true
}

// NextMonth advances the displayed month, carrying into the next year after
// December.
func (p *DatePicker) NextMonth() {
	if p.Month == time.December {
		p.Month = time.January
		p.Year++
		return
	}
	p.Month++
}

// PrevMonth steps the displayed month back, borrowing from the previous year
// before January.
func (p *DatePicker) PrevMonth() {
	if p.Month == time.January {
		p.Month = time.December
		p.Year--
		return
	}
	p.Month--
}

// NextYear advances the displayed year.
func (p *DatePicker) NextYear() { p.Year++ }

// PrevYear steps the displayed year back.
func (p *DatePicker) PrevYear() { p.Year-- }

// Title returns the localized "<month name> <year>" heading.
func (p *DatePicker) Title() string {
	return fmt.Sprintf("%s %d", MonthName(p.Locale, p.Month), p.Year)
}

// Grid returns the cells of the displayed month.
func (p *DatePicker) Grid() []CalendarCell {
	return MonthGrid(p.Year, p.Month)
}

// Select commits day of the displayed month and returns the formatted
// deadline. Padding cells and out-of-range days are ignored.
func (p *DatePicker) Select(day int) (string, bool) {
	if day < 1 || day > DaysInMonth(p.Year, p.Month) {
		return "", false
	}
	p.selected = time.Date(p.Year, p.Month, day, 0, 0, 0, 0, time.UTC)
	p.hasSelected = true
	return FormatDeadline(p.selected, p.Locale), true
}

// Selected returns the committed date, if any.
func (p *DatePicker) Selected() (time.Time, bool) {
	return p.selected, p.hasSelected
}

// IsSelected reports whether day of the displayed month is the committed
// selection.
func (p *DatePicker) IsSelected(day int) bool {
	return p.hasSelected &&
		p.selected.Day() == day &&
		p.selected.Month() == p.Month &&
		p.selected.Year() == p.Year
}

// IsToday reports whether day of the displayed month is now's date.
func (p *DatePicker) IsToday(day int, now time.Time) bool {
	return now.Day() == day && now.Month() == p.Month && now.Year() == p.Year
}
