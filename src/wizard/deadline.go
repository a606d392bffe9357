package wizard

import (
	"strings"
	"time"

	"github.com/pullerize/my-main-tasks-sub000/pkg"
)

// Canned deadline option keys
const (
	DeadlineToday     = "deadline:today"
	DeadlineTomorrow  = "deadline:tomorrow"
	DeadlineThreeDays = "deadline:three_days"
	DeadlineWeek      = "deadline:week"
	DeadlineNone      = "deadline:none"
)

// DeadlineDisplayLayout is how resolved deadlines are shown back to the user
const DeadlineDisplayLayout = "02.01.2006 15:04"

// Literal layouts accepted from free text. Non-padded day and month tokens
// also accept their padded forms.
var deadlineLayoutsWithTime = []string{
	"2.1.2006 15:04",
	"2/1/2006 15:04",
}

var deadlineLayoutsDateOnly = []string{
	"2.1.2006",
	"2/1/2006",
}

// DeadlineResolver turns canned offsets and literal date text into absolute,
// future-only timestamps. Canned offsets are anchored at DefaultHour.
type DeadlineResolver struct {
	defaultHour int
}

// NewDeadlineResolver creates a resolver anchored at the given default hour
func NewDeadlineResolver(defaultHour int) *DeadlineResolver {
	if defaultHour <= 0 || defaultHour > 23 {
		defaultHour = 18
	}
	return &DeadlineResolver{defaultHour: defaultHour}
}

// CannedOptions lists the fixed deadline menu
func (d *DeadlineResolver) CannedOptions() []pkg.Option {
	return []pkg.Option{
		{Label: "📍 Today", Key: DeadlineToday},
		{Label: "📍 Tomorrow", Key: DeadlineTomorrow},
		{Label: "📍 In 3 days", Key: DeadlineThreeDays},
		{Label: "📍 In a week", Key: DeadlineWeek},
		{Label: "🚫 No deadline", Key: DeadlineNone},
	}
}

// ResolveKey resolves a canned option key relative to now. DeadlineNone
// yields a nil timestamp. "Today" past the default hour rolls to tomorrow so
// the result is always strictly in the future.
func (d *DeadlineResolver) ResolveKey(key string, now time.Time) (*time.Time, string) {
	var at time.Time
	switch key {
	case DeadlineToday:
		at = d.atHour(now, 0)
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
	case DeadlineTomorrow:
		at = d.atHour(now, 1)
	case DeadlineThreeDays:
		at = d.atHour(now, 3)
	case DeadlineWeek:
		at = d.atHour(now, 7)
	default:
		return nil, ""
	}
	return &at, at.Format(DeadlineDisplayLayout)
}

// ResolveText parses literal day.month.year[ hour:minute] text. A date with
// no time defaults to end-of-day. Results not strictly after now are
// rejected with ErrPastDeadline; unparsed text fails with
// ErrUnparseableDeadline.
func (d *DeadlineResolver) ResolveText(raw string, now time.Time) (*time.Time, string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, "", pkg.ErrUnparseableDeadline
	}

	loc := now.Location()
	var at time.Time
	parsed := false

	for _, layout := range deadlineLayoutsWithTime {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			at = t
			parsed = true
			break
		}
	}
	if !parsed {
		for _, layout := range deadlineLayoutsDateOnly {
			if t, err := time.ParseInLocation(layout, text, loc); err == nil {
				at = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, loc)
				parsed = true
				break
			}
		}
	}
	if !parsed {
		return nil, "", pkg.ErrUnparseableDeadline
	}

	if !at.After(now) {
		return nil, "", pkg.ErrPastDeadline
	}

	return &at, at.Format(DeadlineDisplayLayout), nil
}

func (d *DeadlineResolver) atHour(now time.Time, addDays int) time.Time {
	base := now.AddDate(0, 0, addDays)
	return time.Date(base.Year(), base.Month(), base.Day(), d.defaultHour, 0, 0, 0, now.Location())
}
