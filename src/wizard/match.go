package wizard

import (
	"strings"
	"unicode"

	"github.com/pullerize/my-main-tasks-sub000/pkg"
	"github.com/pullerize/my-main-tasks-sub000/src/logger"
)

// Match resolves free button text back to the option the user selected.
// The raw text and every label are compared with one leading decorative
// token (an emoji prefix and the like) stripped. Exact comparison runs
// first, then a case-insensitive pass. First match wins on ties; duplicate
// labels are a data-quality defect and get logged, not disambiguated.
func Match(raw string, options []pkg.Option) (*pkg.Option, error) {
	target := StripDecor(raw)
	if target == "" {
		return nil, pkg.ErrNoMatch
	}

	warnDuplicateLabels(options)

	for i := range options {
		if StripDecor(options[i].Label) == target {
			return &options[i], nil
		}
	}

	for i := range options {
		if strings.EqualFold(StripDecor(options[i].Label), target) {
			return &options[i], nil
		}
	}

	return nil, pkg.ErrNoMatch
}

// StripDecor trims whitespace and drops one leading token that carries no
// letters or digits, so "👤 John" and "John" compare equal.
func StripDecor(s string) string {
	fields := strings.Fields(s)
	if len(fields) > 1 && !hasWordRune(fields[0]) {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func warnDuplicateLabels(options []pkg.Option) {
	seen := make(map[string]string, len(options))
	for _, opt := range options {
		label := StripDecor(opt.Label)
		if prev, ok := seen[label]; ok && prev != opt.Key {
			logger.Warn().
				Str("label", label).
				Str("key", opt.Key).
				Str("conflicts_with", prev).
				Msg("duplicate option label, first match wins")
			continue
		}
		seen[label] = opt.Key
	}
}
