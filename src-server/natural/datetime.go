package natural

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// The parser found no temporal candidate, or the resolved start is not a
// valid point in time.
var ErrNoDateFound = errors.New("could not determine date from input")

type TimeRange struct {
	Start  time.Time
	End    time.Time
	AllDay bool
}

// DateTimeExtractor resolves the first date/time mention in free-form text.
// Resolution depends on the parser defaults and the configured location;
// there is no per-call timezone parameter.
type DateTimeExtractor struct {
	parser *when.Parser
	loc    *time.Location
}

func NewDateTimeExtractor(parser *when.Parser, loc *time.Location) *DateTimeExtractor {
	if parser == nil {
		parser = when.New(nil)
		parser.Add(en.All...)
		parser.Add(common.All...)
	}
	if loc == nil {
		loc = time.Local
	}
	return &DateTimeExtractor{parser: parser, loc: loc}
}

// Only the first (left-most) candidate is used; any additional date
// mentions in the same text are ignored, except a range connective
// directly after the match ("2pm to 4pm"), which sets the end.
func (x *DateTimeExtractor) Extract(text string, now time.Time) (TimeRange, error) {
	base := now.In(x.loc)
	result, err := x.parser.Parse(text, base)
	if err != nil || result == nil {
		return TimeRange{}, ErrNoDateFound
	}
	start := result.Time
	if start.IsZero() {
		return TimeRange{}, ErrNoDateFound
	}

	out := TimeRange{
		Start:  start,
		AllDay: x.hourUncertain(text, base, result),
	}

	if end, ok := x.explicitEnd(text, result, start); ok {
		out.End = end
	} else {
		out.End = start.Add(time.Hour)
	}
	return out, nil
}

// Matched text that carries an hour-level signal on its own, for inputs
// whose resolved clock legitimately shifts with the base ("in 2 hours").
var hourSignal = regexp.MustCompile(
	`\d{1,2}:\d{2}|\b(am|pm|hours?|minutes?|noon|midnight|tonight|morning|afternoon|evening)\b|o'clock`)

// The parser inherits unresolved components from the base time. Re-parse
// against a second base with a shifted clock: if the resolved clock moves
// with the base and the matched text has no hour-level signal, only the
// calendar date was certain.
func (x *DateTimeExtractor) hourUncertain(text string, base time.Time, first *when.Result) bool {
	shifted := time.Date(
		base.Year(), base.Month(), base.Day(),
		(base.Hour()+7)%24, (base.Minute()+13)%60, 0, 0, x.loc)
	result, err := x.parser.Parse(text, shifted)
	if err != nil || result == nil {
		return false
	}
	h1, m1, _ := first.Time.Clock()
	h2, m2, _ := result.Time.Clock()
	if h1 == h2 && m1 == m2 {
		return false
	}
	return !hourSignal.MatchString(strings.ToLower(first.Text))
}

// An explicit end exists when the text right after the first match starts
// with a range connective followed by another resolvable instant that lands
// after the start.
func (x *DateTimeExtractor) explicitEnd(text string, first *when.Result, start time.Time) (time.Time, bool) {
	rest := strings.TrimSpace(text[first.Index+len(first.Text):])
	lower := strings.ToLower(rest)

	var tail string
	switch {
	case strings.HasPrefix(lower, "to "):
		tail = rest[3:]
	case strings.HasPrefix(lower, "until "):
		tail = rest[6:]
	case strings.HasPrefix(lower, "till "):
		tail = rest[5:]
	case strings.HasPrefix(lower, "through "):
		tail = rest[8:]
	case strings.HasPrefix(lower, "-"):
		tail = rest[1:]
	default:
		return time.Time{}, false
	}

	result, err := x.parser.Parse(tail, start)
	if err != nil || result == nil {
		return time.Time{}, false
	}
	// the instant must follow the connective directly, not sit somewhere
	// later in the sentence
	if strings.TrimSpace(tail[:result.Index]) != "" {
		return time.Time{}, false
	}
	if !result.Time.After(start) {
		return time.Time{}, false
	}
	return result.Time, true
}
