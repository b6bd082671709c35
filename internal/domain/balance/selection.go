package balance

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type boundState uint8

const (
	stateAbsent boundState = iota
	stateUnresolved
	stateSet
)

// Bound is one edge of a range as the user supplied it. A bound is either absent
// (the key was never sent), unresolved (sent, but empty or invalid, so a default is
// inferred from the ledger) or set to a concrete value.
type Bound[T any] struct {
	state boundState
	value T
}

// Absent returns a bound whose key was not supplied at all.
func Absent[T any]() Bound[T] { return Bound[T]{} }

// Unresolved returns a supplied bound with no usable value.
func Unresolved[T any]() Bound[T] { return Bound[T]{state: stateUnresolved} }

// Value returns a bound set to v.
func Value[T any](v T) Bound[T] { return Bound[T]{state: stateSet, value: v} }

// IsAbsent reports whether the bound key was missing.
func (b Bound[T]) IsAbsent() bool { return b.state == stateAbsent }

// Get returns the value and whether one was set.
func (b Bound[T]) Get() (T, bool) { return b.value, b.state == stateSet }

// String renders the bound for logs and cache keys: "-" when absent, "?" when
// unresolved, otherwise the value.
func (b Bound[T]) String() string {
	switch b.state {
	case stateAbsent:
		return "-"
	case stateUnresolved:
		return "?"
	}
	if t, ok := any(b.value).(time.Time); ok {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprint(b.value)
}

// Format selects how a report is rendered. The zero value means no report was requested.
type Format string

const (
	FormatNone Format = ""
	FormatCSV  Format = "CSV"
	FormatHTML Format = "HTML"
)

// ParseFormat maps user input onto a Format, case-insensitively.
func ParseFormat(raw string) (Format, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "":
		return FormatNone, true
	case string(FormatCSV):
		return FormatCSV, true
	case string(FormatHTML):
		return FormatHTML, true
	}
	return FormatNone, false
}

// Selection is the user's filter: an account range, a period range and an output format.
type Selection struct {
	StartAccount Bound[int]
	EndAccount   Bound[int]
	StartPeriod  Bound[time.Time]
	EndPeriod    Bound[time.Time]
	Format       Format
}

// Complete reports whether all four bound keys were supplied.
func (s Selection) Complete() bool {
	return !s.StartAccount.IsAbsent() && !s.EndAccount.IsAbsent() &&
		!s.StartPeriod.IsAbsent() && !s.EndPeriod.IsAbsent()
}

// Key is a canonical representation of the selection.
func (s Selection) Key() string {
	return strings.Join([]string{
		s.StartAccount.String(),
		s.EndAccount.String(),
		s.StartPeriod.String(),
		s.EndPeriod.String(),
		string(s.Format),
	}, "|")
}

// ParseAccountBound parses a supplied account bound. Integers are taken as-is, finite
// decimals keep their integer part and anything else is unresolved.
func ParseAccountBound(raw string) Bound[int] {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return Value(n)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Unresolved[int]()
	}
	if math.Abs(f) >= 1<<53 {
		return Unresolved[int]()
	}
	return Value(int(f))
}

var periodLayouts = []string{time.DateOnly, time.RFC3339}

// ParsePeriodBound parses a supplied period bound in YYYY-MM-DD or RFC 3339 form.
// Date-only values are taken at midnight UTC.
func ParsePeriodBound(raw string) Bound[time.Time] {
	raw = strings.TrimSpace(raw)
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Value(t.UTC())
		}
	}
	return Unresolved[time.Time]()
}

// ParseSelection builds a selection from string inputs. A nil pointer marks an absent key.
func ParseSelection(startAccount, endAccount, startPeriod, endPeriod *string, format string) (Selection, bool) {
	f, ok := ParseFormat(format)
	if !ok {
		return Selection{}, false
	}
	sel := Selection{Format: f}
	if startAccount != nil {
		sel.StartAccount = ParseAccountBound(*startAccount)
	}
	if endAccount != nil {
		sel.EndAccount = ParseAccountBound(*endAccount)
	}
	if startPeriod != nil {
		sel.StartPeriod = ParsePeriodBound(*startPeriod)
	}
	if endPeriod != nil {
		sel.EndPeriod = ParsePeriodBound(*endPeriod)
	}
	return sel, true
}

// UnmarshalJSON reads a selection object. A missing key leaves its bound absent; null,
// empty strings and values that fail to parse make it unresolved.
func (s *Selection) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*s = Selection{}
	if raw, ok := fields["startAccount"]; ok {
		s.StartAccount = ParseAccountBound(rawScalar(raw))
	}
	if raw, ok := fields["endAccount"]; ok {
		s.EndAccount = ParseAccountBound(rawScalar(raw))
	}
	if raw, ok := fields["startPeriod"]; ok {
		s.StartPeriod = ParsePeriodBound(rawScalar(raw))
	}
	if raw, ok := fields["endPeriod"]; ok {
		s.EndPeriod = ParsePeriodBound(rawScalar(raw))
	}
	if raw, ok := fields["format"]; ok {
		f, valid := ParseFormat(rawScalar(raw))
		if !valid {
			return fmt.Errorf("unsupported format %s", raw)
		}
		s.Format = f
	}
	return nil
}

// MarshalJSON writes the selection back in the shape UnmarshalJSON reads: absent bounds
// are omitted and unresolved ones are null.
func (s Selection) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 5)
	putBound(out, "startAccount", s.StartAccount, func(v int) any { return v })
	putBound(out, "endAccount", s.EndAccount, func(v int) any { return v })
	putBound(out, "startPeriod", s.StartPeriod, formatPeriod)
	putBound(out, "endPeriod", s.EndPeriod, formatPeriod)
	if s.Format != FormatNone {
		out["format"] = s.Format
	}
	return json.Marshal(out)
}

// formatPeriod writes midnight UTC as a plain date and any other instant as RFC 3339.
func formatPeriod(v time.Time) any {
	v = v.UTC()
	if v.Equal(v.Truncate(24 * time.Hour)) {
		return v.Format(time.DateOnly)
	}
	return v.Format(time.RFC3339Nano)
}

func putBound[T any](out map[string]any, key string, b Bound[T], conv func(T) any) {
	if b.IsAbsent() {
		return
	}
	if v, ok := b.Get(); ok {
		out[key] = conv(v)
		return
	}
	out[key] = nil
}

// rawScalar returns a JSON string's contents or a number's literal text.
func rawScalar(raw json.RawMessage) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String()
	}
	return ""
}
