// internal/models/values.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Text is a display scalar. The backend sends these as strings, numbers,
// booleans or null; Text keeps the printed form and whether the value is truthy.
type Text struct {
	value  string
	truthy bool
}

// TextOf wraps a string value.
func TextOf(s string) Text {
	return Text{value: s, truthy: s != ""}
}

// NumberText wraps a numeric value.
func NumberText(f float64) Text {
	return Text{value: FormatNumber(f), truthy: f != 0}
}

// String returns the printed form. Null prints as the empty string.
func (t Text) String() string { return t.value }

// Truthy reports whether the value is a non-empty string, a non-zero number or true.
func (t Text) Truthy() bool { return t.truthy }

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}
	switch data[0] {
	case 'n':
		*t = Text{}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TextOf(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*t = Text{value: strconv.FormatBool(b), truthy: b}
		return nil
	case '{', '[':
		return fmt.Errorf("expected a scalar, got %s", kindOf(data[0]))
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*t = NumberText(f)
		return nil
	}
}

func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.value)
}

// TextList is an ordered list of display values. Null decodes as empty.
type TextList []Text

// TextsOf builds a TextList from strings.
func TextsOf(items ...string) TextList {
	out := make(TextList, len(items))
	for i, s := range items {
		out[i] = TextOf(s)
	}
	return out
}

// Strings returns the printed form of every item, order preserved.
func (l TextList) Strings() []string {
	out := make([]string, len(l))
	for i, t := range l {
		out[i] = t.String()
	}
	return out
}

// Rating is a star score out of five.
type Rating float64

// RatingOf returns a pointer to a Rating.
func RatingOf(v float64) *Rating {
	r := Rating(v)
	return &r
}

// Value returns the score, or 0 when r is nil.
func (r *Rating) Value() float64 {
	if r == nil {
		return 0
	}
	return float64(*r)
}

// FormatNumber prints f the way a browser prints a number: 80, 4.5, -1.
// Negative zero prints as 0, and magnitudes of at least 1e21 or below 1e-6
// use exponent form such as 1e+21 or 1.5e-7.
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs < 1e21 && abs >= 1e-6 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

func kindOf(b byte) string {
	if b == '{' {
		return "object"
	}
	return "array"
}
