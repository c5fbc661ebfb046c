package domain

import (
	"bytes"
	"strconv"
	"strings"
)

// Amount is a numeric field that the backend sometimes delivers as a JSON
// string after round-tripping through its ORM. It parses either form and
// falls back to 0 on anything unparsable, so downstream arithmetic never
// produces NaN. Normalization happens here, at the ingestion boundary,
// instead of at every usage site.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(data, `"`)))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(v)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(a), 'f', -1, 64)), nil
}

// Float returns the plain float64 value.
func (a Amount) Float() float64 {
	return float64(a)
}
