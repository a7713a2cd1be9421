package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DateLayout is the day-granularity format the backend stores.
const DateLayout = time.DateOnly

// ID tolerates ids sent as JSON numbers or numeric strings.
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if s == "" {
		*id = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "id %s", s)
	}
	*id = ID(v)
	return nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Serial is the instrument serial number. The backend sends it as a string or
// a number depending on the endpoint; every comparison is done on this
// canonical string form.
type Serial string

func (s *Serial) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Serial(strings.TrimSpace(str))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrap(err, "serial")
	}
	*s = Serial(n.String())
	return nil
}

func (s Serial) String() string { return string(s) }

// ReadState is the read flag of a message link, which the backend reports as
// a bool, 0/1 or "0"/"1".
type ReadState bool

const (
	Unread ReadState = false
	Read   ReadState = true
)

func (r *ReadState) UnmarshalJSON(b []byte) error {
	v, err := parseLooseBool(b)
	if err != nil {
		return errors.Wrap(err, "read state")
	}
	*r = ReadState(v)
	return nil
}

// Flag is a loosely typed boolean such as the archived marker.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	v, err := parseLooseBool(b)
	if err != nil {
		return errors.Wrap(err, "flag")
	}
	*f = Flag(v)
	return nil
}

// NormalizeReadState maps any decoded JSON value to a read state.
func NormalizeReadState(v any) ReadState {
	switch t := v.(type) {
	case bool:
		return ReadState(t)
	case float64:
		return t == 1
	case int:
		return t == 1
	case int64:
		return t == 1
	case json.Number:
		return t.String() == "1"
	case string:
		return ReadState(t == "1" || strings.EqualFold(t, "true"))
	case ReadState:
		return t
	default:
		return Unread
	}
}

func parseLooseBool(b []byte) (bool, error) {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "", "null", "false", "0", `"0"`, `""`, `"false"`:
		return false, nil
	case "true", "1", `"1"`, `"true"`:
		return true, nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return false, err
	}
	return bool(NormalizeReadState(v)), nil
}

// Day returns the YYYY-MM-DD prefix of an ISO date or datetime.
func Day(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

// Today formats t as a backend date.
func Today(t time.Time) string {
	return t.Format(DateLayout)
}

// ContainsFold reports whether any of fields contains q, ignoring case.
// An empty query matches everything.
func ContainsFold(q string, fields ...string) bool {
	q = strings.TrimSpace(strings.ToLower(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
