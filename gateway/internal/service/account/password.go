package account

import (
	"strings"
	"unicode"
)

const (
	MinPasswordLength = 8
	specialChars      = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`
)

// Checklist is the per-rule outcome of a password strength check. The form
// shows each rule as it is met.
type Checklist struct {
	Length  bool `json:"length"`
	Lower   bool `json:"lower"`
	Upper   bool `json:"upper"`
	Digit   bool `json:"digit"`
	Special bool `json:"special"`
}

func (c Checklist) Valid() bool {
	return c.Length && c.Lower && c.Upper && c.Digit && c.Special
}

// Failed returns the translation keys of the rules not met.
func (c Checklist) Failed() []string {
	var out []string
	for _, r := range []struct {
		ok  bool
		key string
	}{
		{c.Length, "password.rules.length"},
		{c.Lower, "password.rules.lower"},
		{c.Upper, "password.rules.upper"},
		{c.Digit, "password.rules.digit"},
		{c.Special, "password.rules.special"},
	} {
		if !r.ok {
			out = append(out, r.key)
		}
	}
	return out
}

func CheckPassword(pw string) Checklist {
	c := Checklist{Length: len([]rune(pw)) >= MinPasswordLength}
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			c.Lower = true
		case unicode.IsUpper(r):
			c.Upper = true
		case unicode.IsDigit(r):
			c.Digit = true
		case strings.ContainsRune(specialChars, r):
			c.Special = true
		}
	}
	return c
}
