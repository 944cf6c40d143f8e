package validator

import "regexp"

// Prefix patterns: a value failing these can never become valid by appending input.
var partialRules = map[string]*regexp.Regexp{
	"firstName":      regexp.MustCompile(`^[A-Za-z\s]*$`),
	"middleName":     regexp.MustCompile(`^[A-Za-z\s]*$`),
	"lastName":       regexp.MustCompile(`^[A-Za-z\s]*$`),
	"address.street": regexp.MustCompile(`^[A-Za-z0-9\s.,#'\-/]*$`),
	"address.city":   regexp.MustCompile(`^[A-Za-z\s.'\-]*$`),
	"address.state":  regexp.MustCompile(`^[A-Za-z\s.'\-]*$`),
	"address.zip":    regexp.MustCompile(`^\d{0,5}$`),
}

// AllowsPartial reports whether value is an acceptable in-progress entry for field.
// Fields without a partial rule accept anything.
func AllowsPartial(field, value string) bool {
	re, ok := partialRules[field]
	if !ok {
		return true
	}
	return re.MatchString(value)
}
