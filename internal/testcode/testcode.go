// Package testcode generates the shareable codes that bind students to an
// uploaded question group.
package testcode

import (
	"fmt"
	"math/rand"
	"regexp"
)

const (
	suffixMin   = 10000000
	suffixRange = 90000000
)

var codePattern = regexp.MustCompile(`^.+-\d{8}$`)

// Generate returns "<quizname>-<8-digit-number>" with the suffix drawn
// uniformly from [10000000, 99999999]. Codes are probabilistically unique;
// no collision check is performed.
func Generate(quizname string) string {
	return fmt.Sprintf("%s-%d", quizname, suffixMin+rand.Intn(suffixRange))
}

// WellFormed reports whether a string looks like a generated test code.
func WellFormed(code string) bool {
	return codePattern.MatchString(code)
}
