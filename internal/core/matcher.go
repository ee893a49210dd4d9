package core

import (
	"fmt"
)

// Matcher defines the interface for predicate argument markers.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// SignatureKeyer lets a matcher supply its own canonical key instead of being encoded structurally.
type SignatureKeyer interface {
	SignatureKey() string
}

// IsMatcher reports whether value is a predicate marker.
func IsMatcher(value any) bool {
	_, ok := value.(Matcher)

	return ok
}

// MatchValue checks if actual satisfies expected.
// If expected implements the Matcher interface, uses its Match method.
// Otherwise both values must have the same canonical encoding.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func MatchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	if sameValue(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

// matchSignature checks the live args against a stored signature, position by position.
// A live position with no stored slot disqualifies. Stored slots past the live args are not examined.
func matchSignature(stored, live []any) bool {
	for index, arg := range live {
		if index >= len(stored) {
			return false
		}

		ok, _ := MatchValue(arg, stored[index])
		if !ok {
			return false
		}
	}

	return true
}

// sameValue reports whether two values are equal under the canonical encoding.
func sameValue(a, b any) bool {
	return encodeValue(a) == encodeValue(b)
}
