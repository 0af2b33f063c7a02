// errors.go defines sentinel errors for registry failures.
//
// Separated so callers (the launcher, the sandbox host API, builtin
// extensions) can match failures with errors.Is without importing the
// registry internals. Detailed messages wrap these with fmt.Errorf.

package phrase

import "errors"

var (
	ErrPhraseTypeInvalid       = errors.New("phrase must be a string or *regexp.Regexp")
	ErrPhraseEmpty             = errors.New("phrase is empty")
	ErrPhraseNotNormalized     = errors.New("phrase is not in standard form")
	ErrPhraseMultiWord         = errors.New("phrase has more than one word")
	ErrPhraseAlreadyRegistered = errors.New("phrase already registered")
	ErrNotOwner                = errors.New("handle does not own the phrase")
	ErrSurfaceOwned            = errors.New("card is owned by a phrase")
)
