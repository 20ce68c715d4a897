package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCorpus indicates fitting was attempted on no usable text.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrNotFitted indicates the encoder was used before Fit.
	ErrNotFitted = errors.New("encoder not fitted")

	// ErrNotTrained indicates an untrained index was handed to persistence.
	ErrNotTrained = errors.New("index not trained")

	// ErrLoad indicates a persisted index exists but could not be decoded.
	ErrLoad = errors.New("index load failed")

	// ErrInvalidArgument indicates malformed call parameters.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates a requested question is not in the corpus.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateQuestion indicates a question was added twice under the reject policy.
	ErrDuplicateQuestion = errors.New("duplicate question")

	// ErrNoSources indicates ingestion produced no records at all.
	ErrNoSources = errors.New("no records ingested")
)

// LoadError wraps the cause of a failed index load.
// errors.Is(err, ErrLoad) is true for any *LoadError.
type LoadError struct {
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading index from %s: %v", e.Location, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is makes every LoadError match ErrLoad.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }
