package corpus

import "errors"

var (
	// ErrCorpusUnavailable is returned when the data file does not exist.
	ErrCorpusUnavailable = errors.New("corpus unavailable")

	// ErrCorpusFormat is returned when the data file is not a JSON array of records.
	ErrCorpusFormat = errors.New("corpus format error")

	errNotObject = errors.New("record is not a JSON object")
)
