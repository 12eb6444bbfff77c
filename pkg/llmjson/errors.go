package llmjson

import "errors"

// ErrNoObject is returned when a reply contains no parseable JSON object.
var ErrNoObject = errors.New("no JSON object found in reply")
