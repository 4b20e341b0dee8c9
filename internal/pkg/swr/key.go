package swr

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Key is an ordered tuple of primitive values identifying one cached query.
// A nil Key means "do not fetch".
type Key []any

// String encodes the key as a JSON array, so structurally equal keys share one id.
func (k Key) String() string {
	if k == nil {
		return ""
	}
	b, err := json.Marshal([]any(k))
	if err != nil {
		return fmt.Sprint([]any(k)...)
	}
	return string(b)
}

// kind labels metrics with the first key segment.
func (k Key) kind() string {
	if len(k) == 0 {
		return "none"
	}
	if s, ok := k[0].(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(k[0])
}
