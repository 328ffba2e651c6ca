package domain

import "fmt"

// Result is the outcome of a mutating repository operation
type Result int

const (
	ResultCreated Result = iota + 1
	ResultUpdated
	ResultDeleted
	ResultNotFound
	ResultBadRequest
	ResultConflict
)

var resultNames = map[Result]string{
	ResultCreated:    "Created",
	ResultUpdated:    "Updated",
	ResultDeleted:    "Deleted",
	ResultNotFound:   "NotFound",
	ResultBadRequest: "BadRequest",
	ResultConflict:   "Conflict",
}

// String returns the result name
func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// Succeeded reports whether the operation changed the store
func (r Result) Succeeded() bool {
	return r == ResultCreated || r == ResultUpdated || r == ResultDeleted
}

// MarshalText implements encoding.TextMarshaler
func (r Result) MarshalText() ([]byte, error) {
	if _, ok := resultNames[r]; !ok {
		return nil, fmt.Errorf("unknown result %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Result) UnmarshalText(text []byte) error {
	for res, name := range resultNames {
		if name == string(text) {
			*r = res
			return nil
		}
	}
	return fmt.Errorf("unknown result %q", text)
}
