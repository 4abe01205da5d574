package dataset

import "fmt"

// MalformedLocationError is returned when a location has no scheme
// separator or nothing usable after it.
type MalformedLocationError struct {
	Location string
}

func (e *MalformedLocationError) Error() string {
	return fmt.Sprintf("malformed location %q: expected <scheme>://<bucket>/<path>", e.Location)
}
