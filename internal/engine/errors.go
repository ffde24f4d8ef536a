package engine

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrInvalidParameter indicates a caller-supplied scalar outside its
	// valid domain. The engine returns it instead of NaN or Inf.
	ErrInvalidParameter = constError("invalid parameter")

	// ErrNoRecords indicates an aggregate was requested over an empty set.
	ErrNoRecords = constError("no records to summarize")
)
