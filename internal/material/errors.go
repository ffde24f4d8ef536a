package material

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for dataset and record validation. Every malformed record
// is reported as ErrDataIntegrity; the narrower sentinels are wrapped
// alongside it where a caller may want to branch on the cause.
var (
	// ErrDataIntegrity indicates a malformed record or dataset.
	ErrDataIntegrity = constError("data integrity error")

	// ErrUnknownCategory indicates an impact category that is not supported
	// or not present on a record.
	ErrUnknownCategory = constError("unknown impact category")

	// ErrDuplicateName indicates two records share a name.
	ErrDuplicateName = constError("duplicate material name")

	// ErrUnsupportedSchema indicates a dataset schema_version this build
	// cannot read.
	ErrUnsupportedSchema = constError("unsupported dataset schema version")
)
