package engine

import "fmt"

// CollectionError reports that the provider snapshot could not be obtained:
// invalid credentials, exhausted rate limits, or malformed responses.
// It is fatal to the run; no partial report is produced.
type CollectionError struct {
	Profile string
	Err     error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("collect IAM snapshot for profile %q: %v", e.Profile, e.Err)
}

func (e *CollectionError) Unwrap() error { return e.Err }

// InvalidSnapshotError reports that a collector handed the engine a
// structurally inconsistent Snapshot (broken referential closure).
// It is fatal and indicates a collector defect, not an account problem.
type InvalidSnapshotError struct {
	Err error
}

func (e *InvalidSnapshotError) Error() string {
	return fmt.Sprintf("invalid IAM snapshot: %v", e.Err)
}

func (e *InvalidSnapshotError) Unwrap() error { return e.Err }
