package constants

// RunStatus is the canonical status for rows in validation_run.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusRunning   RunStatus = "RUNNING"    // in progress
	RunStatusExtractOK RunStatus = "EXTRACT_OK" // stage 1 completed (fields extracted)
	RunStatusValidated RunStatus = "VALIDATED"  // stage 2 completed (rules evaluated)
	RunStatusFailed    RunStatus = "FAILED"     // terminal failure
)
