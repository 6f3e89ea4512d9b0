package model

// SupervisorState represents the lifecycle stage of an export run.
// Transitions are one-way: NotStarted → Launching → Monitoring →
// Finalizing → Succeeded or Failed. Succeeded and Failed are terminal.
type SupervisorState string

const (
	StateNotStarted SupervisorState = "not_started"
	StateLaunching  SupervisorState = "launching"
	StateMonitoring SupervisorState = "monitoring"
	StateFinalizing SupervisorState = "finalizing"
	StateSucceeded  SupervisorState = "succeeded"
	StateFailed     SupervisorState = "failed"
)

// Terminal reports whether the state is final.
func (s SupervisorState) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}
