package entities

// DrawState is the lifecycle of a single animated draw
type DrawState int

const (
	DrawIdle DrawState = iota
	DrawRunning
	DrawCompleted
	DrawCancelled
)

func (s DrawState) String() string {
	switch s {
	case DrawRunning:
		return "running"
	case DrawCompleted:
		return "completed"
	case DrawCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

func (s DrawState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SimulationState is the lifecycle of a Monte-Carlo run
type SimulationState int

const (
	SimulationIdle SimulationState = iota
	SimulationRunning
	SimulationStoppedByCondition
	SimulationStoppedByBudget
	SimulationCancelled
	SimulationFailed
)

func (s SimulationState) String() string {
	switch s {
	case SimulationRunning:
		return "running"
	case SimulationStoppedByCondition:
		return "stopped_by_condition"
	case SimulationStoppedByBudget:
		return "stopped_by_budget"
	case SimulationCancelled:
		return "cancelled"
	case SimulationFailed:
		return "failed"
	default:
		return "idle"
	}
}

func (s SimulationState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsTerminal reports whether the run has ended
func (s SimulationState) IsTerminal() bool {
	switch s {
	case SimulationStoppedByCondition, SimulationStoppedByBudget, SimulationCancelled, SimulationFailed:
		return true
	}
	return false
}
