package order

// StepList is the linear fulfilment progression rendered by the admin
// order stepper. Cancelled and refunded sit outside the list.
var StepList = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered}

type StepState string

const (
	StepCompleted StepState = "completed"
	StepActive    StepState = "active"
	StepFuture    StepState = "future"
)

type Step struct {
	Status Status    `json:"status"`
	State  StepState `json:"state"`
}

// Steps renders the stepper for the current status: steps before the
// current index completed, the current one active, later ones future. For
// statuses outside the step list (cancelled, refunded) no step is active.
func Steps(current Status) []Step {
	idx := -1
	for i, s := range StepList {
		if s == current {
			idx = i
			break
		}
	}

	steps := make([]Step, len(StepList))
	for i, s := range StepList {
		state := StepFuture
		switch {
		case idx >= 0 && i < idx:
			state = StepCompleted
		case i == idx:
			state = StepActive
		}
		steps[i] = Step{Status: s, State: state}
	}
	return steps
}

// transitions is the allowed edge set: the linear progression plus the
// cancellation escape from the two pre-shipment states.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// CanTransition reports whether from -> to is a legal status change.
// Skipping states or reviving a terminal order is rejected.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextActions lists the admin actions enabled for the current status.
func NextActions(current Status) []Status {
	return transitions[current]
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}
