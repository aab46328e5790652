package workflow

// stageWeight maps each stage to its contribution to order progress.
var stageWeight = map[Stage]int{
	StagePending:   0,
	StageWorking:   25,
	StageDone:      50,
	StageReady:     75,
	StageDelivered: 100,
}

// DeriveOrderStatus computes the aggregate status of an order from its task
// stages. The rules are evaluated top-down and the first match wins; an order
// with no tasks yet is pending.
func DeriveOrderStatus(stages []Stage) Status {
	if len(stages) == 0 {
		return StatusPending
	}

	allDelivered := true
	allReadyOrBeyond := true
	allDoneOrBeyond := true
	anyWorking := false

	for _, s := range stages {
		if s != StageDelivered {
			allDelivered = false
		}
		if s != StageReady && s != StageDelivered {
			allReadyOrBeyond = false
		}
		if s != StageDone && s != StageReady && s != StageDelivered {
			allDoneOrBeyond = false
		}
		if s == StageWorking {
			anyWorking = true
		}
	}

	switch {
	case allDelivered:
		return StatusDelivered
	case allReadyOrBeyond:
		return StatusReady
	case allDoneOrBeyond:
		return StatusDone
	case anyWorking:
		return StatusWorking
	default:
		return StatusPending
	}
}

// Progress returns the order's completion percentage: the rounded average of
// per-stage weights across all tasks, 0 when there are none.
func Progress(stages []Stage) int {
	if len(stages) == 0 {
		return 0
	}
	sum := 0
	for _, s := range stages {
		sum += stageWeight[s]
	}
	n := len(stages)
	return (sum + n/2) / n
}
