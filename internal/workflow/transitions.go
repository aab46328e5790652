package workflow

// Transition is one legal move on the board. Conditions are preconditions the
// surrounding system must have verified before requesting the move; the
// engine itself does not check them.
type Transition struct {
	From           Stage    `json:"from"`
	To             Stage    `json:"to"`
	AutoAdvance    bool     `json:"auto_advance"`
	RequiresReason bool     `json:"requires_reason"`
	Conditions     []string `json:"conditions,omitempty"`
}

// Transitions is the complete transition table. The forward flow is linear;
// the backward moves exist for corrections and each requires a reason.
// Any pair not listed here is illegal.
var Transitions = []Transition{
	{From: StagePending, To: StageWorking, Conditions: []string{"assigned_to_seamstress"}},
	{From: StageWorking, To: StageDone},
	{From: StageDone, To: StageReady, AutoAdvance: true, Conditions: []string{"all_sibling_tasks_done"}},
	{From: StageReady, To: StageDelivered, Conditions: []string{"client_notified"}},
	{From: StageWorking, To: StagePending, RequiresReason: true},
	{From: StageDone, To: StageWorking, RequiresReason: true},
	{From: StageReady, To: StageDone, RequiresReason: true},
	{From: StageDelivered, To: StageReady, RequiresReason: true},
}

var transitionIndex = buildTransitionIndex()

func buildTransitionIndex() map[Stage]map[Stage]Transition {
	idx := make(map[Stage]map[Stage]Transition, len(Stages))
	for _, t := range Transitions {
		if idx[t.From] == nil {
			idx[t.From] = make(map[Stage]Transition)
		}
		idx[t.From][t.To] = t
	}
	return idx
}

// IsTransitionAllowed reports whether from -> to is in the transition table.
// Unknown pairs, including unknown stages, return false.
func IsTransitionAllowed(from, to Stage) bool {
	_, ok := transitionIndex[from][to]
	return ok
}

// TransitionFor returns the full rule for from -> to, if one exists.
func TransitionFor(from, to Stage) (Transition, bool) {
	t, ok := transitionIndex[from][to]
	return t, ok
}

// NextStages returns the stages a task may legally move to from the given
// stage, in table order.
func NextStages(from Stage) []Stage {
	var next []Stage
	for _, t := range Transitions {
		if t.From == from {
			next = append(next, t.To)
		}
	}
	return next
}
