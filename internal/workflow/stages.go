package workflow

// Stage is the position of a single garment task on the board.
type Stage string

const (
	StagePending   Stage = "pending"
	StageWorking   Stage = "working"
	StageDone      Stage = "done"
	StageReady     Stage = "ready"
	StageDelivered Stage = "delivered"
)

// Stages lists every stage in board order.
var Stages = []Stage{StagePending, StageWorking, StageDone, StageReady, StageDelivered}

// IsValid reports whether s is one of the five known stages.
func (s Stage) IsValid() bool {
	switch s {
	case StagePending, StageWorking, StageDone, StageReady, StageDelivered:
		return true
	}
	return false
}

func (s Stage) String() string {
	return string(s)
}

// Status is the aggregate position of an order. It is always derived from
// the order's task stages, never set directly.
type Status string

const (
	StatusPending   Status = "pending"
	StatusWorking   Status = "working"
	StatusDone      Status = "done"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
)

func (s Status) String() string {
	return string(s)
}
