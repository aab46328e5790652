package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionClosure(t *testing.T) {
	legal := map[[2]Stage]bool{
		{StagePending, StageWorking}: true,
		{StageWorking, StageDone}:    true,
		{StageDone, StageReady}:      true,
		{StageReady, StageDelivered}: true,
		{StageWorking, StagePending}: true,
		{StageDone, StageWorking}:    true,
		{StageReady, StageDone}:      true,
		{StageDelivered, StageReady}: true,
	}

	// Every pair over the 5 stages, including self-loops, matches the table
	// exactly: IsTransitionAllowed fails closed for the other 17.
	for _, from := range Stages {
		for _, to := range Stages {
			assert.Equal(t, legal[[2]Stage{from, to}], IsTransitionAllowed(from, to),
				"%s -> %s", from, to)
		}
	}
}

func TestTransitionUnknownStages(t *testing.T) {
	assert.False(t, IsTransitionAllowed("hemming", StageWorking))
	assert.False(t, IsTransitionAllowed(StagePending, "shipped"))
	assert.False(t, IsTransitionAllowed("", ""))
}

func TestTransitionFlags(t *testing.T) {
	rule, ok := TransitionFor(StageDone, StageReady)
	require.True(t, ok)
	assert.True(t, rule.AutoAdvance)
	assert.False(t, rule.RequiresReason)

	// Every backward move requires a reason.
	for _, pair := range [][2]Stage{
		{StageWorking, StagePending},
		{StageDone, StageWorking},
		{StageReady, StageDone},
		{StageDelivered, StageReady},
	} {
		rule, ok := TransitionFor(pair[0], pair[1])
		require.True(t, ok, "%s -> %s", pair[0], pair[1])
		assert.True(t, rule.RequiresReason, "%s -> %s", pair[0], pair[1])
		assert.False(t, rule.AutoAdvance)
	}
}

func TestNextStages(t *testing.T) {
	assert.Equal(t, []Stage{StageWorking}, NextStages(StagePending))
	assert.Equal(t, []Stage{StageDone, StagePending}, NextStages(StageWorking))
	assert.Equal(t, []Stage{StageReady}, NextStages(StageDelivered))
	assert.Empty(t, NextStages("unknown"))
}

func TestStageIsValid(t *testing.T) {
	for _, s := range Stages {
		assert.True(t, s.IsValid())
	}
	assert.False(t, Stage("pressing").IsValid())
	assert.False(t, Stage("").IsValid())
}

func TestDeriveOrderStatus(t *testing.T) {
	tests := []struct {
		name   string
		stages []Stage
		want   Status
	}{
		{"no tasks yet", nil, StatusPending},
		{"all pending", []Stage{StagePending, StagePending}, StatusPending},
		{"any working wins over pending", []Stage{StagePending, StageWorking}, StatusWorking},
		{"all delivered", []Stage{StageDelivered, StageDelivered}, StatusDelivered},
		{"ready and delivered mix", []Stage{StageReady, StageDelivered}, StatusReady},
		{"done ready delivered mix", []Stage{StageDone, StageReady, StageDelivered}, StatusDone},
		{"done done ready", []Stage{StageDone, StageDone, StageReady}, StatusDone},
		{"single delivered", []Stage{StageDelivered}, StatusDelivered},
		{"pending and done, nobody working", []Stage{StagePending, StageDone}, StatusPending},
		{"working beats done mix", []Stage{StageWorking, StageDone, StageReady}, StatusWorking},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveOrderStatus(tt.stages))
		})
	}
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0, Progress(nil))
	assert.Equal(t, 0, Progress([]Stage{StagePending}))
	assert.Equal(t, 100, Progress([]Stage{StageDelivered, StageDelivered}))
	assert.Equal(t, 50, Progress([]Stage{StagePending, StageDelivered}))

	// (50+50+75)/3 = 58.33 rounds to 58.
	assert.Equal(t, 58, Progress([]Stage{StageDone, StageDone, StageReady}))

	// (0+25)/2 = 12.5 rounds to 13.
	assert.Equal(t, 13, Progress([]Stage{StagePending, StageWorking}))
}

func TestIsOrderOnTrackNoDueDate(t *testing.T) {
	assert.True(t, IsOrderOnTrack(OrderMeta{}, nil, time.Now()))
	assert.True(t, IsOrderOnTrack(OrderMeta{}, []Stage{StagePending}, time.Now()))
}

func TestIsOrderOnTrackRush(t *testing.T) {
	now := time.Now()
	due := now.Add(48 * time.Hour)
	meta := OrderMeta{OrderNumber: "HC-1", IsRush: true, DueDate: &due}

	assert.True(t, IsOrderOnTrack(meta, []Stage{StagePending, StageWorking}, now))
	assert.False(t, IsOrderOnTrack(meta, []Stage{StagePending, StageDone}, now))
}

func TestIsOrderOnTrackDeadlineMatrix(t *testing.T) {
	now := time.Now()

	dueIn := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}

	tests := []struct {
		name   string
		due    *time.Time
		stages []Stage
		want   bool
	}{
		{"far out, nothing started", dueIn(7 * 24 * time.Hour), []Stage{StagePending}, false},
		{"far out, any progress", dueIn(7 * 24 * time.Hour), []Stage{StageWorking}, true},
		{"two days out, needs 25", dueIn(2 * 24 * time.Hour), []Stage{StageWorking}, true},
		{"two days out, only pending", dueIn(2 * 24 * time.Hour), []Stage{StagePending, StagePending}, false},
		{"last day, needs 50", dueIn(12 * time.Hour), []Stage{StageDone}, true},
		{"last day, only working", dueIn(12 * time.Hour), []Stage{StageWorking}, false},
		{"overdue, half done is still on track", dueIn(-24 * time.Hour), []Stage{StageDone, StageDone}, true},
		{"overdue, nothing done", dueIn(-24 * time.Hour), []Stage{StageWorking}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := OrderMeta{OrderNumber: "HC-1", DueDate: tt.due}
			assert.Equal(t, tt.want, IsOrderOnTrack(meta, tt.stages, now))
		})
	}
}

func TestAlertsOverdue(t *testing.T) {
	now := time.Now()
	due := now.Add(-2 * time.Hour)
	meta := OrderMeta{OrderNumber: "HC-42", DueDate: &due}

	alerts := Alerts(meta, []Stage{StageWorking}, now)
	require.NotEmpty(t, alerts)
	assert.Equal(t, AlertError, alerts[0].Type)
	assert.Contains(t, alerts[0].Message, "HC-42")
	assert.Contains(t, alerts[0].Message, "overdue")
}

func TestAlertsDueSoon(t *testing.T) {
	now := time.Now()
	due := now.Add(10 * time.Hour)
	meta := OrderMeta{OrderNumber: "HC-42", DueDate: &due}

	alerts := Alerts(meta, []Stage{StageWorking}, now)
	require.NotEmpty(t, alerts)
	assert.Equal(t, AlertWarning, alerts[0].Type)
	assert.Contains(t, alerts[0].Message, "10 hour(s)")
}

func TestAlertsRushIdle(t *testing.T) {
	meta := OrderMeta{OrderNumber: "HC-7", IsRush: true}

	alerts := Alerts(meta, []Stage{StagePending, StageDone}, time.Now())
	require.Len(t, alerts, 3)
	assert.Equal(t, AlertWarning, alerts[0].Type)
	assert.Contains(t, alerts[0].Message, "no task in progress")
	assert.Equal(t, AlertInfo, alerts[1].Type)
	assert.Contains(t, alerts[1].Message, "1 task(s) not started")
	assert.Equal(t, AlertInfo, alerts[2].Type)
	assert.Contains(t, alerts[2].Message, "1 task(s) awaiting approval")
}

func TestAlertsQuietOrder(t *testing.T) {
	// No due date, not rush, everything ready: nothing to say.
	alerts := Alerts(OrderMeta{OrderNumber: "HC-9"}, []Stage{StageReady, StageReady}, time.Now())
	assert.Empty(t, alerts)
}

func TestAlertsEmissionOrder(t *testing.T) {
	now := time.Now()
	due := now.Add(-time.Hour)
	meta := OrderMeta{OrderNumber: "HC-1", IsRush: true, DueDate: &due}

	alerts := Alerts(meta, []Stage{StagePending, StageDone}, now)
	require.Len(t, alerts, 4)
	assert.Equal(t, AlertError, alerts[0].Type)   // overdue
	assert.Equal(t, AlertWarning, alerts[1].Type) // rush idle
	assert.Equal(t, AlertInfo, alerts[2].Type)    // pending count
	assert.Equal(t, AlertInfo, alerts[3].Type)    // done count
}
