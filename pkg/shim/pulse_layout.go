package shim

import "github.com/OpenTraceLab/OpenTraceForge/pkg/regfile"

// Register and field names the shim binds to. A concrete instrument's
// layout must declare all of them; Shim construction fails otherwise.
const (
	RegCtrl      = "ctrl"
	RegThreshold = "threshold"
	RegMode      = "mode"
	RegDuration  = "duration"
	RegSettle    = "settle"
	RegState     = "state"
	RegProgress  = "progress"

	FieldCommit  = "commit"
	FieldArm     = "arm"
	FieldTrigger = "trigger"
	FieldAck     = "ack"
	FieldValue   = "value"
	FieldFSM     = "fsm"
	FieldAborted = "aborted"
	FieldFault   = "fault"
)

// PulseLayout is the canonical register map for the pulse instrument,
// version 1. The same map ships as a .regmap file; pkg/regmap tests pin
// the two declarations against each other. Any change here is a breaking
// interface change and must bump Version.
func PulseLayout() *regfile.Layout {
	return &regfile.Layout{
		Name:    "pulse",
		Version: 1,
		Registers: []regfile.Register{
			{Index: 0, Name: RegCtrl, Dir: regfile.Control, Fields: []regfile.Field{
				{Name: FieldCommit, Hi: 0, Lo: 0},
				{Name: FieldArm, Hi: 1, Lo: 1},
				{Name: FieldTrigger, Hi: 2, Lo: 2},
				{Name: FieldAck, Hi: 3, Lo: 3},
			}},
			{Index: 1, Name: RegThreshold, Dir: regfile.Control, Fields: []regfile.Field{
				{Name: FieldValue, Hi: 15, Lo: 0},
			}},
			{Index: 2, Name: RegMode, Dir: regfile.Control, Fields: []regfile.Field{
				{Name: FieldValue, Hi: 1, Lo: 0},
			}},
			{Index: 3, Name: RegDuration, Dir: regfile.Control, Fields: []regfile.Field{
				{Name: FieldValue, Hi: 15, Lo: 0},
			}},
			{Index: 4, Name: RegSettle, Dir: regfile.Control, Fields: []regfile.Field{
				{Name: FieldValue, Hi: 15, Lo: 0},
			}},
			{Index: 5, Name: RegState, Dir: regfile.Status, Fields: []regfile.Field{
				{Name: FieldFSM, Hi: 2, Lo: 0},
				{Name: FieldAborted, Hi: 3, Lo: 3},
				{Name: FieldFault, Hi: 4, Lo: 4},
			}},
			{Index: 6, Name: RegProgress, Dir: regfile.Status, Fields: []regfile.Field{
				{Name: FieldValue, Hi: 15, Lo: 0},
			}},
		},
	}
}
