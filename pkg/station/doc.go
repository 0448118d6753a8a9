// Package station defines the identity, specification, and status-machine
// types for a single addressable operation in a destination's DAG: StationID,
// StationRtID, StationSpec, StationOp, OpFns, ProgressLimit, CheckStatus,
// OpStatus, and StationProgress. It is grounded on the teacher's
// pkg/engine/types.go and pkg/engine/status.go (string-backed enums with
// IsTerminal/Validate methods), generalized from openfroyo's fixed resource
// lifecycle (RunStatus/OperationType/ResourceStatus/PlanStatus) to the
// station model's setup/op status machine.
package station
