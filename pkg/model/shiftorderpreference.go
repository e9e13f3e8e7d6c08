package model

import "github.com/shiftsolver/core/pkg/shifterrors"

// OrderTriggerType names what fires a ShiftOrderPreference rule in the
// trigger period (§4.5.10).
type OrderTriggerType string

const (
	OrderTriggerShiftType     OrderTriggerType = "shift_type"
	OrderTriggerCategory      OrderTriggerType = "category"
	OrderTriggerUnavailability OrderTriggerType = "unavailability"
)

// OrderPreferredType names what the rule rewards in the preferred
// period, once the trigger has fired.
type OrderPreferredType string

const (
	OrderPreferredShiftType OrderPreferredType = "shift_type"
	OrderPreferredCategory  OrderPreferredType = "category"
)

// OrderDirection anchors the preferred period relative to the trigger
// period: "after" rewards period N+1 when the trigger fires at N;
// "before" rewards period N when the trigger fires at N+1.
type OrderDirection string

const (
	OrderAfter  OrderDirection = "after"
	OrderBefore OrderDirection = "before"
)

// ShiftOrderPreference encourages a specific shift-type/category
// transition (or a recovery shift around an unavailability) between two
// adjacent periods for one worker (§4.5.10).
type ShiftOrderPreference struct {
	RuleID         string
	TriggerType    OrderTriggerType
	TriggerValue   string // unused (empty) when TriggerType is OrderTriggerUnavailability
	Direction      OrderDirection
	PreferredType  OrderPreferredType
	PreferredValue string
	Priority       int
	WorkerIDs      map[string]struct{} // nil means "every worker"
}

// ShiftOrderPreferenceInput is the constructor-facing shape.
type ShiftOrderPreferenceInput struct {
	RuleID         string
	TriggerType    OrderTriggerType
	TriggerValue   string
	Direction      OrderDirection
	PreferredType  OrderPreferredType
	PreferredValue string
	Priority       int // 0 defaults to 1
	WorkerIDs      []string
}

// NewShiftOrderPreference validates and constructs a preference rule.
func NewShiftOrderPreference(in ShiftOrderPreferenceInput) (ShiftOrderPreference, error) {
	if in.RuleID == "" {
		return ShiftOrderPreference{}, shifterrors.New(shifterrors.CodeInvalidOrderPreference, "rule_id is required")
	}
	switch in.TriggerType {
	case OrderTriggerShiftType, OrderTriggerCategory:
		if in.TriggerValue == "" {
			return ShiftOrderPreference{}, shifterrors.Newf(shifterrors.CodeInvalidOrderPreference, "trigger_value is required for trigger_type %q", in.TriggerType).WithField("rule_id", in.RuleID)
		}
	case OrderTriggerUnavailability:
		// trigger_value is unused for this trigger type.
	default:
		return ShiftOrderPreference{}, shifterrors.Newf(shifterrors.CodeInvalidOrderPreference, "unknown trigger_type %q", in.TriggerType).WithField("rule_id", in.RuleID)
	}
	switch in.Direction {
	case OrderAfter, OrderBefore:
	default:
		return ShiftOrderPreference{}, shifterrors.Newf(shifterrors.CodeInvalidOrderPreference, "unknown direction %q", in.Direction).WithField("rule_id", in.RuleID)
	}
	switch in.PreferredType {
	case OrderPreferredShiftType, OrderPreferredCategory:
	default:
		return ShiftOrderPreference{}, shifterrors.Newf(shifterrors.CodeInvalidOrderPreference, "unknown preferred_type %q", in.PreferredType).WithField("rule_id", in.RuleID)
	}
	if in.PreferredValue == "" {
		return ShiftOrderPreference{}, shifterrors.New(shifterrors.CodeInvalidOrderPreference, "preferred_value is required").WithField("rule_id", in.RuleID)
	}

	priority := in.Priority
	if priority == 0 {
		priority = 1
	} else if priority < 0 {
		return ShiftOrderPreference{}, shifterrors.Newf(shifterrors.CodeInvalidOrderPreference, "priority must be >= 1, got %d", priority).WithField("rule_id", in.RuleID)
	}

	var workerIDs map[string]struct{}
	if len(in.WorkerIDs) > 0 {
		workerIDs = toSet(in.WorkerIDs)
	}

	return ShiftOrderPreference{
		RuleID:         in.RuleID,
		TriggerType:    in.TriggerType,
		TriggerValue:   in.TriggerValue,
		Direction:      in.Direction,
		PreferredType:  in.PreferredType,
		PreferredValue: in.PreferredValue,
		Priority:       priority,
		WorkerIDs:      workerIDs,
	}, nil
}

// AppliesToWorker reports whether this rule is scoped to workerID
// (WorkerIDs nil means every worker).
func (r ShiftOrderPreference) AppliesToWorker(workerID string) bool {
	if r.WorkerIDs == nil {
		return true
	}
	_, ok := r.WorkerIDs[workerID]
	return ok
}
