package models

import "fmt"

// StepType is one processing stage of the laundry pipeline
type StepType string

const (
	StepSorting      StepType = "sorting"
	StepWashing      StepType = "washing"
	StepDrying       StepType = "drying"
	StepFolding      StepType = "folding"
	StepIroning      StepType = "ironing"
	StepPackaging    StepType = "packaging"
	StepQualityCheck StepType = "quality_check"
)

// StepTypes lists every recognized stage in pipeline order
var StepTypes = []StepType{
	StepSorting,
	StepWashing,
	StepDrying,
	StepFolding,
	StepIroning,
	StepPackaging,
	StepQualityCheck,
}

// Valid reports whether t is one of the recognized stages
func (t StepType) Valid() bool {
	for _, known := range StepTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseStepType converts a raw stage name, rejecting unknown values
func ParseStepType(s string) (StepType, error) {
	t := StepType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unrecognized step type %q", s)
	}
	return t, nil
}

// WorkOrderStatus is the lifecycle state of a work order
type WorkOrderStatus string

const (
	WorkOrderPending    WorkOrderStatus = "pending"
	WorkOrderInProgress WorkOrderStatus = "in_progress"
	WorkOrderCompleted  WorkOrderStatus = "completed"
	WorkOrderCancelled  WorkOrderStatus = "cancelled"
)

var workOrderStatuses = []WorkOrderStatus{WorkOrderPending, WorkOrderInProgress, WorkOrderCompleted, WorkOrderCancelled}

// Valid reports whether s is a recognized work order status
func (s WorkOrderStatus) Valid() bool {
	for _, known := range workOrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are allowed
func (s WorkOrderStatus) Terminal() bool {
	return s == WorkOrderCompleted || s == WorkOrderCancelled
}

// ParseWorkOrderStatus converts a raw status, rejecting unknown values
func ParseWorkOrderStatus(s string) (WorkOrderStatus, error) {
	status := WorkOrderStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unrecognized work order status %q", s)
	}
	return status, nil
}

// StepStatus is the state of a single work order step
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepSkipped    StepStatus = "skipped"
)

var stepStatuses = []StepStatus{StepPending, StepInProgress, StepCompleted, StepSkipped}

// Valid reports whether s is a recognized step status
func (s StepStatus) Valid() bool {
	for _, known := range stepStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Cleared reports whether the step no longer blocks later steps
func (s StepStatus) Cleared() bool {
	return s == StepCompleted || s == StepSkipped
}

// ParseStepStatus converts a raw status, rejecting unknown values
func ParseStepStatus(s string) (StepStatus, error) {
	status := StepStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unrecognized step status %q", s)
	}
	return status, nil
}

// OrderStatus is the customer-facing state of an order
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderReady      OrderStatus = "ready"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// orderStatusRank orders the forward progression; cancelled sits outside it
var orderStatusRank = map[OrderStatus]int{
	OrderPending:    0,
	OrderProcessing: 1,
	OrderReady:      2,
	OrderDelivered:  3,
}

// Valid reports whether s is a recognized order status
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok || s == OrderCancelled
}

// Before reports whether s is earlier than other in the forward progression.
// Cancelled is never before or after anything.
func (s OrderStatus) Before(other OrderStatus) bool {
	a, okA := orderStatusRank[s]
	b, okB := orderStatusRank[other]
	return okA && okB && a < b
}

// ParseOrderStatus converts a raw status, rejecting unknown values
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unrecognized order status %q", s)
	}
	return status, nil
}
