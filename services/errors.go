package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure so callers can map it to a response
type Kind string

const (
	KindNotFound      Kind = "NotFound"
	KindConflict      Kind = "Conflict"
	KindInvalidInput  Kind = "InvalidInput"
	KindOutOfSequence Kind = "OutOfSequence"
	KindInvalidSet    Kind = "InvalidSet"
)

// Error is a named, caller-visible failure of a service operation
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors by code so a detailed copy still matches its sentinel
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Withf returns a copy of e carrying a more specific message
func (e *Error) Withf(format string, args ...interface{}) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrCustomerNotFound  = &Error{Kind: KindNotFound, Code: "CUSTOMER_NOT_FOUND", Message: "Customer not found"}
	ErrServiceNotFound   = &Error{Kind: KindNotFound, Code: "SERVICE_NOT_FOUND", Message: "Service not found"}
	ErrOrderNotFound     = &Error{Kind: KindNotFound, Code: "ORDER_NOT_FOUND", Message: "Order not found"}
	ErrSlotNotFound      = &Error{Kind: KindNotFound, Code: "SLOT_NOT_FOUND", Message: "Queue slot not found"}
	ErrWorkOrderNotFound = &Error{Kind: KindNotFound, Code: "WORK_ORDER_NOT_FOUND", Message: "Work order not found"}
	ErrStepNotFound      = &Error{Kind: KindNotFound, Code: "STEP_NOT_FOUND", Message: "Work order step not found"}
	ErrPhotoNotFound     = &Error{Kind: KindNotFound, Code: "PHOTO_NOT_FOUND", Message: "Step has no photo"}

	ErrDuplicateSlot       = &Error{Kind: KindConflict, Code: "DUPLICATE_SLOT", Message: "Order is already scheduled for this date"}
	ErrOrderCancelled      = &Error{Kind: KindConflict, Code: "ORDER_CANCELLED", Message: "Order is cancelled"}
	ErrInvalidOrderStatus  = &Error{Kind: KindConflict, Code: "INVALID_ORDER_STATUS", Message: "Order status does not allow this operation"}
	ErrOpenWorkOrderExists = &Error{Kind: KindConflict, Code: "OPEN_WORK_ORDER_EXISTS", Message: "Order already has an open work order"}
	ErrWorkOrderClosed     = &Error{Kind: KindConflict, Code: "WORK_ORDER_CLOSED", Message: "Work order is already completed or cancelled"}
	ErrInvalidStepStatus   = &Error{Kind: KindConflict, Code: "INVALID_STEP_STATUS", Message: "Step status does not allow this transition"}
	ErrDuplicateCustomer   = &Error{Kind: KindConflict, Code: "CUSTOMER_EXISTS", Message: "A customer with this phone number already exists"}
	ErrDuplicateService    = &Error{Kind: KindConflict, Code: "SERVICE_EXISTS", Message: "A service with this name already exists"}

	ErrInvalidInput      = &Error{Kind: KindInvalidInput, Code: "INVALID_INPUT", Message: "Invalid input"}
	ErrInvalidStepList   = &Error{Kind: KindInvalidInput, Code: "INVALID_STEP_LIST", Message: "Step list must be a non-empty list of distinct recognized stages"}
	ErrServiceInactive   = &Error{Kind: KindInvalidInput, Code: "SERVICE_INACTIVE", Message: "Service is not available"}
	ErrSlotOrderMismatch = &Error{Kind: KindInvalidInput, Code: "SLOT_ORDER_MISMATCH", Message: "Queue slot belongs to a different order"}

	ErrStepOutOfSequence = &Error{Kind: KindOutOfSequence, Code: "STEP_OUT_OF_SEQUENCE", Message: "Earlier steps must be completed or skipped first"}

	ErrInvalidSlotSet = &Error{Kind: KindInvalidSet, Code: "INVALID_SLOT_SET", Message: "Slot ids must match the slots scheduled for the date exactly"}
)

// KindOf returns the kind of a service error, or "" for infrastructure failures
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return ""
}
