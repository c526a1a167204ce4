package admin

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cabinbooking/internal/domain"
	"cabinbooking/internal/modules/booking"
)

type Action string

const (
	ActionApprove       Action = "approve"
	ActionReject        Action = "reject"
	ActionForceComplete Action = "complete"
)

// ParseAction accepts the action names used by the admin routes plus the
// force-complete spellings.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approve":
		return ActionApprove, nil
	case "reject":
		return ActionReject, nil
	case "complete", "force-complete", "force_complete":
		return ActionForceComplete, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Dispatcher maps an operator's intent onto a lifecycle transition.
type Dispatcher struct {
	lifecycle Lifecycle
}

func NewDispatcher(lifecycle Lifecycle) *Dispatcher {
	return &Dispatcher{lifecycle: lifecycle}
}

func (d *Dispatcher) Dispatch(ctx context.Context, bookingID string, action Action, actor domain.Actor) (*domain.Booking, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: %s requires an admin", booking.ErrForbidden, action)
	}

	var (
		b   *domain.Booking
		err error
	)
	switch action {
	case ActionApprove:
		b, err = d.lifecycle.Approve(ctx, bookingID, actor)
	case ActionReject:
		b, err = d.lifecycle.Reject(ctx, bookingID, actor)
	case ActionForceComplete:
		b, err = d.lifecycle.Complete(ctx, bookingID, actor)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if err != nil {
		log.Printf("admin_action_failed action=%s id=%s admin=%s error=%q", action, bookingID, actor.ID, err.Error())
		return nil, err
	}
	return b, nil
}

func (d *Dispatcher) Queue() []domain.Booking {
	return d.lifecycle.Queue()
}
