package service

import (
	"fmt"

	"go.uber.org/zap"
)

// CheckoutState is a step of the order commit saga
type CheckoutState int

const (
	StateReceived CheckoutState = iota
	StateValidated
	StateIDAssigned
	StatePrimaryWritten
	StateSecondaryReplicated
	StateCommitted
	StateRolledBack
)

func (s CheckoutState) String() string {
	switch s {
	case StateReceived:
		return "Received"
	case StateValidated:
		return "Validated"
	case StateIDAssigned:
		return "IdAssigned"
	case StatePrimaryWritten:
		return "PrimaryWritten"
	case StateSecondaryReplicated:
		return "SecondaryReplicated"
	case StateCommitted:
		return "Committed"
	case StateRolledBack:
		return "RolledBack"
	default:
		return fmt.Sprintf("CheckoutState(%d)", int(s))
	}
}

// validTransitions lists the allowed next states. Committed and RolledBack are terminal.
var validTransitions = map[CheckoutState][]CheckoutState{
	StateReceived:            {StateValidated, StateRolledBack},
	StateValidated:           {StateIDAssigned, StateRolledBack},
	StateIDAssigned:          {StatePrimaryWritten, StateRolledBack},
	StatePrimaryWritten:      {StateSecondaryReplicated, StateRolledBack},
	StateSecondaryReplicated: {StateCommitted, StateRolledBack},
}

// checkoutSaga tracks one checkout attempt through its states
type checkoutSaga struct {
	attemptID string
	orderID   string
	state     CheckoutState
	history   []CheckoutState
	logger    *zap.SugaredLogger
}

func newCheckoutSaga(attemptID string, logger *zap.SugaredLogger) *checkoutSaga {
	return &checkoutSaga{
		attemptID: attemptID,
		state:     StateReceived,
		history:   []CheckoutState{StateReceived},
		logger:    logger,
	}
}

// advance moves the saga to next, rejecting transitions outside validTransitions
func (sg *checkoutSaga) advance(next CheckoutState) error {
	for _, allowed := range validTransitions[sg.state] {
		if allowed == next {
			sg.logger.Debugf("🔄 Checkout[%s]: %s -> %s (order=%s)", sg.attemptID, sg.state, next, sg.orderID)
			sg.state = next
			sg.history = append(sg.history, next)
			return nil
		}
	}
	return fmt.Errorf("invalid checkout transition %s -> %s", sg.state, next)
}

// fail moves the saga to RolledBack and returns err unchanged
func (sg *checkoutSaga) fail(err error) error {
	if sg.state != StateRolledBack {
		if advanceErr := sg.advance(StateRolledBack); advanceErr != nil {
			sg.logger.Errorf("❌ Checkout[%s]: %v", sg.attemptID, advanceErr)
		}
	}
	sg.logger.Warnf("⚠️ Checkout[%s]: rolled back (order=%s): %v", sg.attemptID, sg.orderID, err)
	return err
}
