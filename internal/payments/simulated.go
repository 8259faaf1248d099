package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Simulated is the processor used when no Square credentials are configured.
// Token suffixes steer the outcome so agent integrations can exercise every
// branch: "_declined" declines, "_3ds" demands authentication, anything else
// succeeds.
type Simulated struct{}

func NewSimulated() *Simulated {
	return &Simulated{}
}

func (s *Simulated) Charge(_ context.Context, token string, _ int64, _ string, _ Metadata) (Outcome, error) {
	switch {
	case strings.HasSuffix(token, "_declined"):
		return Outcome{Status: OutcomeDeclined}, nil
	case strings.HasSuffix(token, "_3ds"):
		return Outcome{Status: OutcomeRequiresAction}, nil
	case strings.HasSuffix(token, "_error"):
		return Outcome{}, fmt.Errorf("simulated processor failure")
	default:
		return Outcome{
			Status:   OutcomeSucceeded,
			ChargeID: fmt.Sprintf("sim_%s", strings.ReplaceAll(uuid.NewString(), "-", "")),
		}, nil
	}
}
