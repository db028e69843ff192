package checkout

import "fmt"

// Step is a checkout screen. The zero value is StepSummary.
type Step int

const (
	StepSummary Step = iota
	StepAddress
	StepPayment
	StepReview
	StepPlaced
)

var stepNames = [...]string{
	StepSummary: "summary",
	StepAddress: "address",
	StepPayment: "payment",
	StepReview:  "review",
	StepPlaced:  "placed",
}

// forward and backward are the only legal moves. Review -> Placed is not in
// forward: it happens through a submission, never through Advance.
var (
	forward = map[Step]Step{
		StepSummary: StepAddress,
		StepAddress: StepPayment,
		StepPayment: StepReview,
	}
	backward = map[Step]Step{
		StepAddress: StepSummary,
		StepPayment: StepAddress,
		StepReview:  StepPayment,
	}
)

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

func (s Step) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(stepNames) {
		return nil, fmt.Errorf("invalid checkout step %d", int(s))
	}
	return []byte(stepNames[s]), nil
}

func (s *Step) UnmarshalText(b []byte) error {
	for i, name := range stepNames {
		if name == string(b) {
			*s = Step(i)
			return nil
		}
	}
	return fmt.Errorf("unknown checkout step %q", string(b))
}

func (s Step) Terminal() bool { return s == StepPlaced }
