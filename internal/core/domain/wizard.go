package domain

import "time"

type WizardStep int

const (
	StepDates WizardStep = iota + 1
	StepPersonalInfo
	StepReview
	StepConfirmed
)

func (s WizardStep) String() string {
	switch s {
	case StepDates:
		return "dates"
	case StepPersonalInfo:
		return "personal_info"
	case StepReview:
		return "review"
	case StepConfirmed:
		return "confirmed"
	}
	return "unknown"
}

func ParseWizardStep(s string) (WizardStep, bool) {
	for _, step := range []WizardStep{StepDates, StepPersonalInfo, StepReview, StepConfirmed} {
		if step.String() == s {
			return step, true
		}
	}
	return 0, false
}

// BookingDraft is the in-progress state of one booking attempt.
type BookingDraft struct {
	Motorbike       Motorbike     `json:"motorbike"`
	Step            WizardStep    `json:"-"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         time.Time     `json:"end_date"`
	PickupLocation  string        `json:"pickup_location"`
	DropoffLocation string        `json:"dropoff_location"`
	SameLocation    bool          `json:"same_location"`
	FullName        string        `json:"full_name"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone"`
	Days            int           `json:"days"`
	TotalPrice      float64       `json:"total_price"`
	PaymentMethod   PaymentMethod `json:"payment_method,omitempty"`
	PaymentProof    *File         `json:"payment_proof,omitempty"`
	Submitting      bool          `json:"submitting"`
	Error           string        `json:"error,omitempty"`
	AwaitingAuth    bool          `json:"awaiting_auth"`
	Confirmed       *Booking      `json:"confirmed,omitempty"`
}
