package model

// Step identifies where a conversation currently is in the intake dialog.
type Step string

const (
	StepStart         Step = "start"
	StepChooseService Step = "choose_service"
	StepAskName       Step = "ask_name"
	StepAskAge        Step = "ask_age"
	StepAskPhone      Step = "ask_phone"
	StepAskEmail      Step = "ask_email"
	StepAskAddress    Step = "ask_address"
	StepAskDetails    Step = "ask_details"
	StepConfirm       Step = "confirm"
	StepCheckStatus   Step = "check_status"
)

// ParseStep normalizes an externally stored step value. Anything
// unrecognized (legacy sessions, tampered cookies) maps to StepStart.
func ParseStep(s string) Step {
	switch Step(s) {
	case StepChooseService, StepAskName, StepAskAge, StepAskPhone,
		StepAskEmail, StepAskAddress, StepAskDetails, StepConfirm,
		StepCheckStatus:
		return Step(s)
	default:
		return StepStart
	}
}

// Service is the kind of application being filed.
type Service string

const (
	ServiceNone        Service = ""
	ServiceLicense     Service = "license"
	ServiceCertificate Service = "certificate"
	ServiceComplaint   Service = "complaint"
)

// ParseService normalizes an externally stored service value; unknown
// values map to ServiceNone.
func ParseService(s string) Service {
	switch Service(s) {
	case ServiceLicense, ServiceCertificate, ServiceComplaint:
		return Service(s)
	default:
		return ServiceNone
	}
}

// ConversationState is the per-session dialog state. It is passed by value
// through the engine and persisted by the session carrier between turns.
type ConversationState struct {
	Step    Step              `json:"step"`
	Service Service           `json:"service"`
	Answers map[string]string `json:"answers"`
}

// NewConversationState returns the initial state: start, no service, no answers.
func NewConversationState() ConversationState {
	return ConversationState{
		Step:    StepStart,
		Service: ServiceNone,
		Answers: map[string]string{},
	}
}

// Reset returns the state to its initial value. Idempotent.
func (s *ConversationState) Reset() {
	s.Step = StepStart
	s.Service = ServiceNone
	s.Answers = map[string]string{}
}
