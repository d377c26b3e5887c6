package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vazarkarshreya23-bit/govbot/model"
)

// appStore is the slice of the application store the dialog engine needs:
// it writes once at the confirmation step and reads once for status checks.
type appStore interface {
	SaveApplication(ctx context.Context, service model.Service, answers map[string]string) (string, error)
	GetApplication(ctx context.Context, appID string) (*model.Application, error)
}

// statusIcons decorates known statuses in status-check replies.
var statusIcons = map[string]string{
	model.StatusPending:  "🕐",
	model.StatusInReview: "🔍",
	model.StatusApproved: "✅",
	model.StatusRejected: "❌",
}

// DialogEngine drives the scripted intake conversation. One call to
// ProcessTurn consumes one user message and produces one reply; all state
// lives in the ConversationState passed in and out, never in the engine.
type DialogEngine struct {
	store appStore
}

func NewDialogEngine(store appStore) *DialogEngine {
	return &DialogEngine{store: store}
}

// ProcessTurn advances the conversation by one turn. Invalid input never
// returns an error; it produces a corrective reply and leaves the state
// untouched. The returned error is non-nil only when the store fails at the
// submit or status-check step.
func (e *DialogEngine) ProcessTurn(ctx context.Context, message string, state model.ConversationState) (string, model.ConversationState, error) {
	if state.Answers == nil {
		state.Answers = map[string]string{}
	}

	raw := strings.TrimSpace(message)
	msg := strings.ToLower(raw)

	switch state.Step {
	case model.StepStart:
		return e.stepStart(msg, state)
	case model.StepChooseService:
		return e.stepChooseService(msg, state)
	case model.StepAskName:
		return e.stepAskName(raw, state)
	case model.StepAskAge:
		return e.stepAskAge(raw, state)
	case model.StepAskPhone:
		return e.stepAskPhone(raw, state)
	case model.StepAskEmail:
		return e.stepAskEmail(raw, msg, state)
	case model.StepAskAddress:
		return e.stepAskAddress(raw, state)
	case model.StepAskDetails:
		return e.stepAskDetails(raw, state)
	case model.StepConfirm:
		return e.stepConfirm(ctx, msg, state)
	case model.StepCheckStatus:
		return e.stepCheckStatus(ctx, raw, state)
	}

	return "🤔 I didn't understand that. Type <b>apply</b> or <b>status</b>.", state, nil
}

func (e *DialogEngine) stepStart(msg string, state model.ConversationState) (string, model.ConversationState, error) {
	switch {
	case strings.Contains(msg, "apply"), strings.Contains(msg, "hello"),
		strings.Contains(msg, "hi"), strings.Contains(msg, "start"):
		state.Step = model.StepChooseService
		return "👋 Welcome to the <b>Government Services Portal</b>!<br><br>" +
			"Please choose a service by typing the number:<br>" +
			"1️⃣ <b>License</b> – Driving / Trade License<br>" +
			"2️⃣ <b>Certificate</b> – Birth / Income / Caste Certificate<br>" +
			"3️⃣ <b>Complaint</b> – File a Grievance<br><br>" +
			"Type <b>1</b>, <b>2</b>, or <b>3</b>.", state, nil
	case strings.Contains(msg, "status"), strings.Contains(msg, "check"):
		state.Step = model.StepCheckStatus
		return "🔍 Please enter your <b>Application ID</b> (e.g., LIC-AB12CD):", state, nil
	default:
		return "Hello! Type <b>apply</b> to start a new application, or <b>status</b> to check your application.", state, nil
	}
}

func (e *DialogEngine) stepChooseService(msg string, state model.ConversationState) (string, model.ConversationState, error) {
	switch msg {
	case "1", "license":
		state.Service = model.ServiceLicense
		state.Step = model.StepAskName
		return "🚗 <b>License Application</b> selected!<br><br>Let's begin. What is your <b>full name</b>?", state, nil
	case "2", "certificate":
		state.Service = model.ServiceCertificate
		state.Step = model.StepAskName
		return "📄 <b>Certificate Application</b> selected!<br><br>Let's begin. What is your <b>full name</b>?", state, nil
	case "3", "complaint":
		state.Service = model.ServiceComplaint
		state.Step = model.StepAskName
		return "📝 <b>Complaint</b> selected!<br><br>Let's begin. What is your <b>full name</b>?", state, nil
	default:
		return "❗ Please type <b>1</b> for License, <b>2</b> for Certificate, or <b>3</b> for Complaint.", state, nil
	}
}

func (e *DialogEngine) stepAskName(raw string, state model.ConversationState) (string, model.ConversationState, error) {
	if len(raw) < 2 {
		return "❗ Name seems too short. Please enter your <b>full name</b>.", state, nil
	}
	name := cases.Title(language.English).String(raw)
	state.Answers["name"] = name
	state.Step = model.StepAskAge
	return fmt.Sprintf("Nice to meet you, <b>%s</b>! 😊<br><br>What is your <b>age</b>?", name), state, nil
}

func (e *DialogEngine) stepAskAge(raw string, state model.ConversationState) (string, model.ConversationState, error) {
	if !isAllDigits(raw) {
		return "❗ Please enter a valid <b>age</b> (numbers only, e.g., 25).", state, nil
	}
	state.Answers["age"] = raw
	state.Step = model.StepAskPhone
	return "📱 What is your <b>phone number</b>?", state, nil
}

func (e *DialogEngine) stepAskPhone(raw string, state model.ConversationState) (string, model.ConversationState, error) {
	stripped := strings.NewReplacer(" ", "", "-", "").Replace(raw)
	if len(stripped) < 7 {
		return "❗ Please enter a valid <b>phone number</b>.", state, nil
	}
	state.Answers["phone"] = raw
	state.Step = model.StepAskEmail
	return "📧 What is your <b>email address</b>? (or type <b>skip</b>)", state, nil
}

func (e *DialogEngine) stepAskEmail(raw, msg string, state model.ConversationState) (string, model.ConversationState, error) {
	if msg == "skip" {
		state.Answers["email"] = ""
	} else {
		state.Answers["email"] = raw
	}
	state.Step = model.StepAskAddress
	return "🏠 What is your <b>home address</b>?", state, nil
}

func (e *DialogEngine) stepAskAddress(raw string, state model.ConversationState) (string, model.ConversationState, error) {
	if len(raw) < 5 {
		return "❗ Address seems too short. Please enter your <b>full address</b>.", state, nil
	}
	state.Answers["address"] = raw
	state.Step = model.StepAskDetails

	// The follow-up question depends on the chosen service; all three
	// answers land in the same "details" field.
	switch state.Service {
	case model.ServiceLicense:
		return "🚘 What <b>type of license</b> are you applying for? (e.g., Driving, Trade, etc.)", state, nil
	case model.ServiceCertificate:
		return "📋 What <b>type of certificate</b> do you need? (e.g., Birth, Income, Caste)", state, nil
	default:
		return "🗣️ Please briefly <b>describe your complaint</b>.", state, nil
	}
}

func (e *DialogEngine) stepAskDetails(raw string, state model.ConversationState) (string, model.ConversationState, error) {
	if len(raw) < 2 {
		return "❗ Please provide more <b>details</b>.", state, nil
	}
	state.Answers["details"] = raw
	state.Step = model.StepConfirm

	email := state.Answers["email"]
	if email == "" {
		email = "Not provided"
	}

	summary := fmt.Sprintf(
		"📋 <b>Please confirm your details:</b><br><br>"+
			"▸ <b>Service:</b> %s<br>"+
			"▸ <b>Name:</b> %s<br>"+
			"▸ <b>Age:</b> %s<br>"+
			"▸ <b>Phone:</b> %s<br>"+
			"▸ <b>Email:</b> %s<br>"+
			"▸ <b>Address:</b> %s<br>"+
			"▸ <b>Details:</b> %s<br><br>"+
			"Type <b>yes</b> to submit or <b>no</b> to start over.",
		capitalize(string(state.Service)),
		state.Answers["name"],
		state.Answers["age"],
		state.Answers["phone"],
		email,
		state.Answers["address"],
		state.Answers["details"],
	)
	return summary, state, nil
}

func (e *DialogEngine) stepConfirm(ctx context.Context, msg string, state model.ConversationState) (string, model.ConversationState, error) {
	switch msg {
	case "yes", "y", "confirm", "submit":
		appID, err := e.store.SaveApplication(ctx, state.Service, state.Answers)
		if err != nil {
			return "", state, fmt.Errorf("save application: %w", err)
		}
		state.Reset()
		return fmt.Sprintf(
			"✅ <b>Application submitted successfully!</b><br><br>"+
				"🎫 Your Application ID is: <b style='font-size:1.2em;color:#00c853'>%s</b><br><br>"+
				"📌 Save this ID to check your status later.<br>"+
				"Type <b>status</b> to check, or <b>apply</b> for a new application.",
			appID,
		), state, nil
	case "no", "n", "restart":
		state.Reset()
		return "🔄 Application cancelled. Type <b>apply</b> to start again.", state, nil
	default:
		return "Please type <b>yes</b> to submit or <b>no</b> to cancel.", state, nil
	}
}

func (e *DialogEngine) stepCheckStatus(ctx context.Context, raw string, state model.ConversationState) (string, model.ConversationState, error) {
	appID := strings.ToUpper(raw)
	app, err := e.store.GetApplication(ctx, appID)
	if err != nil {
		return "", state, fmt.Errorf("look up application: %w", err)
	}

	// Single-shot check: the step goes back to start whether or not the
	// application was found.
	state.Step = model.StepStart

	if app == nil {
		return fmt.Sprintf(
			"❌ No application found with ID <b>%s</b>.<br>"+
				"Please double-check the ID. Type <b>status</b> to try again.",
			appID,
		), state, nil
	}

	icon, ok := statusIcons[app.Status]
	if !ok {
		icon = "📌"
	}
	return fmt.Sprintf(
		"📂 <b>Application Found!</b><br><br>"+
			"▸ <b>App ID:</b> %s<br>"+
			"▸ <b>Service:</b> %s<br>"+
			"▸ <b>Name:</b> %s<br>"+
			"▸ <b>Status:</b> %s <b>%s</b><br>"+
			"▸ <b>Submitted:</b> %s<br>"+
			"▸ <b>Last Updated:</b> %s<br><br>"+
			"Type <b>apply</b> for a new application or <b>status</b> to check another.",
		app.AppID,
		capitalize(app.Service),
		app.Name,
		icon,
		app.Status,
		app.CreatedAt.Format("2006-01-02 15:04:05"),
		app.UpdatedAt.Format("2006-01-02 15:04:05"),
	), state, nil
}

// isAllDigits reports whether s is non-empty and made of digits only.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// capitalize upper-cases the first letter, e.g. "license" -> "License".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
