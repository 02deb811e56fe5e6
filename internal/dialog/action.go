package dialog

import (
	"github.com/xaenox/flatprice-bot/internal/models"
	"github.com/xaenox/flatprice-bot/internal/pricing"
)

type ActionKind int

const (
	// ActionBegin starts a new estimate from any state.
	ActionBegin ActionKind = iota + 1
	// ActionCancel abandons the estimate in progress.
	ActionCancel
	// ActionText is free-form text typed by the user.
	ActionText
	// ActionChoice is a selection from the choices offered last.
	ActionChoice
)

// Action is one user input delivered by the transport.
type Action struct {
	Kind  ActionKind
	Value string
}

func Begin() Action              { return Action{Kind: ActionBegin} }
func Cancel() Action             { return Action{Kind: ActionCancel} }
func Text(value string) Action   { return Action{Kind: ActionText, Value: value} }
func Choice(value string) Action { return Action{Kind: ActionChoice, Value: value} }

// Reply is what the transport shows the user after one action.
type Reply struct {
	Text    string
	Choices []string
	State   models.State
	// Menu asks the transport to offer the main menu.
	Menu bool
	// Invalid is set when the action failed validation and the state
	// did not change.
	Invalid bool
	Result  *Result
}

// Result is a finished estimate.
type Result struct {
	Apartment         models.Apartment
	DistrictName      string
	ApartmentTypeName string
	Quote             pricing.Quote
}
