package ui

import (
	"context"
	"fmt"
	"slices"
)

// Action is something the controller can do in response to a trigger
type Action string

const (
	ActionAnalyze Action = "analyze"
	ActionClear   Action = "clear"
	ActionSample  Action = "sample"
	ActionExport  Action = "export"
	ActionDismiss Action = "dismiss"
)

// Trigger is a toolkit-independent user event. Hosts translate their
// clicks and key presses into triggers.
type Trigger string

const (
	ClickAnalyze       Trigger = "click:analyze"
	ClickClear         Trigger = "click:clear"
	ClickSample        Trigger = "click:sample"
	ClickExport        Trigger = "click:export"
	ClickModalClose    Trigger = "click:modal-close"
	ClickModalBackdrop Trigger = "click:modal-backdrop"
	KeyCtrlEnter       Trigger = "key:ctrl+enter"
	KeyCtrlK           Trigger = "key:ctrl+k"
	KeyCtrlL           Trigger = "key:ctrl+l"
	KeyEscape          Trigger = "key:escape"
)

// Event is one trigger plus the context its predicate may need
type Event struct {
	Trigger      Trigger
	InputFocused bool
}

// Binding maps a trigger to an action. InputFocus requires the input to
// have focus; a non-empty When restricts the binding to those states.
type Binding struct {
	Trigger     Trigger `json:"trigger"`
	Action      Action  `json:"action"`
	InputFocus  bool    `json:"inputFocus,omitempty"`
	When        []State `json:"when,omitempty"`
	Description string  `json:"description"`
}

// Matches reports whether ev fires b in state
func (b Binding) Matches(ev Event, state State) bool {
	if ev.Trigger != b.Trigger {
		return false
	}
	if b.InputFocus && !ev.InputFocused {
		return false
	}
	if len(b.When) > 0 && !slices.Contains(b.When, state) {
		return false
	}
	return true
}

// Bindings is the complete trigger table, first match wins
var Bindings = []Binding{
	{Trigger: ClickAnalyze, Action: ActionAnalyze, Description: "Analyze the text"},
	{Trigger: ClickClear, Action: ActionClear, Description: "Clear input and results"},
	{Trigger: ClickSample, Action: ActionSample, Description: "Load a sample text"},
	{Trigger: ClickExport, Action: ActionExport, Description: "Export results as JSON"},
	{Trigger: ClickModalClose, Action: ActionDismiss, Description: "Close the error"},
	{Trigger: ClickModalBackdrop, Action: ActionDismiss, Description: "Close the error"},
	{Trigger: KeyCtrlEnter, Action: ActionAnalyze, InputFocus: true, Description: "Analyze the text"},
	{Trigger: KeyCtrlK, Action: ActionClear, Description: "Clear input and results"},
	{Trigger: KeyCtrlL, Action: ActionSample, Description: "Load a sample text"},
	{Trigger: KeyEscape, Action: ActionDismiss, When: []State{ErrorShown}, Description: "Close the error"},
}

// Resolve finds the action ev fires in state
func Resolve(ev Event, state State) (Action, bool) {
	for _, b := range Bindings {
		if b.Matches(ev, state) {
			return b.Action, true
		}
	}
	return "", false
}

// Keymap returns a copy of the table for hosts that resolve triggers on
// their own side (the browser script)
func Keymap() []Binding {
	return slices.Clone(Bindings)
}

// Run performs action. Errors are already shown in the view.
func (c *Controller) Run(ctx context.Context, action Action) error {
	switch action {
	case ActionAnalyze:
		return c.Analyze(ctx)
	case ActionClear:
		c.Clear()
	case ActionSample:
		c.LoadSample()
	case ActionExport:
		_, err := c.ExportLatest()
		return err
	case ActionDismiss:
		c.DismissError()
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}

// Dispatch resolves ev against the current state and runs the bound
// action. It reports the action and whether any binding matched.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (Action, bool, error) {
	action, ok := Resolve(ev, c.State())
	if !ok {
		return "", false, nil
	}
	return action, true, c.Run(ctx, action)
}
