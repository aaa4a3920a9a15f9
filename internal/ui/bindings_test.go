package ui

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advait-mulye/medner/internal/model"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		ev     Event
		state  State
		action Action
		ok     bool
	}{
		{"analyze click", Event{Trigger: ClickAnalyze}, Idle, ActionAnalyze, true},
		{"ctrl+enter focused", Event{Trigger: KeyCtrlEnter, InputFocused: true}, Idle, ActionAnalyze, true},
		{"ctrl+enter unfocused", Event{Trigger: KeyCtrlEnter}, Idle, "", false},
		{"ctrl+k anywhere", Event{Trigger: KeyCtrlK}, ResultsShown, ActionClear, true},
		{"ctrl+l", Event{Trigger: KeyCtrlL}, Idle, ActionSample, true},
		{"escape with error", Event{Trigger: KeyEscape}, ErrorShown, ActionDismiss, true},
		{"escape without error", Event{Trigger: KeyEscape}, ResultsShown, "", false},
		{"backdrop", Event{Trigger: ClickModalBackdrop}, ErrorShown, ActionDismiss, true},
		{"close", Event{Trigger: ClickModalClose}, ErrorShown, ActionDismiss, true},
		{"export", Event{Trigger: ClickExport}, ResultsShown, ActionExport, true},
		{"unknown", Event{Trigger: "key:ctrl+q"}, Idle, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, ok := Resolve(tt.ev, tt.state)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.action, action)
		})
	}
}

func TestBindings_EveryActionReachable(t *testing.T) {
	seen := map[Action]bool{}
	for _, b := range Bindings {
		seen[b.Action] = true
	}
	for _, a := range []Action{ActionAnalyze, ActionClear, ActionSample, ActionExport, ActionDismiss} {
		assert.True(t, seen[a], "no binding for %s", a)
	}
}

func TestKeymap_JSON(t *testing.T) {
	data, err := json.Marshal(Keymap())
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, len(Bindings))

	var escape map[string]any
	for _, b := range decoded {
		if b["trigger"] == string(KeyEscape) {
			escape = b
		}
	}
	require.NotNil(t, escape)
	assert.Equal(t, []any{"error_shown"}, escape["when"])
	assert.Equal(t, "dismiss", escape["action"])

	// copy, not the table itself
	km := Keymap()
	km[0].Action = "tampered"
	assert.Equal(t, ActionAnalyze, Bindings[0].Action)
}

func TestState_MarshalText(t *testing.T) {
	names := map[State]string{
		Loading:      "loading",
		ResultsShown: "results_shown",
		ErrorShown:   "error_shown",
		Idle:         "idle",
	}
	for s, want := range names {
		text, err := s.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, want, string(text))
	}
	assert.Equal(t, "unknown", State(42).String())
}

func TestDispatch(t *testing.T) {
	view := &fakeView{text: "diabetes"}
	c, _ := newController(view, analyzerFunc(func(_ context.Context, text string) (*model.AnalysisResponse, error) {
		return response(text), nil
	}))
	ctx := context.Background()

	action, ok, err := c.Dispatch(ctx, Event{Trigger: KeyCtrlEnter, InputFocused: true})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ActionAnalyze, action)
	assert.Equal(t, ResultsShown, c.State())

	// escape only fires with the error modal up
	_, ok, _ = c.Dispatch(ctx, Event{Trigger: KeyEscape})
	assert.False(t, ok)

	_, ok, err = c.Dispatch(ctx, Event{Trigger: KeyCtrlK})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, view.text)

	_, _, err = c.Dispatch(ctx, Event{Trigger: ClickAnalyze})
	require.Error(t, err)
	assert.Equal(t, ErrorShown, c.State())

	_, ok, _ = c.Dispatch(ctx, Event{Trigger: KeyEscape})
	assert.True(t, ok)
	assert.Equal(t, Idle, c.State())

	_, ok, _ = c.Dispatch(ctx, Event{Trigger: KeyCtrlL})
	assert.True(t, ok)
	assert.Equal(t, DefaultSamples[0], view.text)
}

func TestRun_UnknownAction(t *testing.T) {
	c, _ := newController(&fakeView{}, nil)
	assert.Error(t, c.Run(context.Background(), "explode"))
}
