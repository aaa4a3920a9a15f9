package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advait-mulye/medner/internal/model"
	"github.com/advait-mulye/medner/internal/render"
	"github.com/advait-mulye/medner/internal/ui"
)

type analyzerFunc func(ctx context.Context, text string) (*model.AnalysisResponse, error)

func (f analyzerFunc) Analyze(ctx context.Context, text string) (*model.AnalysisResponse, error) {
	return f(ctx, text)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func okAnalyzer() analyzerFunc {
	return func(_ context.Context, text string) (*model.AnalysisResponse, error) {
		return &model.AnalysisResponse{
			TotalEntities: 1,
			OriginalText:  text,
			Entities:      []model.Entity{{Text: "diabetes", Label: "DISEASE", Start: 12, End: 20}},
			Summary:       model.Summary{{Label: "DISEASE", Texts: []string{"diabetes"}}},
			AnnotatedText: "Patient has [diabetes|DISEASE].",
		}, nil
	}
}

func newModel(a ui.Analyzer, opts ...ui.Option) *Model {
	opts = append([]ui.Option{ui.WithLogger(quietLogger())}, opts...)
	m := New(context.Background(), a, opts...)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// analysisMsg runs the analysis command out of the batch returned for an
// analyze key press
func analysisMsg(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		require.NotEmpty(t, batch)
		return batch[0]()
	}
	return msg
}

func TestAnalyze_CtrlJ(t *testing.T) {
	m := newModel(okAnalyzer())
	m.SetInputText("Patient has diabetes.")

	_, cmd := m.Update(key(tea.KeyCtrlJ))
	assert.True(t, m.busy)
	assert.Equal(t, ui.Loading, m.ctrl.State())
	assert.Contains(t, m.View(), "Analyzing")

	done := analysisMsg(t, cmd)
	require.IsType(t, analysisDoneMsg{}, done)

	_, cmd = m.Update(done)
	assert.False(t, m.busy)
	assert.Equal(t, ui.ResultsShown, m.ctrl.State())
	require.NotNil(t, m.res)
	assert.Contains(t, m.View(), "Position: 12-20")
	// scroll-into-view is deferred
	assert.NotNil(t, cmd)
}

func TestAnalyze_CtrlSAlsoAnalyzes(t *testing.T) {
	m := newModel(okAnalyzer())
	m.SetInputText("Patient has diabetes.")

	_, cmd := m.Update(key(tea.KeyCtrlS))
	assert.NotNil(t, cmd)
	assert.Equal(t, ui.Loading, m.ctrl.State())
}

func TestAnalyze_RequiresInputFocus(t *testing.T) {
	m := newModel(okAnalyzer())
	m.SetInputText("Patient has diabetes.")

	m.Update(key(tea.KeyTab))
	assert.False(t, m.inputFocused)

	_, cmd := m.Update(key(tea.KeyCtrlJ))
	assert.Nil(t, cmd)
	assert.Equal(t, ui.Idle, m.ctrl.State())
}

func TestAnalyze_Failure(t *testing.T) {
	m := newModel(analyzerFunc(func(context.Context, string) (*model.AnalysisResponse, error) {
		return nil, errors.New("model unavailable")
	}))
	m.SetInputText("fever")

	_, cmd := m.Update(key(tea.KeyCtrlJ))
	m.Update(analysisMsg(t, cmd))

	assert.Equal(t, ui.ErrorShown, m.ctrl.State())
	assert.False(t, m.busy)
	assert.Contains(t, m.View(), "Analysis failed: model unavailable")

	// typing is swallowed while the modal is up
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, "fever", m.InputText())

	m.Update(key(tea.KeyEsc))
	assert.Equal(t, ui.Idle, m.ctrl.State())
	assert.NotContains(t, m.View(), "Analysis failed")
}

func TestEmptyInput_EnterDismisses(t *testing.T) {
	m := newModel(okAnalyzer())

	_, cmd := m.Update(key(tea.KeyCtrlJ))
	assert.Nil(t, cmd)
	assert.Equal(t, ui.ErrorShown, m.ctrl.State())
	assert.Contains(t, m.View(), "Please enter some text to analyze.")

	m.Update(key(tea.KeyEnter))
	assert.Equal(t, ui.Idle, m.ctrl.State())
}

func TestStaleCompletionIgnored(t *testing.T) {
	m := newModel(okAnalyzer())
	m.SetInputText("first")
	_, first := m.Update(key(tea.KeyCtrlJ))
	firstMsg := analysisMsg(t, first)

	m.Update(key(tea.KeyCtrlK))
	assert.Equal(t, ui.Idle, m.ctrl.State())
	assert.Empty(t, m.InputText())

	m.Update(firstMsg)
	assert.Nil(t, m.res)
	assert.Equal(t, ui.Idle, m.ctrl.State())
}

func TestSampleAndClear(t *testing.T) {
	m := newModel(okAnalyzer())

	m.Update(key(tea.KeyCtrlL))
	assert.Equal(t, ui.DefaultSamples[0], m.InputText())

	m.Update(key(tea.KeyCtrlK))
	assert.Empty(t, m.InputText())
	assert.True(t, m.inputFocused)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	m := newModel(okAnalyzer(), ui.WithExportDir(dir), ui.WithClock(func() time.Time {
		return time.UnixMilli(1700000000000)
	}))

	m.Update(key(tea.KeyCtrlE))
	assert.Contains(t, m.status, "no results to export")

	m.SetInputText("Patient has diabetes.")
	_, cmd := m.Update(key(tea.KeyCtrlJ))
	m.Update(analysisMsg(t, cmd))

	m.Update(key(tea.KeyCtrlE))
	path := filepath.Join(dir, "medical-ner-results-1700000000000.json")
	assert.Equal(t, "Exported to "+path, m.status)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestDeferredScroll(t *testing.T) {
	m := newModel(okAnalyzer(), ui.WithScrollDelay(time.Millisecond))
	m.SetInputText("Patient has diabetes.")

	_, cmd := m.Update(key(tea.KeyCtrlJ))
	_, cmd = m.Update(analysisMsg(t, cmd))
	require.NotNil(t, cmd)

	m.results.SetYOffset(5)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		msg = batch[0]()
	}
	require.IsType(t, deferredMsg{}, msg)
	m.Update(msg)
	assert.Equal(t, 0, m.results.YOffset)
}

func TestRenderResults(t *testing.T) {
	resp, _ := okAnalyzer()(context.Background(), "Patient has diabetes.")
	out := renderResults(render.Build(resp, render.Options{}), 80)

	assert.Contains(t, out, "1 entity across 1 type")
	assert.Contains(t, out, "DISEASE (1)")
	assert.Contains(t, out, "diabetes")
	assert.NotContains(t, out, "[diabetes|DISEASE]")

	empty := renderResults(render.Build(&model.AnalysisResponse{}, render.Options{}), 80)
	assert.Contains(t, empty, render.Placeholder)
}

func TestWrapJoin(t *testing.T) {
	assert.Equal(t, "aa bb\ncc", wrapJoin([]string{"aa", "bb", "cc"}, 6))
	assert.Equal(t, "aa bb cc", wrapJoin([]string{"aa", "bb", "cc"}, 0))
	assert.Equal(t, "", wrapJoin(nil, 10))
}
