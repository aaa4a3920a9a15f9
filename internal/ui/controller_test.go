package ui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advait-mulye/medner/internal/input"
	"github.com/advait-mulye/medner/internal/model"
	"github.com/advait-mulye/medner/internal/render"
)

type fakeView struct {
	text     string
	focused  bool
	busy     bool
	results  *render.Results
	errMsg   string
	scrolled int
}

func (v *fakeView) InputText() string        { return v.text }
func (v *fakeView) SetInputText(text string) { v.text = text }
func (v *fakeView) FocusInput()              { v.focused = true }
func (v *fakeView) SetBusy(busy bool)        { v.busy = busy }
func (v *fakeView) ShowResults(res render.Results) {
	v.results = &res
}
func (v *fakeView) HideResults()         { v.results = nil }
func (v *fakeView) ShowError(msg string) { v.errMsg = msg }
func (v *fakeView) HideError()           { v.errMsg = "" }
func (v *fakeView) ScrollToResults()     { v.scrolled++ }

type analyzerFunc func(ctx context.Context, text string) (*model.AnalysisResponse, error)

func (f analyzerFunc) Analyze(ctx context.Context, text string) (*model.AnalysisResponse, error) {
	return f(ctx, text)
}

type deferred struct {
	delay time.Duration
	fn    func()
}

type manualScheduler struct {
	queue []deferred
}

func (s *manualScheduler) schedule(d time.Duration, fn func()) {
	s.queue = append(s.queue, deferred{d, fn})
}

func (s *manualScheduler) flush() {
	q := s.queue
	s.queue = nil
	for _, d := range q {
		d.fn()
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func response(text string) *model.AnalysisResponse {
	return &model.AnalysisResponse{
		TotalEntities: 1,
		OriginalText:  text,
		Entities:      []model.Entity{{Text: text, Label: model.LabelDisease, Start: 0, End: len(text)}},
		Summary:       model.Summary{{Label: model.LabelDisease, Texts: []string{text}}},
	}
}

func newController(view *fakeView, a Analyzer, opts ...Option) (*Controller, *manualScheduler) {
	sched := &manualScheduler{}
	opts = append([]Option{WithScheduler(sched.schedule), WithLogger(quietLogger())}, opts...)
	return New(view, a, opts...), sched
}

func TestAnalyze_Success(t *testing.T) {
	view := &fakeView{text: "  diabetes  "}
	var got string
	c, sched := newController(view, analyzerFunc(func(_ context.Context, text string) (*model.AnalysisResponse, error) {
		got = text
		return response(text), nil
	}))

	require.NoError(t, c.Analyze(context.Background()))

	assert.Equal(t, "diabetes", got, "input should be trimmed")
	assert.Equal(t, ResultsShown, c.State())
	assert.False(t, view.busy)
	require.NotNil(t, view.results)
	assert.Equal(t, 1, view.results.Total)

	require.Len(t, sched.queue, 1)
	assert.Equal(t, DefaultScrollDelay, sched.queue[0].delay)
	assert.Equal(t, 0, view.scrolled)
	sched.flush()
	assert.Equal(t, 1, view.scrolled)
}

func TestAnalyze_ServiceFailure(t *testing.T) {
	view := &fakeView{text: "fever"}
	c, sched := newController(view, analyzerFunc(func(context.Context, string) (*model.AnalysisResponse, error) {
		return nil, errors.New("model unavailable")
	}))

	err := c.Analyze(context.Background())
	require.Error(t, err)

	assert.Equal(t, "Analysis failed: model unavailable", view.errMsg)
	assert.Equal(t, ErrorShown, c.State())
	assert.False(t, view.busy, "analyze control must be re-enabled")
	assert.Empty(t, sched.queue)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	view := &fakeView{text: "   "}
	called := false
	c, _ := newController(view, analyzerFunc(func(context.Context, string) (*model.AnalysisResponse, error) {
		called = true
		return nil, nil
	}))

	err := c.Analyze(context.Background())

	var inErr *input.InputError
	require.ErrorAs(t, err, &inErr)
	assert.False(t, called, "no request for empty input")
	assert.Equal(t, "Please enter some text to analyze.", view.errMsg)
	assert.Equal(t, ErrorShown, c.State())
	assert.False(t, view.busy)
}

func TestAnalyze_StrictValidator(t *testing.T) {
	view := &fakeView{text: "short"}
	c, _ := newController(view, analyzerFunc(func(context.Context, string) (*model.AnalysisResponse, error) {
		t.Fatal("analyzer must not be called")
		return nil, nil
	}), WithValidator(input.Strict()))

	require.Error(t, c.Analyze(context.Background()))
	assert.Equal(t, "Text is too short: enter at least 10 characters.", view.errMsg)
}

func TestComplete_StaleResponseDiscarded(t *testing.T) {
	view := &fakeView{}
	c, sched := newController(view, nil)

	view.text = "first"
	first, err := c.Begin()
	require.NoError(t, err)

	view.text = "second"
	second, err := c.Begin()
	require.NoError(t, err)
	assert.Greater(t, second.Seq, first.Seq)

	// second resolves first
	assert.True(t, c.Complete(second, response("second"), nil))
	// first resolves late and must not overwrite
	assert.False(t, c.Complete(first, response("first"), nil))

	require.NotNil(t, view.results)
	assert.Equal(t, "second", view.results.Original)
	assert.Equal(t, ResultsShown, c.State())
	assert.Len(t, sched.queue, 1)
}

func TestComplete_StaleErrorDiscarded(t *testing.T) {
	view := &fakeView{text: "a"}
	c, _ := newController(view, nil)

	first, _ := c.Begin()
	second, _ := c.Begin()

	assert.False(t, c.Complete(first, nil, errors.New("boom")))
	assert.Empty(t, view.errMsg)
	assert.True(t, view.busy, "still waiting on the latest request")
	assert.Equal(t, Loading, c.State())

	assert.True(t, c.Complete(second, response("a"), nil))
	assert.False(t, view.busy)
}

func TestComplete_AppliesOnce(t *testing.T) {
	view := &fakeView{text: "a"}
	c, _ := newController(view, nil)

	tk, _ := c.Begin()
	assert.True(t, c.Complete(tk, response("a"), nil))
	assert.False(t, c.Complete(tk, response("b"), nil))
	assert.Equal(t, "a", view.results.Original)
}

func TestClear_FromEveryState(t *testing.T) {
	setups := map[State]func(c *Controller, v *fakeView){
		Loading: func(c *Controller, v *fakeView) {
			v.text = "x"
			_, _ = c.Begin()
		},
		ResultsShown: func(c *Controller, v *fakeView) {
			v.text = "x"
			tk, _ := c.Begin()
			c.Complete(tk, response("x"), nil)
		},
		ErrorShown: func(c *Controller, v *fakeView) {
			v.text = ""
			_, _ = c.Begin()
		},
		Idle: func(*Controller, *fakeView) {},
	}

	for state, setup := range setups {
		t.Run(state.String(), func(t *testing.T) {
			view := &fakeView{}
			c, _ := newController(view, nil)
			setup(c, view)
			require.Equal(t, state, c.State())

			view.text = "leftover"
			view.focused = false
			c.Clear()

			assert.Equal(t, Idle, c.State())
			assert.Empty(t, view.text)
			assert.Nil(t, view.results)
			assert.Empty(t, view.errMsg)
			assert.True(t, view.focused)
			assert.False(t, view.busy)
			_, err := c.Export(t.TempDir())
			assert.ErrorIs(t, err, ErrNoResults)
		})
	}
}

func TestClear_InvalidatesInFlight(t *testing.T) {
	view := &fakeView{text: "x"}
	c, sched := newController(view, nil)

	tk, _ := c.Begin()
	c.Clear()

	assert.False(t, c.Complete(tk, response("x"), nil))
	assert.Nil(t, view.results)
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, sched.queue)
}

func TestScroll_SkippedAfterClear(t *testing.T) {
	view := &fakeView{text: "x"}
	c, sched := newController(view, nil)

	tk, _ := c.Begin()
	c.Complete(tk, response("x"), nil)
	c.Clear()
	sched.flush()

	assert.Equal(t, 0, view.scrolled)
}

func TestDismissError(t *testing.T) {
	view := &fakeView{}
	c, _ := newController(view, nil)

	// no-op outside ErrorShown
	c.DismissError()
	assert.Equal(t, Idle, c.State())

	_, err := c.Begin()
	require.Error(t, err)
	require.Equal(t, ErrorShown, c.State())

	c.DismissError()
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, view.errMsg)
}

func TestDismissError_WhileRequestOutstanding(t *testing.T) {
	view := &fakeView{text: "x"}
	c, _ := newController(view, nil)

	tk, _ := c.Begin()
	view.text = ""
	_, err := c.Begin()
	require.Error(t, err)

	c.DismissError()
	assert.Equal(t, Loading, c.State())

	assert.True(t, c.Complete(tk, response("x"), nil))
	assert.Equal(t, ResultsShown, c.State())
}

func TestLoadSample_Cycles(t *testing.T) {
	view := &fakeView{}
	c, _ := newController(view, nil, WithSamples([]string{"one", "two"}, 1))

	assert.Equal(t, "two", c.LoadSample())
	assert.Equal(t, "two", view.text)
	assert.True(t, view.focused)
	assert.Equal(t, "one", c.LoadSample())
	assert.Equal(t, 1, c.NextSample())

	empty, _ := newController(&fakeView{}, nil, WithSamples(nil, 0))
	assert.Equal(t, "", empty.LoadSample())
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	view := &fakeView{text: "diabetes"}
	at := time.UnixMilli(1700000000000)
	c, _ := newController(view, analyzerFunc(func(_ context.Context, text string) (*model.AnalysisResponse, error) {
		return response(text), nil
	}), WithClock(func() time.Time { return at }), WithExportDir(dir))

	_, err := c.Export(dir)
	assert.ErrorIs(t, err, ErrNoResults)

	require.NoError(t, c.Analyze(context.Background()))
	require.NoError(t, c.Run(context.Background(), ActionExport))

	_, err = os.Stat(filepath.Join(dir, "medical-ner-results-1700000000000.json"))
	assert.NoError(t, err)
}

func TestDefaultScheduler_Scrolls(t *testing.T) {
	view := &fakeView{text: "x"}
	c := New(view, nil, WithScrollDelay(time.Millisecond), WithLogger(quietLogger()))

	tk, _ := c.Begin()
	c.Complete(tk, response("x"), nil)

	assert.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return view.scrolled == 1
	}, time.Second, 5*time.Millisecond)
}
