package ui

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/advait-mulye/medner/internal/input"
	"github.com/advait-mulye/medner/internal/logger"
	"github.com/advait-mulye/medner/internal/model"
	"github.com/advait-mulye/medner/internal/render"
)

// DefaultScrollDelay lets the host lay out results before scrolling to them
const DefaultScrollDelay = 100 * time.Millisecond

// ErrNoResults is returned by Export before any analysis succeeded
var ErrNoResults = errors.New("no results to export")

// View is implemented by each host (web page, terminal). The controller
// calls it with its lock held, so implementations must not call back into
// the controller.
type View interface {
	input.Source
	SetInputText(text string)
	FocusInput()
	SetBusy(busy bool)
	ShowResults(res render.Results)
	HideResults()
	ShowError(message string)
	HideError()
	ScrollToResults()
}

// Analyzer performs the service call
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*model.AnalysisResponse, error)
}

// Scheduler runs fn after d. The default is time.AfterFunc.
type Scheduler func(d time.Duration, fn func())

// Ticket identifies one analyze request. Only the ticket with the latest
// sequence number may apply its result.
type Ticket struct {
	Seq  uint64
	Text string
}

// Controller drives one view. It owns all UI state; construct one per
// view with New.
type Controller struct {
	mu sync.Mutex

	view        View
	analyzer    Analyzer
	validator   input.Validator
	scrollDelay time.Duration
	schedule    Scheduler
	sanitize    bool
	samples     []string
	nextSample  int
	exportDir   string
	now         func() time.Time
	log         *logrus.Logger

	state   State
	seq     uint64 // last issued ticket or clear generation
	pending bool   // ticket seq is awaiting completion
	last    *model.AnalysisResponse
}

// Option configures a Controller
type Option func(*Controller)

// WithValidator replaces the shipped empty-input check
func WithValidator(v input.Validator) Option {
	return func(c *Controller) { c.validator = v }
}

// WithScrollDelay sets the delay before results are scrolled into view
func WithScrollDelay(d time.Duration) Option {
	return func(c *Controller) { c.scrollDelay = d }
}

// WithScheduler replaces time.AfterFunc for deferred view work
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.schedule = s }
}

// WithSanitize reduces the annotated text to inline highlighting markup
func WithSanitize(sanitize bool) Option {
	return func(c *Controller) { c.sanitize = sanitize }
}

// WithSamples replaces the built-in sample texts; next is the index the
// next sample action loads
func WithSamples(samples []string, next int) Option {
	return func(c *Controller) {
		c.samples = samples
		c.nextSample = next
	}
}

// WithExportDir sets where the export action writes artifacts
func WithExportDir(dir string) Option {
	return func(c *Controller) { c.exportDir = dir }
}

// WithClock sets the time source used to stamp exports
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the logger; the default is the shared one
func WithLogger(l *logrus.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New creates a Controller bound to view and analyzer, in state Idle
func New(view View, analyzer Analyzer, opts ...Option) *Controller {
	c := &Controller{
		view:        view,
		analyzer:    analyzer,
		validator:   input.Shipped(),
		scrollDelay: DefaultScrollDelay,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
		samples:   DefaultSamples,
		exportDir: ".",
		now:       time.Now,
		log:       logger.Get(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// NextSample is the index the next sample action will load
func (c *Controller) NextSample() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextSample
}

// Begin collects and validates the input. Invalid input shows the
// validation message and returns an *input.InputError. Valid input issues
// a new Ticket, disables the analyze control and enters Loading.
// A Begin while another ticket is outstanding supersedes it.
func (c *Controller) Begin() (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := input.Collect(c.view)
	if err := c.validator.Check(text); err != nil {
		var inErr *input.InputError
		msg := err.Error()
		if errors.As(err, &inErr) {
			msg = inErr.UserMessage()
		}
		c.log.WithField("reason", err.Error()).Debug("input rejected")
		c.view.ShowError(msg)
		c.state = ErrorShown
		return Ticket{}, err
	}

	c.seq++
	c.pending = true
	c.state = Loading
	c.view.SetBusy(true)

	c.log.WithFields(logrus.Fields{
		"seq":    c.seq,
		"length": len([]rune(text)),
	}).Debug("analysis started")

	return Ticket{Seq: c.seq, Text: text}, nil
}

// Complete applies the outcome of t. It returns false, changing nothing,
// when a later Begin or Clear superseded t.
func (c *Controller) Complete(t Ticket, resp *model.AnalysisResponse, err error) bool {
	c.mu.Lock()

	if t.Seq != c.seq || !c.pending {
		c.mu.Unlock()
		c.log.WithFields(logrus.Fields{
			"seq":    t.Seq,
			"latest": c.seq,
		}).Debug("discarding stale analysis result")
		return false
	}

	c.pending = false
	c.view.SetBusy(false)

	if err == nil && resp == nil {
		err = errors.New("empty response")
	}

	if err != nil {
		c.log.WithError(err).WithField("seq", t.Seq).Warn("analysis failed")
		c.view.ShowError("Analysis failed: " + err.Error())
		c.state = ErrorShown
		c.mu.Unlock()
		return true
	}

	c.last = resp
	c.view.HideError()
	c.view.ShowResults(render.Build(resp, render.Options{Sanitize: c.sanitize}))
	c.state = ResultsShown
	delay := c.scrollDelay
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"seq":      t.Seq,
		"entities": resp.TotalEntities,
	}).Info("analysis complete")

	// scheduled outside the lock; an immediate scheduler re-enters scrollTo
	c.schedule(delay, func() { c.scrollTo(t.Seq) })
	return true
}

// scrollTo scrolls to the results of seq if they are still the ones shown
func (c *Controller) scrollTo(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq || c.state != ResultsShown {
		return
	}
	c.view.ScrollToResults()
}

// Analyze runs one full analyze cycle against the analyzer. The returned
// error is the input or analysis error, already shown in the view.
func (c *Controller) Analyze(ctx context.Context) error {
	t, err := c.Begin()
	if err != nil {
		return err
	}

	resp, err := c.analyzer.Analyze(ctx, t.Text)
	c.Complete(t, resp, err)
	return err
}

// Clear empties the input, hides results and errors, and focuses the
// input. Outstanding tickets are invalidated.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.pending = false
	c.last = nil

	c.view.SetInputText("")
	c.view.HideResults()
	c.view.HideError()
	c.view.SetBusy(false)
	c.view.FocusInput()
	c.state = Idle
}

// DismissError closes the error modal. It is a no-op in other states.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != ErrorShown {
		return
	}
	c.view.HideError()
	if c.pending {
		c.state = Loading
		return
	}
	c.state = Idle
}

// LoadSample puts the next sample text into the input and returns it
func (c *Controller) LoadSample() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.samples) == 0 {
		return ""
	}
	i := c.nextSample % len(c.samples)
	if i < 0 {
		i = 0
	}
	sample := c.samples[i]
	c.nextSample = (i + 1) % len(c.samples)

	c.view.SetInputText(sample)
	c.view.FocusInput()
	return sample
}

// Export writes the results currently shown to dir
func (c *Controller) Export(dir string) (string, error) {
	c.mu.Lock()
	resp := c.last
	at := c.now()
	c.mu.Unlock()

	if resp == nil {
		return "", ErrNoResults
	}

	path, err := render.WriteExport(dir, resp, at)
	if err != nil {
		return "", err
	}
	c.log.WithField("path", path).Info("results exported")
	return path, nil
}

// ExportLatest is Export into the configured export directory
func (c *Controller) ExportLatest() (string, error) {
	c.mu.Lock()
	dir := c.exportDir
	c.mu.Unlock()
	return c.Export(dir)
}
