package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/louisbranch/voidlight/internal/core/dice"
	"github.com/louisbranch/voidlight/internal/services/table/app"
	"github.com/louisbranch/voidlight/internal/services/table/catalog"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

// AssertionMode decides whether a failed expectation stops the run.
type AssertionMode int

const (
	// AssertionStrict fails the scenario at the first unmet expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs unmet expectations and reports them at the end.
	AssertionLogOnly
)

// Config controls scenario execution.
type Config struct {
	Timeout    time.Duration
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:    10 * time.Second,
		Assertions: AssertionStrict,
	}
}

// Runner executes Lua scenarios against an in-process table.
type Runner struct {
	catalog    *catalog.Catalog
	assertions *Assertions
	logger     *log.Logger
	verbose    bool
	timeout    time.Duration
	now        func() time.Time
}

// NewRunner prepares a runner over the bundled catalog.
func NewRunner(cfg Config) (*Runner, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Runner{
		catalog:    cat,
		assertions: &Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
		now:        time.Now,
	}, nil
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	runner, err := NewRunner(cfg)
	if err != nil {
		return err
	}
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return runner.RunScenario(ctx, scenario)
}

// scenarioState is the table one scenario drives.
type scenarioState struct {
	controller *app.Controller
	dice       *dice.Scripted
	lastRoll   *domain.RollRecord
}

// RunScenario executes the steps against a fresh session whose dice only
// come from the scenario's dice steps.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))
	state, err := r.newState()
	if err != nil {
		return err
	}
	r.assertions.Reset()

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	if err := r.assertions.Err(); err != nil {
		return fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func (r *Runner) newState() (*scenarioState, error) {
	scripted := dice.NewScripted()
	session, err := domain.NewSession(domain.WithSource(scripted), domain.WithClock(r.now))
	if err != nil {
		return nil, err
	}
	controller, err := app.NewController(session, r.catalog)
	if err != nil {
		return nil, err
	}
	return &scenarioState{controller: controller, dice: scripted}, nil
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}

// Assertions collects unmet expectations.
type Assertions struct {
	Mode     AssertionMode
	Logger   *log.Logger
	failures []string
}

// Failf records a failure. In strict mode it is returned as an error.
func (a *Assertions) Failf(format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	if a.Mode == AssertionStrict {
		return errors.New(message)
	}
	if a.Logger != nil {
		a.Logger.Printf("assertion failed: %s", message)
	}
	a.failures = append(a.failures, message)
	return nil
}

// Err summarizes every recorded failure.
func (a *Assertions) Err() error {
	if len(a.failures) == 0 {
		return nil
	}
	return fmt.Errorf("%d assertion(s) failed: %s", len(a.failures), strings.Join(a.failures, "; "))
}

// Reset forgets recorded failures.
func (a *Assertions) Reset() {
	a.failures = nil
}
