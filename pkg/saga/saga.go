package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
)

// Data is the bag of values passed between steps. Each step's output is
// merged into it before the next step runs.
type Data map[string]interface{}

// Step is one unit of work with an optional compensating action
type Step struct {
	Name        string
	Description string
	Execute     func(ctx context.Context, data Data) (Data, error)
	Compensate  func(ctx context.Context, data Data) error
	Timeout     time.Duration
}

// Definition is an ordered list of steps
type Definition struct {
	Name        string
	Description string
	Steps       []*Step
}

// NewDefinition creates an empty saga definition
func NewDefinition(name, description string) *Definition {
	return &Definition{Name: name, Description: description}
}

// AddStep appends a step and returns the definition for chaining
func (d *Definition) AddStep(step *Step) *Definition {
	d.Steps = append(d.Steps, step)
	return d
}

// StepError reports which step failed and any compensation failures
type StepError struct {
	Saga             string
	Step             string
	Err              error
	CompensationErrs []error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("saga %s: step %s failed: %v", e.Saga, e.Step, e.Err)
	if len(e.CompensationErrs) > 0 {
		msg += fmt.Sprintf(" (compensation errors: %v)", errors.Join(e.CompensationErrs...))
	}
	return msg
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a run
type Result struct {
	Status Status
	Data   Data
}

// Executor runs definitions in process
type Executor struct {
	log *logger.Logger
}

// NewExecutor creates an executor
func NewExecutor(log *logger.Logger) *Executor {
	if log == nil {
		log = logger.NewNop()
	}
	return &Executor{log: log}
}

// Run executes every step in order. When a step fails, the steps that
// already completed are compensated in reverse order with a context that
// is detached from ctx's cancellation.
func (e *Executor) Run(ctx context.Context, def *Definition, input Data) (*Result, error) {
	data := Data{}
	for k, v := range input {
		data[k] = v
	}

	status := StatusRunning
	completed := make([]*Step, 0, len(def.Steps))

	for _, step := range def.Steps {
		out, err := e.execute(ctx, step, data)
		if err == nil {
			for k, v := range out {
				data[k] = v
			}
			completed = append(completed, step)
			continue
		}

		e.log.WarnContext(ctx, "saga step failed",
			zap.String("saga", def.Name),
			zap.String("step", step.Name),
			zap.Error(err),
		)

		status = transition(status, StatusCompensating)
		compErrs := e.compensate(context.WithoutCancel(ctx), def.Name, completed, data)
		if len(compErrs) > 0 {
			status = transition(status, StatusFailed)
		} else {
			status = transition(status, StatusCompensated)
		}

		return &Result{Status: status, Data: data}, &StepError{
			Saga:             def.Name,
			Step:             step.Name,
			Err:              err,
			CompensationErrs: compErrs,
		}
	}

	return &Result{Status: transition(status, StatusCompleted), Data: data}, nil
}

func (e *Executor) execute(ctx context.Context, step *Step, data Data) (Data, error) {
	if step.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, step.Timeout)
		defer cancel()
	}
	return step.Execute(ctx, data)
}

func (e *Executor) compensate(ctx context.Context, sagaName string, completed []*Step, data Data) []error {
	var errs []error
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx, data); err != nil {
			e.log.ErrorContext(ctx, "saga compensation failed",
				zap.String("saga", sagaName),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("compensate %s: %w", step.Name, err))
		}
	}
	return errs
}

func transition(from, to Status) Status {
	if !from.CanTransitionTo(to) {
		panic(fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to))
	}
	return to
}
