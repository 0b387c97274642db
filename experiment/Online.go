package experiment

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/samuelfneumann/robotworld/agent"
	env "github.com/samuelfneumann/robotworld/environment"
	"github.com/samuelfneumann/robotworld/experiment/checkpointer"
	"github.com/samuelfneumann/robotworld/experiment/tracker"
	ts "github.com/samuelfneumann/robotworld/timestep"
	"github.com/samuelfneumann/robotworld/utils/progressbar"
	"go.uber.org/zap"
)

// Width of the progress bar in characters
const progressWidth int = 40

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed. The agent remembers every transition and
// replays a batch on each step once it remembers more than one batch.
type Online struct {
	environment env.Environment
	agent       agent.Agent
	episodes    int
	episode     int
	run         uuid.UUID

	logger        *zap.Logger
	progress      *progressbar.ManualProgressBar
	returns       *tracker.Return
	lengths       *tracker.EpisodeLength
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
}

// Option configures an Online experiment
type Option func(*Online)

// WithLogger logs episode summaries to l
func WithLogger(l *zap.Logger) Option {
	return func(o *Online) {
		o.logger = l
	}
}

// WithTrackers registers additional trackers with the experiment
func WithTrackers(t ...tracker.Tracker) Option {
	return func(o *Online) {
		o.trackers = append(o.trackers, t...)
	}
}

// WithCheckpointers checkpoints the agent after each episode
func WithCheckpointers(c ...checkpointer.Checkpointer) Option {
	return func(o *Online) {
		o.checkpointers = append(o.checkpointers, c...)
	}
}

// WithProgress displays a progress bar on w
func WithProgress(w io.Writer) Option {
	return func(o *Online) {
		o.progress = progressbar.NewManualProgressBar(w, progressWidth,
			o.episodes)
	}
}

// WithRunID sets the identifier attached to every log record of the
// experiment
func WithRunID(id uuid.UUID) Option {
	return func(o *Online) {
		o.run = id
	}
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The episodes parameter determines how
// many episodes the experiment is run for.
func NewOnline(e env.Environment, a agent.Agent, episodes int,
	opts ...Option) (*Online, error) {
	if episodes < 0 {
		return nil, fmt.Errorf("newOnline: episodes must be non-negative")
	}

	o := &Online{
		environment: e,
		agent:       a,
		episodes:    episodes,
		run:         uuid.New(),
		logger:      zap.NewNop(),
		returns:     tracker.NewReturn(""),
		lengths:     tracker.NewEpisodeLength(""),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With(zap.String("run", o.run.String()))

	return o, nil
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode of the experiment and returns the
// total reward and number of steps of the episode
func (o *Online) RunEpisode() (float64, int, error) {
	step, err := o.environment.Reset()
	if err != nil {
		return 0, 0, fmt.Errorf("runEpisode: could not reset: %w", err)
	}
	if err := o.track(step); err != nil {
		return 0, 0, err
	}

	totalReward := 0.0
	steps := 0
	done := false
	for !done {
		action := o.agent.Act(step)

		var nextStep ts.TimeStep
		nextStep, done, err = o.environment.Step(action)
		if err != nil {
			return totalReward, steps, fmt.Errorf("runEpisode: %w", err)
		}

		transition := ts.NewTransition(step, action, nextStep)
		if err := o.agent.Remember(transition); err != nil {
			return totalReward, steps, fmt.Errorf("runEpisode: %w", err)
		}
		if err := o.track(nextStep); err != nil {
			return totalReward, steps, err
		}

		step = nextStep
		totalReward += nextStep.Reward
		steps++

		if o.agent.Memory() > o.agent.BatchSize() {
			if err := o.agent.Replay(); err != nil {
				return totalReward, steps, fmt.Errorf("runEpisode: %w", err)
			}
		}
	}

	o.episode++
	o.logger.Info("episode finished",
		zap.Int("episode", o.episode),
		zap.Int("episodes", o.episodes),
		zap.Float64("reward", totalReward),
		zap.Int("steps", steps),
		zap.Float64("epsilon", o.agent.Epsilon()),
		zap.Stringer("end", step.EndType()),
	)

	return totalReward, steps, nil
}

// Run runs the experiment for all episodes. Cancelling ctx stops the
// experiment between episodes, in which case ctx.Err() is returned.
func (o *Online) Run(ctx context.Context) error {
	for o.episode < o.episodes {
		select {
		case <-ctx.Done():
			o.logger.Warn("experiment stopped", zap.Int("episode", o.episode))
			return ctx.Err()
		default:
		}

		reward, steps, err := o.RunEpisode()
		if err != nil {
			return fmt.Errorf("run: episode %d: %w", o.episode+1, err)
		}

		if err := o.checkpoint(); err != nil {
			return fmt.Errorf("run: %w", err)
		}

		if o.progress != nil {
			o.progress.Increment()
			o.progress.SetStatus("reward: %.2f  steps: %d  epsilon: %.2f",
				reward, steps, o.agent.Epsilon())
			if err := o.progress.Display(); err != nil {
				return fmt.Errorf("run: %w", err)
			}
		}
	}
	return nil
}

// Episode returns the number of finished episodes
func (o *Online) Episode() int {
	return o.episode
}

// Returns returns the total reward of each finished episode
func (o *Online) Returns() []float64 {
	return o.returns.Data()
}

// Lengths returns the number of steps of each finished episode
func (o *Online) Lengths() []float64 {
	return o.lengths.Data()
}

// RunID returns the identifier of the experiment
func (o *Online) RunID() uuid.UUID {
	return o.run
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each tracker
func (o *Online) track(t ts.TimeStep) error {
	if err := o.returns.Track(t); err != nil {
		return fmt.Errorf("track: %w", err)
	}
	if err := o.lengths.Track(t); err != nil {
		return fmt.Errorf("track: %w", err)
	}
	for _, tr := range o.trackers {
		if err := tr.Track(t); err != nil {
			return fmt.Errorf("track: %w", err)
		}
	}
	return nil
}

// checkpoint saves the agent with each checkpointer
func (o *Online) checkpoint() error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(o.episode); err != nil {
			return fmt.Errorf("checkpoint: %w", err)
		}
	}
	return nil
}
