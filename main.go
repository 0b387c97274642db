package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samuelfneumann/robotworld/dataset"
	"github.com/samuelfneumann/robotworld/environment/envconfig"
	"github.com/samuelfneumann/robotworld/environment/navigation"
	"github.com/samuelfneumann/robotworld/environment/voxelworld"
	"github.com/samuelfneumann/robotworld/environment/wrappers"
	"github.com/samuelfneumann/robotworld/experiment"
	"github.com/samuelfneumann/robotworld/logging"
	"github.com/samuelfneumann/robotworld/render"
	"github.com/samuelfneumann/robotworld/voxel"

	// Register agent configs for deserialization
	_ "github.com/samuelfneumann/robotworld/agent/qlearning"
	_ "github.com/samuelfneumann/robotworld/agent/random"
)

// Environment variables overriding the configuration file
const (
	datasetEnv  = "ROBOTWORLD_DATASET"
	logLevelEnv = "ROBOTWORLD_LOG_LEVEL"
)

// options holds the command line flags shared by the commands
type options struct {
	config          string
	episodes        int
	seed            uint64
	dataset         string
	output          string
	logLevel        string
	checkpointEvery int
	html            bool
	full            bool

	count int
	size  int
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "robotworld",
		Short: "Train agents in a 2D navigation world or a 3D voxel world",
		PersistentPreRun: func(*cobra.Command, []string) {
			// A missing .env file is not an error
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}

	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "Train an agent and save its model, tracked data and figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return train(cmd, opts)
		},
	}
	trainCmd.Flags().IntVarP(&opts.episodes, "episodes", "n",
		experiment.DefaultEpisodes, "number of training episodes")
	trainCmd.Flags().IntVar(&opts.checkpointEvery, "checkpoint-every", 0,
		"save the agent every so many episodes, 0 saves only the final model")
	trainCmd.Flags().BoolVar(&opts.html, "html", false,
		"also write an interactive HTML visualization")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Reset the configured environment once and render it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderEnv(cmd, opts)
		},
	}
	renderCmd.Flags().BoolVar(&opts.html, "html", false,
		"also write an interactive HTML visualization")
	renderCmd.Flags().BoolVar(&opts.full, "full", false,
		"render every voxel rather than only the robot marker")

	for _, cmd := range []*cobra.Command{trainCmd, renderCmd} {
		cmd.Flags().StringVarP(&opts.config, "config", "c", "",
			"YAML experiment configuration")
		cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "random seed")
		cmd.Flags().StringVar(&opts.dataset, "dataset",
			experiment.DefaultDataset, "3D shapes dataset file")
		cmd.Flags().StringVarP(&opts.output, "output", "o", ".",
			"output directory")
		cmd.Flags().StringVar(&opts.logLevel, "log-level",
			logging.DefaultLevel, "log level")
	}

	datasetCmd := &cobra.Command{
		Use:   "dataset",
		Short: "Generate a synthetic 3D shapes dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generate(opts)
		},
	}
	datasetCmd.Flags().IntVar(&opts.count, "count", dataset.DefaultCount,
		"number of images")
	datasetCmd.Flags().IntVar(&opts.size, "size", dataset.DefaultSize,
		"side length of each image in voxels")
	datasetCmd.Flags().Uint64Var(&opts.seed, "seed", 1, "random seed")
	datasetCmd.Flags().StringVarP(&opts.dataset, "output", "o",
		experiment.DefaultDataset, "dataset file")

	rootCmd.AddCommand(trainCmd, renderCmd, datasetCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig builds the experiment configuration from the configuration
// file, then the environment, then the flags set on cmd
func loadConfig(cmd *cobra.Command, opts options) (experiment.Config, error) {
	c := experiment.DefaultConfig()
	if opts.config != "" {
		f, err := os.Open(opts.config)
		if err != nil {
			return c, fmt.Errorf("loadConfig: %w", err)
		}
		defer f.Close()

		if c, err = experiment.LoadConfig(f); err != nil {
			return c, err
		}
	}

	if path, ok := os.LookupEnv(datasetEnv); ok {
		c.Dataset = path
	}
	if level, ok := os.LookupEnv(logLevelEnv); ok {
		c.LogLevel = level
	}

	flags := cmd.Flags()
	if flags.Changed("episodes") {
		c.Episodes = opts.episodes
	}
	if flags.Changed("seed") {
		c.Seed = opts.seed
	}
	if flags.Changed("dataset") {
		c.Dataset = opts.dataset
	}
	if flags.Changed("output") {
		c.Output = opts.output
	}
	if flags.Changed("log-level") {
		c.LogLevel = opts.logLevel
	}
	if flags.Changed("checkpoint-every") {
		c.CheckpointEvery = opts.checkpointEvery
	}
	if flags.Changed("html") {
		c.HTML = opts.html
	}

	return c, c.Validate()
}

// setup loads the configuration, logger and, for the voxel world, the
// shapes dataset
func setup(cmd *cobra.Command, opts options) (experiment.Config, *zap.Logger,
	*dataset.Shapes, error) {
	c, err := loadConfig(cmd, opts)
	if err != nil {
		return c, nil, nil, err
	}

	logger, err := logging.New(c.LogLevel)
	if err != nil {
		return c, nil, nil, err
	}

	if err := os.MkdirAll(c.Output, 0o755); err != nil {
		return c, logger, nil, fmt.Errorf("setup: %w", err)
	}

	var shapes *dataset.Shapes
	if c.Environment.Environment == envconfig.VoxelWorld {
		shapes, err = dataset.Load(c.Dataset, dataset.WithLogger(logger))
		if err != nil {
			return c, logger, nil, err
		}
	}
	return c, logger, shapes, nil
}

func train(cmd *cobra.Command, opts options) error {
	c, logger, shapes, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp, env, agent, err := c.Create(shapes, experiment.WithLogger(logger),
		experiment.WithProgress(os.Stdout))
	if err != nil {
		logger.Error("could not create experiment", zap.Error(err))
		return err
	}
	logger.Info("training",
		zap.String("run", exp.RunID().String()),
		zap.String("environment", string(c.Environment.Environment)),
		zap.String("agent", string(c.Agent.Type())),
		zap.Int("episodes", c.Episodes),
		zap.Uint64("seed", c.Seed))

	err = exp.Run(ctx)
	fmt.Println()
	if errors.Is(err, context.Canceled) {
		logger.Warn("training interrupted, saving results so far",
			zap.Int("episodes", exp.Episode()))
	} else if err != nil {
		logger.Error("training failed", zap.Error(err))
		return err
	}

	if err := exp.Save(); err != nil {
		return err
	}

	model, err := c.SaveModel(agent, exp.Episode())
	if err != nil {
		return err
	}
	logger.Info("saved model", zap.String("path", model))

	progress := filepath.Join(c.Output, render.ProgressPNG)
	if err := render.Progress(progress, exp.Returns(), exp.Lengths()); err != nil {
		return err
	}

	if v, ok := wrappers.Unwrap(env).(*voxelworld.VoxelWorld); ok {
		return display(v.Scene(), c, logger)
	}
	return nil
}

func renderEnv(cmd *cobra.Command, opts options) error {
	c, logger, shapes, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer logger.Sync()

	env, _, err := c.Environment.Create(c.Seed, shapes)
	if err != nil {
		return err
	}

	switch e := wrappers.Unwrap(env).(type) {
	case *navigation.Navigation:
		return e.Render(os.Stdout, true)

	case *voxelworld.VoxelWorld:
		if opts.full {
			return display(e.Scene(), c, logger)
		}
		return e.Render(renderers(c, logger))

	default:
		return fmt.Errorf("render: cannot render %T", e)
	}
}

// display renders scene with every configured renderer
func display(scene voxel.Scene, c experiment.Config,
	logger *zap.Logger) error {
	return renderers(c, logger).Display(scene)
}

// multiRenderer displays a scene with each of its renderers
type multiRenderer []voxelworld.Renderer

func (m multiRenderer) Display(scene voxel.Scene) error {
	for _, r := range m {
		if err := r.Display(scene); err != nil {
			return err
		}
	}
	return nil
}

func renderers(c experiment.Config, logger *zap.Logger) multiRenderer {
	png := filepath.Join(c.Output, render.EnvironmentPNG)
	r := multiRenderer{render.NewPNG(png)}
	logger.Info("rendering environment", zap.String("path", png))

	if c.HTML {
		html := filepath.Join(c.Output, render.EnvironmentHTML)
		r = append(r, render.NewHTML(html))
		logger.Info("rendering environment", zap.String("path", html))
	}
	return r
}

func generate(opts options) error {
	shapes := dataset.Generate(opts.count, opts.size, opts.seed)
	if err := dataset.Save(opts.dataset, shapes); err != nil {
		return err
	}
	fmt.Printf("wrote %d images of size %d to %v\n", opts.count, opts.size,
		opts.dataset)
	return nil
}
