package app

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Blackdeer1524/sortbench/src"
	"github.com/Blackdeer1524/sortbench/src/bench"
	"github.com/Blackdeer1524/sortbench/src/config"
	"github.com/Blackdeer1524/sortbench/src/pkg/utils"
)

type BenchEntrypoint struct {
	Config  config.Config
	Verbose bool
	FS      afero.Fs
	Clock   bench.Clock

	// Logger replaces the zap logger built by Init when set.
	Logger src.Logger

	runID  string
	runner *bench.Runner
	out    *bench.ResultLog
	log    src.Logger
}

func newLogger(env string, verbose bool) src.Logger {
	var cfg zap.Config
	if env == config.EnvDev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return utils.Must(cfg.Build()).Sugar()
}

func (e *BenchEntrypoint) Init(_ context.Context) error {
	if err := e.Config.Validate(); err != nil {
		return err
	}

	if e.FS == nil {
		e.FS = afero.NewOsFs()
	}

	e.runID = uuid.NewString()

	log := e.Logger
	if log == nil {
		log = newLogger(e.Config.Environment, e.Verbose)
	}

	if sugared, ok := log.(*zap.SugaredLogger); ok {
		log = sugared.With(zap.String("run_id", e.runID))
	}

	e.log = log

	opts, err := e.Config.BenchOptions()
	if err != nil {
		return err
	}

	e.runner, err = bench.NewRunner(opts, e.Clock, e.log)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}

	for _, v := range opts.Variants {
		e.log.Debugw("gap sequence", zap.String("variant", v.String()),
			zap.String("gaps", e.runner.Sequences()[v].String()))
	}

	return nil
}

func (e *BenchEntrypoint) RunID() string {
	return e.runID
}

func (e *BenchEntrypoint) Run(ctx context.Context) error {
	out, err := bench.CreateResultLog(e.FS, e.Config.Output)
	if err != nil {
		return err
	}

	e.out = out

	e.log.Infow("benchmark started",
		zap.String("output", out.Path()),
		zap.Int("trials", len(e.runner.Plan())),
		zap.Int("workers", e.Config.Workers),
		zap.String("source", e.Config.Source),
	)

	if err := e.runner.Sweep(ctx, out.Write); err != nil {
		return fmt.Errorf("BenchEntrypoint.Run sweep: %w", err)
	}

	e.log.Infow("benchmark finished", zap.Int("results", out.Lines()))

	return nil
}

// isConsoleSyncErr reports errors from fsync on a terminal or pipe, which
// zap returns for its stderr/stdout sinks.
func isConsoleSyncErr(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}

func (e *BenchEntrypoint) Close() (err error) {
	if e.out != nil {
		err = e.out.Close()
		e.out = nil
	}

	if e.log != nil {
		if err != nil {
			e.log.Errorw("failed to close result log", zap.Error(err))
		}

		logErr := e.log.Sync()
		if isConsoleSyncErr(logErr) {
			logErr = nil
		}

		if logErr != nil && err != nil {
			err = fmt.Errorf("%w, %w", err, logErr)
		} else if logErr != nil {
			err = logErr
		}
	}

	return
}
