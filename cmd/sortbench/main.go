package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Blackdeer1524/sortbench/src/app"
	"github.com/Blackdeer1524/sortbench/src/config"
	"github.com/Blackdeer1524/sortbench/src/gapseq"
	"github.com/Blackdeer1524/sortbench/src/rangen"
	"github.com/Blackdeer1524/sortbench/src/records"
	"github.com/Blackdeer1524/sortbench/src/shellsort"
)

type globalFlags struct {
	profile string
	envFile string
	verbose bool
}

type runFlags struct {
	minN     int
	maxN     int
	growth   int
	reps     int
	seed     int64
	out      string
	variants []string
	source   string
	workers  int
	fill     int
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "sortbench",
		Short: "Benchmark ShellSort gap sequences on fixed-width records",
		Long: `sortbench sorts arrays of 72-byte records with ShellSort under several gap
sequences and records how long each sort took.

Record contents come from a seeded MD5 byte stream, so a (size, seed) pair
always produces the same array on every platform.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.profile, "profile", "", "YAML profile with benchmark settings")
	pf.StringVar(&g.envFile, "env-file", ".env", "dotenv file with SORTBENCH_* variables")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRunCmd(g),
		newGapsCmd(),
		newRngCmd(),
		newDemoCmd(),
	)

	return root
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sweep array sizes, seeds and gap sequences and log timings",
		Long: `Runs one trial per (size, gap sequence, repetition). Sizes start at --min-n
and grow by --growth up to --max-n; repetition r uses seed --seed + r.

Each result is written to --out as
  name,count,seed,elapsed_ns,records_per_sec,ok`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(afero.NewOsFs(), g.profile, g.envFile)
			if err != nil {
				return err
			}

			applyRunFlags(cmd, f, &cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e := &app.BenchEntrypoint{Config: cfg, Verbose: g.verbose}

			if err := e.Init(ctx); err != nil {
				return err
			}

			runErr := e.Run(ctx)

			return errors.Join(runErr, e.Close())
		},
	}

	bindRunFlags(cmd, f)

	return cmd
}

func bindRunFlags(cmd *cobra.Command, f *runFlags) {
	fl := cmd.Flags()
	fl.IntVar(&f.minN, "min-n", 0, "smallest array size")
	fl.IntVar(&f.maxN, "max-n", 0, "largest array size")
	fl.IntVar(&f.growth, "growth", 0, "size multiplier between steps")
	fl.IntVar(&f.reps, "reps", 0, "repetitions per size and gap sequence")
	fl.Int64Var(&f.seed, "seed", 0, "base seed")
	fl.StringVarP(&f.out, "out", "o", "", "result log path")
	fl.StringSliceVar(&f.variants, "variants", nil, "gap sequences to run (default all)")
	fl.StringVar(&f.source, "source", "", "random source: md5 or quad")
	fl.IntVar(&f.workers, "workers", 0, "concurrent trials; keep 1 for clean timings")
	fl.IntVar(&f.fill, "fill", 0, "generated bytes per record")
}

// applyRunFlags overrides cfg with the flags given on the command line.
func applyRunFlags(cmd *cobra.Command, f *runFlags, cfg *config.Config) {
	fl := cmd.Flags()

	if fl.Changed("min-n") {
		cfg.MinRecords = f.minN
	}
	if fl.Changed("max-n") {
		cfg.MaxRecords = f.maxN
	}
	if fl.Changed("growth") {
		cfg.Growth = f.growth
	}
	if fl.Changed("reps") {
		cfg.Repetitions = f.reps
	}
	if fl.Changed("seed") {
		cfg.BaseSeed = f.seed
	}
	if fl.Changed("out") {
		cfg.Output = f.out
	}
	if fl.Changed("variants") {
		cfg.Variants = f.variants
	}
	if fl.Changed("source") {
		cfg.Source = f.source
	}
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("fill") {
		cfg.FillLen = f.fill
	}
}

func newGapsCmd() *cobra.Command {
	var names []string

	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Print the materialized gap sequences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			variants, err := gapseq.ParseVariants(names)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, v := range variants {
				seq, err := gapseq.Materialize(v)
				if err != nil {
					return err
				}

				fmt.Fprintf(w, "%s (%d gaps): %s\n", v, seq.Len(), seq)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&names, "variants", nil, "gap sequences to print (default all)")

	return cmd
}

func newRngCmd() *cobra.Command {
	var (
		seed   int64
		count  int
		source string
	)

	cmd := &cobra.Command{
		Use:   "rng",
		Short: "Print characters from the seeded record generator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 0 {
				return fmt.Errorf("count %d must not be negative", count)
			}

			src, err := rangen.NewSource(source)
			if err != nil {
				return err
			}
			src.SetSeed(seed)

			buf := make([]byte, 0, count+1)
			for i := 0; i < count; i++ {
				buf = append(buf, src.NextChar())
			}
			buf = append(buf, '\n')

			_, err = cmd.OutOrStdout().Write(buf)

			return err
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 762, "seed")
	cmd.Flags().IntVar(&count, "count", 888, "number of characters")
	cmd.Flags().StringVar(&source, "source", rangen.SourceMD5, "random source: md5 or quad")

	return cmd
}

func printArray(cmd *cobra.Command, arr *records.Array) {
	w := cmd.OutOrStdout()
	for i, r := range arr.Records {
		fmt.Fprintf(w, "%3d: %s\n", i, r)
	}
}

func newDemoCmd() *cobra.Command {
	var (
		seed int64
		n    int
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Sort a small array with Ciura's gaps and show it before and after",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			arr, err := records.Generate(n, rangen.NewGenerator(seed), records.DefaultLayout())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			fmt.Fprintln(w, "Generated array:")
			printArray(cmd, arr)

			if err := shellsort.SortArray(arr, gapseq.Of(gapseq.Prefix()...)); err != nil {
				return err
			}

			fmt.Fprintln(w, "Sorted array:")
			printArray(cmd, arr)

			if !records.CheckOrder(arr) {
				return errors.New("sorted array is out of order")
			}

			fmt.Fprintln(w, "Sorting is OK")

			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 5555, "seed")
	cmd.Flags().IntVar(&n, "n", 12, "number of records")

	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
