// Profiling:
// go build ./profile/churn
// ./churn run --profile mem
// go tool pprof -http=":8000" -nodefraction=0.001 ./churn mem.pprof

package main

import (
	"os"

	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "churn",
		Short: "Stress a silo store with build, swap and remove cycles",
	}
	root.AddCommand(runCmd())
	return root
}

func runCmd() *cobra.Command {
	var (
		scenarioPath string
		mode         string
		outDir       string
		verbose      bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a churn scenario",
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(level).With().Timestamp().Logger()

			sc, err := LoadScenario(scenarioPath)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = os.Getenv("SILO_PROFILE_PATH")
			}
			if outDir == "" {
				outDir = "."
			}

			var p interface{ Stop() }
			switch mode {
			case "cpu":
				p = profile.Start(profile.CPUProfile, profile.ProfilePath(outDir), profile.NoShutdownHook, profile.Quiet)
			case "mem":
				p = profile.Start(profile.MemProfileAllocs, profile.ProfilePath(outDir), profile.NoShutdownHook, profile.Quiet)
			case "":
			default:
				return eris.Errorf("unknown profile %q, want cpu or mem", mode)
			}
			summary, err := run(sc, logger)
			if p != nil {
				p.Stop()
			}
			if err != nil {
				logger.Error().Err(err).Msg("churn failed")
				return err
			}

			logger.Info().
				Int("rounds", summary.Rounds).
				Int("built", summary.Built).
				Int("swapped", summary.Swapped).
				Int("added", summary.Added).
				Int("removed", summary.Removed).
				Int("grows", summary.Grows).
				Dur("elapsed", summary.Elapsed).
				Msg("churn complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "path to a YAML scenario (defaults to $SILO_CHURN_SCENARIO or the built-in one)")
	cmd.Flags().StringVar(&mode, "profile", "", "profile to record: cpu or mem")
	cmd.Flags().StringVar(&outDir, "out", "", "profile output directory (defaults to $SILO_PROFILE_PATH or .)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every round")
	return cmd
}
