package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/precheck/pkg/config"
	"github.com/arthur-debert/precheck/pkg/errors"
	"github.com/arthur-debert/precheck/pkg/gitfiles"
	"github.com/arthur-debert/precheck/pkg/logging"
	"github.com/arthur-debert/precheck/pkg/registry"
	"github.com/arthur-debert/precheck/pkg/report"
	"github.com/arthur-debert/precheck/pkg/runner"
)

var (
	runStaged   bool
	runAllFiles bool
	runParallel bool
	reportPath  string
)

var runCmd = &cobra.Command{
	Use:   "run [files...]",
	Short: "Run the configured actions against changed files",
	Long: `Run selects every configured action whose include pattern matches the
changed files and executes it in declaration order.

The file set is the explicit arguments if given, otherwise the files staged
for commit (--staged, the default), or every tracked file with --all-files.
Actions matching no files are skipped without being invoked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.run")

		cfg, reg, err := loadRegistry()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		files := args
		if len(files) == 0 {
			cwd, err := os.Getwd()
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "cannot determine working directory")
			}
			if runAllFiles {
				files, err = gitfiles.Tracked(ctx, cwd)
			} else {
				files, err = gitfiles.Staged(ctx, cwd)
			}
			if err != nil {
				return err
			}
		}

		logger.Info().
			Int("files", len(files)).
			Int("actions", reg.Len()).
			Msg("Starting run")

		selections := reg.Select(files)
		printer := report.NewPrinter(cmd.OutOrStdout(), colorMode(cfg))

		if len(selections) == 0 {
			printer.Summary(runner.Summary{})
			return nil
		}

		r := runner.New(runner.Options{
			Shell:    cfg.Settings.Shell,
			Parallel: runParallel || cfg.Settings.Parallel,
			Logger:   logging.GetLogger("runner"),
		})

		results, runErr := r.Run(ctx, selections)
		for _, res := range results {
			printer.Action(res)
		}
		sum := runner.Summarize(results)
		printer.Summary(sum)

		if reportPath != "" {
			if err := report.SaveXML(reportPath, results); err != nil {
				return err
			}
			logger.Info().Str("path", reportPath).Msg("Wrote XML report")
		}

		if runErr != nil {
			return runErr
		}
		if !sum.OK() {
			return errors.Newf(errors.ErrActionExecute, "%d of %d actions failed", sum.Failed, sum.Total)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runStaged, "staged", true, "Run against files staged for commit (default when no files are given)")
	runCmd.Flags().BoolVar(&runAllFiles, "all-files", false, "Run against every file tracked by git")
	runCmd.Flags().BoolVar(&runParallel, "parallel", false, "Allow independent non-mutating actions to run concurrently")
	runCmd.Flags().StringVar(&reportPath, "report", "", "Write a JUnit-style XML report to this path")
}

// loadRegistry loads the config document and builds the action registry
func loadRegistry() (*config.Config, *registry.Registry, error) {
	path := configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrInternal, "cannot determine working directory")
		}
		path, err = config.Discover(cwd)
		if err != nil {
			return nil, nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	reg, err := registry.New(cfg.Actions)
	if err != nil {
		return nil, nil, err
	}

	return cfg, reg, nil
}

func colorMode(cfg *config.Config) string {
	if noColor {
		return "never"
	}
	return cfg.Settings.Color
}
