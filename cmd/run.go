package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/EvanKepner/mutatest/internal/adapter"
	"github.com/EvanKepner/mutatest/internal/controller"
	"github.com/EvanKepner/mutatest/internal/domain"
	m "github.com/EvanKepner/mutatest/internal/model"
	"github.com/EvanKepner/mutatest/pkg"
)

var (
	runWhitelistFlag     []string
	runBlacklistFlag     []string
	runModeFlag          string
	runNLocationsFlag    int
	runSeedFlag          int64
	runTimeoutFactorFlag float64
	runNoCovFlag         bool
	runCovProfileFlag    string
	runSkipLiteralsFlag  bool
	runParallelFlag      int
	runTestCmdsFlag      []string
	runJournalFlag       string
	runDiffsFlag         bool
)

// runCampaign is swapped in tests.
var runCampaign = executeCampaign

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run a mutation campaign",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := domain.Config{
				Paths:           parsePaths(args),
				Exclude:         viper.GetStringSlice(excludeConfigKey),
				TestCmds:        viper.GetStringSlice(testCmdsKey),
				Whitelist:       viper.GetStringSlice(whitelistKey),
				Blacklist:       viper.GetStringSlice(blacklistKey),
				Mode:            domain.RunMode(viper.GetString(modeKey)),
				NLocations:      viper.GetInt(nLocationsKey),
				TimeoutFactor:   viper.GetFloat64(timeoutFactorKey),
				DisableCoverage: viper.GetBool(noCoverageKey),
				CoverageProfile: m.Path(viper.GetString(coverageProfileKey)),
				SkipLiterals:    viper.GetBool(skipLiteralsKey),
				Workers:         viper.GetInt(runParallelKey),
				OutputPath:      m.Path(viper.GetString(outputFlagName)),
				JournalPath:     m.Path(viper.GetString(journalKey)),
			}

			// A seed is only fixed when the flag is given; otherwise every
			// campaign draws its own.
			if cmd.Flags().Changed("seed") {
				seed := runSeedFlag
				cfg.Seed = &seed
			}

			return runCampaign(cmd, cfg, runDiffsFlag)
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&runWhitelistFlag, "whitelist", "w", viper.GetStringSlice(whitelistKey), "only mutate these category codes")
	bindFlagToConfig(cmd.Flags().Lookup("whitelist"), whitelistKey)

	cmd.Flags().StringSliceVarP(&runBlacklistFlag, "blacklist", "b", viper.GetStringSlice(blacklistKey), "never mutate these category codes")
	bindFlagToConfig(cmd.Flags().Lookup("blacklist"), blacklistKey)

	cmd.Flags().StringVarP(&runModeFlag, "mode", "m", viper.GetString(modeKey), "run mode: f, s, d or sd")
	bindFlagToConfig(cmd.Flags().Lookup("mode"), modeKey)

	cmd.Flags().IntVarP(&runNLocationsFlag, "nlocations", "n", viper.GetInt(nLocationsKey), "number of locations to sample (0 = all)")
	bindFlagToConfig(cmd.Flags().Lookup("nlocations"), nLocationsKey)

	cmd.Flags().Int64Var(&runSeedFlag, "seed", 0, "random seed for location sampling")

	cmd.Flags().Float64VarP(&runTimeoutFactorFlag, "timeout-factor", "t", viper.GetFloat64(timeoutFactorKey), "trial timeout as a multiple of the clean-trial runtime")
	bindFlagToConfig(cmd.Flags().Lookup("timeout-factor"), timeoutFactorKey)

	cmd.Flags().BoolVar(&runNoCovFlag, "nocov", viper.GetBool(noCoverageKey), "ignore coverage and mutate all targets")
	bindFlagToConfig(cmd.Flags().Lookup("nocov"), noCoverageKey)

	cmd.Flags().StringVar(&runCovProfileFlag, "coverage-profile", viper.GetString(coverageProfileKey), "cover profile location relative to the project root")
	bindFlagToConfig(cmd.Flags().Lookup("coverage-profile"), coverageProfileKey)

	cmd.Flags().BoolVar(&runSkipLiteralsFlag, "skip-literals", viper.GetBool(skipLiteralsKey), "do not mutate literal values")
	bindFlagToConfig(cmd.Flags().Lookup("skip-literals"), skipLiteralsKey)

	cmd.Flags().IntVarP(&runParallelFlag, "parallel", "p", viper.GetInt(runParallelKey), "number of parallel trial workers")
	bindFlagToConfig(cmd.Flags().Lookup("parallel"), runParallelKey)

	cmd.Flags().StringSliceVar(&runTestCmdsFlag, "testcmds", viper.GetStringSlice(testCmdsKey), "test command run for the baseline and every trial")
	bindFlagToConfig(cmd.Flags().Lookup("testcmds"), testCmdsKey)

	cmd.Flags().StringVar(&runJournalFlag, "journal", viper.GetString(journalKey), "journal file receiving results as they complete")
	bindFlagToConfig(cmd.Flags().Lookup("journal"), journalKey)

	cmd.Flags().BoolVar(&runDiffsFlag, "diffs", false, "show unified diffs for surviving mutants")
}

func executeCampaign(cmd *cobra.Command, cfg domain.Config, showDiffs bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	trials := domain.NewTrialController(cfg, goFileAdapter, fsAdapter, testAdapter, adapter.NewCoverProfileAdapter())

	if cfg.JournalPath != "" {
		journal, err := pkg.NewJournal[m.TrialResult](string(cfg.JournalPath))
		if err != nil {
			return fmt.Errorf("opening journal: %w", err)
		}

		defer func() {
			if err := journal.Close(); err != nil {
				slog.Warn("closing journal failed", "path", cfg.JournalPath, "error", err)
			}
		}()

		trials.Journal = journal
	}

	var options []controller.StartOption
	if showDiffs {
		options = append(options, controller.WithDiffs())
	}

	if err := ui.Start(ctx, options...); err != nil {
		return err
	}

	defer ui.Close(ctx)

	ui.DisplayCampaignInfo(ctx, cfg.Paths, cfg.Workers, string(cfg.Mode))

	trials.Progress = func(completed, total int, result m.TrialResult) {
		ui.DisplayTrialResult(ctx, completed, total, result)
	}

	summary, err := trials.Run(ctx)
	if err != nil {
		return err
	}

	if err := ui.DisplaySummary(ctx, summary); err != nil {
		return err
	}

	if cfg.OutputPath != "" {
		if err := reportStore.SaveSummary(cfg.OutputPath, summary); err != nil {
			return fmt.Errorf("saving summary: %w", err)
		}
	}

	ui.Wait(ctx)

	return nil
}
