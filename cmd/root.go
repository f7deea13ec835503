// Package cmd provides the root command and CLI setup for mutatest.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/EvanKepner/mutatest/internal/adapter"
	"github.com/EvanKepner/mutatest/internal/controller"
	m "github.com/EvanKepner/mutatest/internal/model"
)

var goFileAdapter adapter.GoFileAdapter
var fsAdapter adapter.SourceFSAdapter
var testAdapter adapter.TestRunnerAdapter
var reportStore adapter.ReportStore
var differ *controller.Differ
var ui controller.UI

// reportsOutputFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// verboseFlag drops the log level to debug.
var verboseFlag bool

// logFileFlag overrides the rotating log file location.
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	goFileAdapter = adapter.NewLocalGoFileAdapter()
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	testAdapter = adapter.NewLocalTestRunnerAdapter()
	reportStore = adapter.NewYAMLReportStore()
	differ = controller.NewDiffer(goFileAdapter, fsAdapter)
	ui = controller.NewUI(rootCmd, differ, controller.IsTTY(os.Stdout))
}

const pathsHelp = `Paths may be single Go files or directories:
  - .              scan the current directory recursively
  - ./pkg          scan one package directory
  - ./pkg/calc.go  mutate a single file`

const rootLongDescription = `Mutatest is a mutation testing tool for Go that helps you assess the quality
of your test suite by introducing small changes (mutations) to your code
and verifying that your tests catch them.

` + pathsHelp

const runLongDescription = `Run a mutation campaign for the given paths (default: current directory).

The test command must pass on unmutated code; a failing baseline aborts the
campaign. When a Go cover profile exists at the project root, only covered
lines are mutated.

` + pathsHelp

const listLongDescription = `List source files and the number of applicable mutation targets.

` + pathsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mutatest",
		Short: "Go mutation testing tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output file for the YAML campaign summary",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching pattern (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log at debug level")
	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "rotating log file location")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	if len(args) == 0 {
		return []m.Path{"."}
	}

	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
