package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/merizrizal/galaxyctl/pkg/global"
	"github.com/merizrizal/galaxyctl/pkg/runlog"
	"github.com/merizrizal/galaxyctl/pkg/util/console"
)

var projectDirFlag string
var logDirectoryFlag string

var runLog *runlog.Log

func NewRootCommand() (*cobra.Command, error) {
	rootCmd := cobra.Command{
		Use:     "galaxyctl",
		Short:   "Build and install Ansible collections",
		Version: fmt.Sprintf("%s (built %s)", global.Version, global.BuildTime),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if global.Verbose {
				console.SetLevel(console.DebugLevel)
			}
			cmd.SilenceUsage = true
			return openRunLog(cmd)
		},
		SilenceErrors: true,
	}
	setPersistentFlags(&rootCmd)

	rootCmd.AddCommand(
		newBuildCommand(),
		newInstallCommand(),
		newListCommand(),
		newVerifyCommand(),
		newValidateCommand(),
		newInitCommand(),
	)

	return &rootCmd, nil
}

// Execute runs the root command and, when a session log is attached, closes
// it with the command's outcome.
func Execute() error {
	cmd, err := NewRootCommand()
	if err != nil {
		return err
	}

	err = cmd.Execute()

	if runLog != nil {
		console.SetMirror(nil)
		if closeErr := runLog.Finish(err); closeErr != nil {
			console.Warnf("Failed to close session log: %s", closeErr)
		}
	}
	return err
}

func setPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().StringVar(&logDirectoryFlag, "log-directory", "", "Also write command output to a timestamped log file in this directory (default $"+global.LogDirectoryEnv+")")
}

func addProjectDirFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&projectDirFlag, "project-dir", "D", "", "Collection directory, defaults to the directory holding galaxy.yml at or above the current one")
}

func openRunLog(cmd *cobra.Command) error {
	dir := logDirectoryFlag
	if dir == "" {
		dir = os.Getenv(global.LogDirectoryEnv)
	}
	if dir == "" || cmd.Name() == "help" {
		return nil
	}

	l, err := runlog.Open(dir, cmd.Name())
	if err != nil {
		return err
	}
	runLog = l
	console.SetMirror(l)
	console.Debugf("Session log: %s", l.Path())
	return nil
}
