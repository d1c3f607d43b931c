package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"

	"github.com/merizrizal/galaxyctl/pkg/archive"
	"github.com/merizrizal/galaxyctl/pkg/config"
	"github.com/merizrizal/galaxyctl/pkg/global"
	"github.com/merizrizal/galaxyctl/pkg/util/console"
)

var buildOutputPath string
var buildForce bool

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a collection archive from galaxy.yml",
		Args:  cobra.NoArgs,
		RunE:  buildCommand,
	}
	addProjectDirFlag(cmd)
	cmd.Flags().StringVar(&buildOutputPath, "output-path", "", "Directory to write the archive to (default $"+global.OutputDirEnv+", then the current directory)")
	cmd.Flags().BoolVarP(&buildForce, "force", "f", false, "Overwrite an existing archive of the same version")
	return cmd
}

func buildCommand(cmd *cobra.Command, args []string) error {
	manifest, rootDir, err := config.GetManifest(projectDirFlag)
	if err != nil {
		return err
	}

	outputDir := buildOutputPath
	if outputDir == "" {
		outputDir = os.Getenv(global.OutputDirEnv)
	}

	opts := archive.BuildOptions{
		OutputDir: outputDir,
		Force:     buildForce,
	}
	var progress *mpb.Progress
	if console.IsTTY(os.Stderr) && !global.Verbose {
		progress = mpb.New(mpb.WithOutput(os.Stderr), mpb.WithWidth(60))
		opts.Progress = progress
	}

	archivePath, err := archive.Build(rootDir, manifest, opts)
	if progress != nil {
		progress.Wait()
	}
	if err != nil {
		return err
	}

	console.Infof("\nCollection %s %s built as %s", manifest.FQCN(), manifest.Version, archivePath)
	return nil
}
