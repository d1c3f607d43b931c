package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/merizrizal/galaxyctl/pkg/config"
	"github.com/merizrizal/galaxyctl/pkg/util/console"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the galaxy.yml manifest",
		Args:  cobra.NoArgs,
		RunE:  validateCommand,
	}
	addProjectDirFlag(cmd)
	return cmd
}

func validateCommand(cmd *cobra.Command, args []string) error {
	manifest, rootDir, err := config.GetManifest(projectDirFlag)
	if err != nil {
		return err
	}
	console.Output(fmt.Sprintf("Valid galaxy.yml for %s %s in %s", manifest.FQCN(), manifest.Version, rootDir))
	return nil
}
