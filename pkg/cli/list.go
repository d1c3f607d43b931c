package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/merizrizal/galaxyctl/pkg/collection"
	"github.com/merizrizal/galaxyctl/pkg/global"
)

var listCollectionsPath string

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List installed collections",
		RunE:    listCommand,
		Args:    cobra.NoArgs,
		Aliases: []string{"ls"},
	}
	cmd.Flags().StringVarP(&listCollectionsPath, "collections-path", "p", "", "Collections path to scan (default $"+global.CollectionsPathEnv+", then ~/.ansible/collections)")
	return cmd
}

func listCommand(cmd *cobra.Command, args []string) error {
	paths, err := collection.Paths(listCollectionsPath)
	if err != nil {
		return err
	}

	installed, err := collection.Discover(paths)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLLECTION\tVERSION\tPATH")
	for _, c := range installed {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.String(), c.Version, c.Path)
	}
	return w.Flush()
}
