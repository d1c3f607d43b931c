package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/merizrizal/galaxyctl/pkg/archive"
	"github.com/merizrizal/galaxyctl/pkg/collection"
	"github.com/merizrizal/galaxyctl/pkg/errors"
	"github.com/merizrizal/galaxyctl/pkg/global"
	"github.com/merizrizal/galaxyctl/pkg/installer"
	"github.com/merizrizal/galaxyctl/pkg/util/console"
	"github.com/merizrizal/galaxyctl/pkg/util/files"
)

var installForce bool
var installCollectionsPath string
var installIgnoreDeps bool

func newInstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install ARCHIVE|DIR [ARCHIVE|DIR...]",
		Short: "Install collection archives",
		Long: `Install collection archives into a collections path.

Arguments are tar.gz archives produced by 'galaxyctl build'. A directory
argument holding a galaxy.yml is built to a temporary archive first, then
installed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: installCommand,
	}
	cmd.Flags().BoolVarP(&installForce, "force", "f", false, "Reinstall over an already installed collection")
	cmd.Flags().StringVarP(&installCollectionsPath, "collections-path", "p", "", "Collections path to install into (default first entry of $"+global.CollectionsPathEnv+", then ~/.ansible/collections)")
	cmd.Flags().BoolVar(&installIgnoreDeps, "ignore-dependencies", false, "Only warn when installed collections do not satisfy dependency constraints")
	return cmd
}

func installCommand(cmd *cobra.Command, args []string) error {
	paths, err := collection.Paths(installCollectionsPath)
	if err != nil {
		return err
	}
	opts := installer.Options{
		CollectionsPath: paths[0],
		Force:           installForce,
	}

	var manifests []*archive.CollectionManifest
	for _, arg := range args {
		isDir, err := files.IsDir(arg)
		if err != nil {
			return err
		}

		var manifest *archive.CollectionManifest
		if isDir {
			manifest, err = installer.InstallDir(arg, opts)
		} else {
			manifest, err = installer.Install(arg, opts)
		}
		if err != nil {
			if errors.IsAlreadyInstalled(err) {
				console.Warnf("%s", err)
				continue
			}
			return err
		}

		fqcn := collection.FQCN{
			Namespace: manifest.CollectionInfo.Namespace,
			Name:      manifest.CollectionInfo.Name,
		}
		console.Infof("Installed %s %s to %s", manifest.FQCN(), manifest.CollectionInfo.Version, collection.InstallRoot(opts.CollectionsPath, fqcn))
		manifests = append(manifests, manifest)
	}

	unmet, err := installer.CheckDependencies(paths, manifests)
	if err != nil {
		return err
	}
	if len(unmet) > 0 {
		for _, u := range unmet {
			console.Warnf("%s", u)
		}
		if !installIgnoreDeps {
			return fmt.Errorf("%d dependency constraint(s) are not satisfied", len(unmet))
		}
	}
	return nil
}
