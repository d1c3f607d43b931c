package cli

import (
	"bytes"
	// blank import for embeds
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/merizrizal/galaxyctl/pkg/collection"
	"github.com/merizrizal/galaxyctl/pkg/util/console"
	"github.com/merizrizal/galaxyctl/pkg/util/files"
)

//go:embed init-templates/galaxy.yml.tmpl
var galaxyYamlTemplate string

//go:embed init-templates/README.md.tmpl
var readmeTemplate string

//go:embed init-templates/meta/runtime.yml
var runtimeYamlContent []byte

//go:embed init-templates/plugins/README.md.tmpl
var pluginsReadmeTemplate string

var initPathFlag string

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:        "init COLLECTION",
		SuggestFor: []string{"new", "create"},
		Short:      "Scaffold a new collection skeleton",
		Args:       cobra.ExactArgs(1),
		RunE:       initCommand,
	}
	cmd.Flags().StringVar(&initPathFlag, "init-path", ".", "Directory to create the namespace/name skeleton in")
	return cmd
}

func initCommand(cmd *cobra.Command, args []string) error {
	fqcn, err := collection.ParseFQCN(args[0])
	if err != nil {
		return err
	}

	collectionDir := filepath.Join(initPathFlag, fqcn.Namespace, fqcn.Name)

	galaxyYaml, err := renderTemplate(galaxyYamlTemplate, fqcn)
	if err != nil {
		return err
	}
	readme, err := renderTemplate(readmeTemplate, fqcn)
	if err != nil {
		return err
	}
	pluginsReadme, err := renderTemplate(pluginsReadmeTemplate, fqcn)
	if err != nil {
		return err
	}

	fileContentMap := map[string][]byte{
		"galaxy.yml":        galaxyYaml,
		"README.md":         readme,
		"meta/runtime.yml":  runtimeYamlContent,
		"plugins/README.md": pluginsReadme,
	}

	for filename, content := range fileContentMap {
		filePath := filepath.Join(collectionDir, filename)
		fileExists, err := files.Exists(filePath)
		if err != nil {
			return err
		}

		if fileExists {
			console.Infof("Skipped existing %s", filename)
			continue
		}

		dirPath := filepath.Dir(filePath)
		if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
			return fmt.Errorf("Error creating directory %s: %w", dirPath, err)
		}

		if err := os.WriteFile(filePath, content, 0o644); err != nil {
			return fmt.Errorf("Error writing %s: %w", filePath, err)
		}
		console.Infof("Created %s", filePath)
	}

	for _, dir := range []string{"docs", "roles"} {
		if err := os.MkdirAll(filepath.Join(collectionDir, dir), os.ModePerm); err != nil {
			return err
		}
	}

	console.Infof("\nCollection %s created in %s", fqcn, collectionDir)
	return nil
}

func renderTemplate(text string, fqcn collection.FQCN) ([]byte, error) {
	tmpl, err := template.New("init").Parse(text)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, fqcn); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
