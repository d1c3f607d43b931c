package config

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// Manifest is the parsed form of a collection's galaxy.yml.
type Manifest struct {
	Namespace     string            `json:"namespace" yaml:"namespace"`
	Name          string            `json:"name" yaml:"name"`
	Version       string            `json:"version" yaml:"version"`
	Readme        string            `json:"readme,omitempty" yaml:"readme"`
	Authors       []string          `json:"authors,omitempty" yaml:"authors"`
	Description   string            `json:"description,omitempty" yaml:"description"`
	License       []string          `json:"license,omitempty" yaml:"license"`
	LicenseFile   string            `json:"license_file,omitempty" yaml:"license_file"`
	Tags          []string          `json:"tags,omitempty" yaml:"tags"`
	Dependencies  map[string]string `json:"dependencies,omitempty" yaml:"dependencies"`
	Repository    string            `json:"repository,omitempty" yaml:"repository"`
	Documentation string            `json:"documentation,omitempty" yaml:"documentation"`
	Homepage      string            `json:"homepage,omitempty" yaml:"homepage"`
	Issues        string            `json:"issues,omitempty" yaml:"issues"`
	BuildIgnore   []string          `json:"build_ignore,omitempty" yaml:"build_ignore"`
}

// FQCN returns the fully qualified collection name, e.g. "merizrizal.utils".
func (m *Manifest) FQCN() string {
	return m.Namespace + "." + m.Name
}

// ArchiveFilename returns the canonical archive name for this manifest,
// e.g. "merizrizal-utils-1.2.0.tar.gz".
func (m *Manifest) ArchiveFilename() string {
	return fmt.Sprintf("%s-%s-%s.tar.gz", m.Namespace, m.Name, m.Version)
}

// FromYAML parses galaxy.yml contents into a Manifest. The raw document is
// checked against the manifest schema before unmarshalling so unknown keys
// are rejected, then semantic validation runs on the result.
func FromYAML(contents []byte) (*Manifest, error) {
	if err := Validate(string(contents)); err != nil {
		return nil, err
	}

	manifest := &Manifest{}
	if err := yaml.Unmarshal(contents, manifest); err != nil {
		return nil, fmt.Errorf("Failed to parse galaxy.yml: %w", err)
	}

	if err := manifest.ValidateSemantics(); err != nil {
		return nil, err
	}

	return manifest, nil
}
