package config

import (
	"fmt"
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

var (
	// Galaxy namespace and collection name rules: lowercase, starts with a
	// letter, only alphanumerics and underscores, at least two characters.
	nameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]+$`)

	// Collection versions must be full semver, not a loose prefix of one.
	semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?$`)

	tagRegex = regexp.MustCompile(`^[a-z0-9]+$`)
)

// ValidateSemantics checks the constraints the schema cannot express:
// name shapes, semver, license presence and dependency specifiers.
func (m *Manifest) ValidateSemantics() error {
	problems := []string{}

	if !nameRegex.MatchString(m.Namespace) {
		problems = append(problems, fmt.Sprintf("namespace %q is invalid: must be lowercase, start with a letter and contain only letters, digits and underscores", m.Namespace))
	}
	if !nameRegex.MatchString(m.Name) {
		problems = append(problems, fmt.Sprintf("name %q is invalid: must be lowercase, start with a letter and contain only letters, digits and underscores", m.Name))
	}

	if !semverRegex.MatchString(m.Version) {
		problems = append(problems, fmt.Sprintf("version %q is not a valid semantic version (expected e.g. 1.0.0)", m.Version))
	} else if _, err := goversion.NewSemver(m.Version); err != nil {
		problems = append(problems, fmt.Sprintf("version %q is not a valid semantic version: %s", m.Version, err))
	}

	if len(m.License) == 0 && m.LicenseFile == "" {
		problems = append(problems, "one of license or license_file is required")
	}

	for _, tag := range m.Tags {
		if !tagRegex.MatchString(tag) {
			problems = append(problems, fmt.Sprintf("tag %q is invalid: tags are lowercase alphanumeric", tag))
		}
	}

	for dep, constraint := range m.Dependencies {
		parts := strings.Split(dep, ".")
		if len(parts) != 2 || !nameRegex.MatchString(parts[0]) || !nameRegex.MatchString(parts[1]) {
			problems = append(problems, fmt.Sprintf("dependency %q is not a valid collection name (expected namespace.name)", dep))
		}
		if constraint == "*" || constraint == "" {
			continue
		}
		if _, err := goversion.NewConstraint(constraint); err != nil {
			problems = append(problems, fmt.Sprintf("dependency %s has invalid version specifier %q: %s", dep, constraint, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf(errorString, strings.Join(problems, "; "))
	}
	return nil
}

// SatisfiesConstraint reports whether an installed version satisfies a
// dependency specifier from galaxy.yml. "*" and the empty string accept any
// version.
func SatisfiesConstraint(installed, constraint string) (bool, error) {
	if constraint == "*" || constraint == "" {
		return true, nil
	}
	v, err := goversion.NewSemver(installed)
	if err != nil {
		return false, err
	}
	c, err := goversion.NewConstraint(constraint)
	if err != nil {
		return false, err
	}
	return c.Check(v), nil
}
