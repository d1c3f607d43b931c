package config

import (
	// blank import for embeds
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"sigs.k8s.io/yaml"
)

const errorString = `There is a problem in your galaxy.yml file.
%s.`

//go:embed data/manifest_schema_v1.0.json
var manifestSchemaV1 []byte

// Validate checks a raw galaxy.yml document against the manifest schema.
// Validating the raw document rather than the parsed struct is what catches
// unknown keys and wrongly typed values.
func Validate(yamlManifest string) error {
	jsonDoc, err := yaml.YAMLToJSON([]byte(yamlManifest))
	if err != nil {
		return fmt.Errorf(errorString, err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(manifestSchemaV1)
	dataLoader := gojsonschema.NewBytesLoader(jsonDoc)
	return validateSchema(schemaLoader, dataLoader)
}

func validateSchema(schemaLoader, dataLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		return toError(result)
	}
	return nil
}

func toError(result *gojsonschema.Result) error {
	problems := make([]string, 0, len(result.Errors()))
	for _, resultError := range result.Errors() {
		field := resultError.Field()
		if field == "(root)" {
			problems = append(problems, resultError.Description())
			continue
		}
		problems = append(problems, fmt.Sprintf("%s: %s", field, resultError.Description()))
	}
	return fmt.Errorf(errorString, strings.Join(problems, "; "))
}
