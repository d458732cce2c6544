package workflow

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/getzep/nlu-authoring/pkg/models"
)

//go:embed travel.yaml
var defaultDefinition []byte

// Definition is the set of resources and labeled utterances that make up an
// app version.
type Definition struct {
	Intents              []string                                `yaml:"intents"               validate:"required,min=1,unique,dive,required"`
	Entities             []string                                `yaml:"entities"              validate:"unique,dive,required"`
	HierarchicalEntities []models.HierarchicalEntityCreateObject `yaml:"hierarchical_entities" validate:"unique=Name,dive"`
	ClosedLists          []models.ClosedListCreateObject         `yaml:"closed_lists"          validate:"unique=Name,dive"`
	PrebuiltEntities     []string                                `yaml:"prebuilt_entities"     validate:"unique,dive,required"`
	Utterances           []models.LabeledExample                 `yaml:"utterances"            validate:"dive"`
}

// LoadDefinition reads a definition from path, or returns the embedded travel
// agent definition when path is empty.
func LoadDefinition(path string) (*Definition, error) {
	if path == "" {
		return ParseDefinition(defaultDefinition)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition %s: %w", path, err)
	}
	return ParseDefinition(data)
}

// ParseDefinition decodes and validates a YAML definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}

	if err := validator.New().Struct(def); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}

	return &def, nil
}
