package src

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/pullerize/my-main-tasks-sub000/src/model"
)

type Config struct {
	Log      model.LogConfig      `envconfig:""`
	Session  model.SessionConfig  `envconfig:""`
	Lookup   model.LookupConfig   `envconfig:""`
	Deadline model.DeadlineConfig `envconfig:""`
}

func LoadConfig() (*Config, error) {
	var config Config
	err := envconfig.Process("", &config)
	if err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %v", err)
	}

	return &config, nil
}

// LoadVocabulary reads the wizard vocabulary (roles, fallback catalogs)
// from a YAML file
func LoadVocabulary(filepath string) (*model.Vocabulary, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading vocabulary file: %v", err)
	}

	var vocab model.Vocabulary
	if err := yaml.Unmarshal(data, &vocab); err != nil {
		return nil, fmt.Errorf("error parsing vocabulary YAML: %v", err)
	}

	if len(vocab.Roles) == 0 {
		return nil, fmt.Errorf("vocabulary defines no roles")
	}

	return &vocab, nil
}
