package rules

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sana-labs/recommender-cli/internal/model"
)

// yamlRule mirrors model.Rule with yaml tags. Fixture files keep the same
// field names the JSON API uses.
type yamlRule struct {
	Problem  string `yaml:"problem"`
	EO1      string `yaml:"eo1"`
	EO2      string `yaml:"eo2"`
	EO3      string `yaml:"eo3"`
	Prawtein string `yaml:"prawtein"`
	TCMWan   string `yaml:"tcm_wan"`
	Aloe     string `yaml:"aloe"`
	Merkaba  string `yaml:"merkaba"`
	Note     string `yaml:"note"`
}

// LoadYAML reads a rule fixture file. Fixtures back the in-memory source for
// local runs without a database.
func LoadYAML(path string) ([]model.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "rules: read yaml fixture")
	}

	var raw []yamlRule
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "rules: parse yaml fixture")
	}

	rules := make([]model.Rule, 0, len(raw))
	for i, y := range raw {
		rules = append(rules, model.Rule{
			ID:       int64(i + 1),
			Problem:  y.Problem,
			EO1:      y.EO1,
			EO2:      y.EO2,
			EO3:      y.EO3,
			Prawtein: y.Prawtein,
			TCMWan:   y.TCMWan,
			Aloe:     y.Aloe,
			Merkaba:  y.Merkaba,
			Note:     y.Note,
		})
	}
	return rules, nil
}
