// Package seed provides the records every screen is mounted with
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wedding-planner-api/internal/models"
)

//go:embed seed.yaml
var defaultDocument []byte

// Data holds the seed records of every screen
type Data struct {
	Users     []models.User            `yaml:"users"`
	Vendors   []models.Vendor          `yaml:"vendors"`
	Packages  []models.Package         `yaml:"packages"`
	Checklist []models.ChecklistItem   `yaml:"checklist"`
	Guests    []models.Guest           `yaml:"guests"`
	Budget    []models.BudgetItem      `yaml:"budget"`
	Timeline  []models.TimelineEvent   `yaml:"timeline"`
	Directory []models.DirectoryVendor `yaml:"directory"`
}

// Parse decodes a seed document. Unknown keys are rejected.
func Parse(doc []byte) (*Data, error) {
	var data Data
	dec := yaml.NewDecoder(bytes.NewReader(doc))
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse seed document: %w", err)
	}
	return &data, nil
}

// Default returns a fresh copy of the embedded seed data. Callers own the
// returned slices.
func Default() *Data {
	data, err := Parse(defaultDocument)
	if err != nil {
		panic(err)
	}
	return data
}

// Load reads seed data from path, falling back to the embedded document when
// path is empty
func Load(path string) (*Data, error) {
	if path == "" {
		return Default(), nil
	}
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(doc)
}
