// Package testdata embeds a small sample of the LinkedIn industry codes v2
// catalog for tests across the module.
package testdata

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/crimson-sun/industry-codes/internal/model"
)

//go:embed industry_codes.json
var catalogJSON []byte

// Raw returns the embedded catalog document bytes.
func Raw() []byte {
	return catalogJSON
}

// LoadDocument parses the embedded industry_codes.json.
func LoadDocument() (*model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal(catalogJSON, &doc); err != nil {
		return nil, fmt.Errorf("parse industry_codes.json: %w", err)
	}
	return &doc, nil
}

// Records returns the embedded records, panicking on a malformed fixture.
func Records() []model.Record {
	doc, err := LoadDocument()
	if err != nil {
		panic(err)
	}
	return doc.Industries
}
