// Package schemas embeds the JSON Schemas used to validate smoke files.
package schemas

import _ "embed"

// SuiteSchemaJSON is the JSON Schema for suite YAML files.
//
//go:embed suite.schema.json
var SuiteSchemaJSON string
