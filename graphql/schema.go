package graphql

import (
	_ "embed"
)

//go:embed schema.graphqls
var schemaBase string

// Schema returns the read-only query schema.
func Schema() string {
	return schemaBase
}
