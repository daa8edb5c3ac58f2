//go:generate go run ../build/gen-config-schema.go schema.json

// Package config embeds the generated JSON schema that the adapter validates
// its configuration files against. Regenerate schema.json with go generate
// after changing the configuration structs.
package config

import (
	_ "embed"
)

//go:embed "schema.json"
var schema []byte

func Schema() []byte {
	return schema
}
