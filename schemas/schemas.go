// Package schemas embeds the JSON Schemas shipped with the CLI.
package schemas

import _ "embed"

// ConfigSchemaName is the file name of the configuration schema.
const ConfigSchemaName = "config.schema.json"

// ConfigSchema is the JSON Schema for configuration files.
//
//go:embed config.schema.json
var ConfigSchema string
