// Where: cli/assets/function_schema_embed.go
// What: Embed the function.json JSON schema.
// Why: Validate generated documents against the host's expected shape before they reach disk.
package assets

import _ "embed"

// FunctionSchemaURL is the resource name the schema is registered under.
const FunctionSchemaURL = "https://fnsdk.local/schemas/function.schema.json"

//go:embed function.schema.json
var FunctionSchema []byte
