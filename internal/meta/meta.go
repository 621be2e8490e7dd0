// Where: cli/internal/meta/meta.go
// What: Tool identity and fixed artifact names.
// Why: Keep file names shared by the generator, the checker, and the CLI in one place.
package meta

const (
	// Tool Identity
	AppName   = "fnsdk"
	EnvPrefix = "FNSDK"

	// Project configuration
	ConfigFile = "fnsdk.yaml"

	// Generated artifacts
	FunctionFile      = "function.json"
	ArtifactsManifest = "functionsSdk.out"
	HostFile          = "host.json"
	LocalSettingsFile = "local.settings.json"

	// Function schema constants
	ConfigurationSource = "attributes"
	ScriptPlaceholder   = "dummyFunctionName"

	// Settings
	StorageSetting = "AzureWebJobsStorage"
)

// GeneratedBy returns the generatedBy marker written into every function.json.
func GeneratedBy(version string) string {
	return AppName + "-" + version
}
