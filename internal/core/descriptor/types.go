package descriptor

// =============================================================================
// Document Names
// =============================================================================

// File names of the documents that make up a deployment's config set.
const (
	TemplateFile          = "deployment-template.yml"
	GlobalAttributesFile  = "deployment-globalattrs.yml"
	PlatformFile          = "platform.yml"
	InstrumentsFile       = "instruments.json"
	RawSensorDefsFile     = "sensor_defs-raw.json"
	ProfileSensorDefsFile = "sensor_defs-sci_profile.json"
	ManifestFile          = "sensors.txt"

	// DescriptorFile is the compiled output, written next to its inputs.
	DescriptorFile = "deployment.yml"
)

// RequiredFiles lists the input documents in the order they are loaded.
var RequiredFiles = []string{
	TemplateFile,
	GlobalAttributesFile,
	PlatformFile,
	InstrumentsFile,
	RawSensorDefsFile,
	ProfileSensorDefsFile,
	ManifestFile,
}

// =============================================================================
// Descriptor Keys
// =============================================================================

// Top-level descriptor sections.
const (
	KeyMetadata         = "metadata"
	KeyPlatform         = "platform"
	KeyInstruments      = "instruments"
	KeyNetCDFVariables  = "netcdf_variables"
	KeyProfileVariables = "profile_variables"
)

// KeySource names the raw sensor a netcdf variable is read from.
const KeySource = "source"

// Metadata keys that Compile always sets.
const (
	MetaDeployment      = "deployment"
	MetaDeploymentName  = "deployment_name"
	MetaWMOID           = "wmo_id"
	MetaWMOPlatformCode = "wmo_platform_code"
	MetaGliderName      = "glider_name"
	MetaGliderSerial    = "glider_serial"
)

// Platform keys copied into metadata.
const (
	PlatformWMOID           = "wmo_id"
	PlatformWMOPlatformCode = "wmo_platform_code"
	PlatformSerialNumber    = "serial_number"
)

// =============================================================================
// Input Types
// =============================================================================

// Document is a decoded YAML or JSON mapping.
type Document map[string]any

// Platform is the decoded platform.yml.
type Platform struct {
	Glider   string   `yaml:"glider"`
	Platform Document `yaml:"platform"`
}

// Instrument is one record of instruments.json.
type Instrument struct {
	NCVarName string   `json:"nc_var_name"`
	Attrs     Document `json:"attrs"`
}

// SensorDefinition is the canonical attribute set for one raw sensor code.
type SensorDefinition struct {
	NCVarName string   `json:"nc_var_name"`
	Attrs     Document `json:"attrs"`
}

// SensorCatalog maps raw sensor codes to their definitions.
type SensorCatalog map[string]SensorDefinition

// Inputs bundles every document a compilation reads.
type Inputs struct {
	Template         Document
	GlobalAttributes Document
	Platform         Platform
	Instruments      []Instrument
	RawSensors       SensorCatalog
	ProfileSensors   SensorCatalog
	// Manifest is the ordered list of sensor codes in the raw binary stream.
	// Duplicates are kept as found in sensors.txt.
	Manifest []string
}

// =============================================================================
// Output Types
// =============================================================================

// WarningKind classifies a degraded but recoverable compilation outcome.
type WarningKind string

const (
	// WarnNoDefinition means a manifest sensor is absent from both catalogs.
	WarnNoDefinition WarningKind = "no_definition"
	// WarnNameConflict means the sensor's variable name was already declared.
	WarnNameConflict WarningKind = "name_conflict"
)

// Warning records a manifest sensor that was handled in degraded mode.
type Warning struct {
	Kind     WarningKind
	Sensor   string
	Variable string
	Message  string
}

// Result is the outcome of a successful compilation.
type Result struct {
	Descriptor Document
	// Added lists the netcdf variables created from the manifest, in manifest order.
	Added    []string
	Warnings []Warning
}
