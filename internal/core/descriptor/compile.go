package descriptor

import (
	"fmt"
	"io"
	"log/slog"
)

// =============================================================================
// Compile
// =============================================================================

// Compile merges in into a deployment descriptor for the named deployment.
// The template in in is not modified.
//
// Warnings for degraded sensors are logged on logger and returned in the
// Result. A non-nil error means the deployment cannot be compiled; it never
// describes more than this one deployment.
func Compile(in *Inputs, deployment string, logger *slog.Logger) (*Result, error) {
	if in == nil || in.Template == nil {
		return nil, NewFieldError(TemplateFile, "", ErrMissingInput)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	doc := in.Template.Clone()

	metadata, err := section(doc, KeyMetadata)
	if err != nil {
		return nil, err
	}
	metadata = ShallowMerge(metadata, in.GlobalAttributes)
	doc[KeyMetadata] = metadata

	platform, err := section(doc, KeyPlatform)
	if err != nil {
		return nil, err
	}
	if in.Platform.Platform == nil {
		return nil, NewFieldError(PlatformFile, KeyPlatform, ErrMissingField)
	}
	doc[KeyPlatform] = ShallowMerge(platform, in.Platform.Platform)

	if err := applyPlatformMetadata(metadata, in.Platform, deployment); err != nil {
		return nil, err
	}

	doc[KeyInstruments] = BuildInstruments(in.Instruments)

	catalog := MergeSensorCatalogs(in.RawSensors, in.ProfileSensors)

	variables, err := section(doc, KeyNetCDFVariables)
	if err != nil {
		return nil, err
	}
	if variables == nil {
		variables = make(map[string]any)
	}
	added, warnings := ResolveSensors(variables, in.Manifest, catalog)
	doc[KeyNetCDFVariables] = variables

	for _, w := range warnings {
		logger.Warn(w.Message,
			"sensor", w.Sensor,
			"variable", w.Variable,
			"kind", string(w.Kind),
		)
	}
	logger.Debug("compiled deployment descriptor",
		"deployment", deployment,
		"variables", len(variables),
		"added", len(added),
		"instruments", len(in.Instruments),
	)

	return &Result{
		Descriptor: doc,
		Added:      added,
		Warnings:   warnings,
	}, nil
}

// applyPlatformMetadata copies the platform identifiers into metadata and
// stamps the deployment name. These keys always override earlier values.
func applyPlatformMetadata(metadata map[string]any, p Platform, deployment string) error {
	fields := []struct {
		meta string
		key  string
	}{
		{MetaWMOID, PlatformWMOID},
		{MetaWMOPlatformCode, PlatformWMOPlatformCode},
		{MetaGliderSerial, PlatformSerialNumber},
	}
	for _, f := range fields {
		v, ok := p.Platform[f.key]
		if !ok {
			return NewFieldError(PlatformFile, fmt.Sprintf("%s.%s", KeyPlatform, f.key), ErrMissingField)
		}
		metadata[f.meta] = v
	}
	if p.Glider == "" {
		return NewFieldError(PlatformFile, "glider", ErrMissingField)
	}
	metadata[MetaGliderName] = p.Glider
	metadata[MetaDeployment] = deployment
	metadata[MetaDeploymentName] = deployment
	return nil
}
