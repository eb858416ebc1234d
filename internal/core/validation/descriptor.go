package validation

import (
	"fmt"
	"sort"

	"github.com/artpar/gliderprep/internal/core/descriptor"
)

// =============================================================================
// Descriptor Validation Functions
// =============================================================================

// ValidateDescriptor checks that a compiled descriptor satisfies the contract
// binary conversion relies on: a metadata mapping naming the deployment and a
// non-empty netcdf_variables mapping where every variable has a source.
// Returns the offending field and a message, or empty strings if valid.
// Variables are checked in sorted order so the reported field is stable.
//
// Example:
//
//	field, msg := ValidateDescriptor(doc)
//	if field != "" {
//	    // Do not write deployment.yml
//	}
func ValidateDescriptor(doc descriptor.Document) (field, message string) {
	meta, ok := doc[descriptor.KeyMetadata].(map[string]any)
	if !ok {
		return descriptor.KeyMetadata, "metadata must be a mapping"
	}
	if name, _ := meta[descriptor.MetaDeployment].(string); name == "" {
		return descriptor.KeyMetadata + "." + descriptor.MetaDeployment, "deployment is required"
	}

	vars, ok := doc[descriptor.KeyNetCDFVariables].(map[string]any)
	if !ok {
		return descriptor.KeyNetCDFVariables, "netcdf_variables must be a mapping"
	}
	if len(vars) == 0 {
		return descriptor.KeyNetCDFVariables, "at least one netcdf variable is required"
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f := descriptor.KeyNetCDFVariables + "." + name
		attrs, ok := vars[name].(map[string]any)
		if !ok {
			return f, fmt.Sprintf("variable %s must be a mapping", name)
		}
		if src, _ := attrs[descriptor.KeySource].(string); src == "" {
			return f + "." + descriptor.KeySource, fmt.Sprintf("variable %s has no source", name)
		}
	}

	return "", ""
}

// ValidateDeploymentNames checks a batch of deployment names before any of
// them is processed. Names must be non-empty and unique.
func ValidateDeploymentNames(names []string) (field, message string) {
	if len(names) == 0 {
		return "deployments", "at least one deployment is required"
	}
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		f := fmt.Sprintf("deployments[%d]", i)
		if name == "" {
			return f, "deployment name is required"
		}
		if seen[name] {
			return f, fmt.Sprintf("deployment %s is listed more than once", name)
		}
		seen[name] = true
	}
	return "", ""
}
