package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artpar/gliderprep/internal/core/descriptor"
)

// =============================================================================
// ValidateDescriptor Tests
// =============================================================================

func validDescriptor() descriptor.Document {
	return descriptor.Document{
		"metadata": map[string]any{"deployment": "ru39-20250423T1535"},
		"netcdf_variables": map[string]any{
			"depth": map[string]any{"source": "m_depth", "units": "m"},
			"temp":  map[string]any{"source": "sci_water_temp"},
		},
	}
}

func TestValidateDescriptor_Valid(t *testing.T) {
	field, msg := ValidateDescriptor(validDescriptor())
	assert.Empty(t, field)
	assert.Empty(t, msg)
}

func TestValidateDescriptor_MissingMetadata(t *testing.T) {
	doc := validDescriptor()
	delete(doc, "metadata")

	field, msg := ValidateDescriptor(doc)
	assert.Equal(t, "metadata", field)
	assert.Equal(t, "metadata must be a mapping", msg)
}

func TestValidateDescriptor_MissingDeployment(t *testing.T) {
	doc := validDescriptor()
	doc["metadata"] = map[string]any{"title": "x"}

	field, msg := ValidateDescriptor(doc)
	assert.Equal(t, "metadata.deployment", field)
	assert.Equal(t, "deployment is required", msg)
}

func TestValidateDescriptor_NoVariables(t *testing.T) {
	doc := validDescriptor()
	doc["netcdf_variables"] = map[string]any{}

	field, _ := ValidateDescriptor(doc)
	assert.Equal(t, "netcdf_variables", field)
}

func TestValidateDescriptor_VariablesNotMapping(t *testing.T) {
	doc := validDescriptor()
	doc["netcdf_variables"] = []any{"depth"}

	field, msg := ValidateDescriptor(doc)
	assert.Equal(t, "netcdf_variables", field)
	assert.Equal(t, "netcdf_variables must be a mapping", msg)
}

func TestValidateDescriptor_VariableWithoutSource(t *testing.T) {
	doc := validDescriptor()
	doc["netcdf_variables"].(map[string]any)["conductivity"] = map[string]any{"units": "S m-1"}

	field, msg := ValidateDescriptor(doc)
	assert.Equal(t, "netcdf_variables.conductivity.source", field)
	assert.Equal(t, "variable conductivity has no source", msg)
}

func TestValidateDescriptor_VariableNotMapping(t *testing.T) {
	doc := validDescriptor()
	doc["netcdf_variables"].(map[string]any)["broken"] = "m_depth"

	field, _ := ValidateDescriptor(doc)
	assert.Equal(t, "netcdf_variables.broken", field)
}

func TestValidateDescriptor_FirstInvalidBySortedName(t *testing.T) {
	doc := validDescriptor()
	vars := doc["netcdf_variables"].(map[string]any)
	vars["zeta"] = map[string]any{}
	vars["alpha"] = map[string]any{}

	field, _ := ValidateDescriptor(doc)
	assert.Equal(t, "netcdf_variables.alpha.source", field)
}

// =============================================================================
// ValidateDeploymentNames Tests
// =============================================================================

func TestValidateDeploymentNames_Valid(t *testing.T) {
	field, msg := ValidateDeploymentNames([]string{"ru39-20250423T1535", "ru44-20250306T0038"})
	assert.Empty(t, field)
	assert.Empty(t, msg)
}

func TestValidateDeploymentNames_Empty(t *testing.T) {
	field, msg := ValidateDeploymentNames(nil)
	assert.Equal(t, "deployments", field)
	assert.Equal(t, "at least one deployment is required", msg)
}

func TestValidateDeploymentNames_Blank(t *testing.T) {
	field, msg := ValidateDeploymentNames([]string{"ru39-20250423T1535", ""})
	assert.Equal(t, "deployments[1]", field)
	assert.Equal(t, "deployment name is required", msg)
}

func TestValidateDeploymentNames_Duplicate(t *testing.T) {
	field, msg := ValidateDeploymentNames([]string{"ru39-20250423T1535", "ru39-20250423T1535"})
	assert.Equal(t, "deployments[1]", field)
	assert.Contains(t, msg, "more than once")
}
