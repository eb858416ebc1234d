package descriptor

import "fmt"

// =============================================================================
// Sensor Resolution
// =============================================================================

// IsAlreadyMapped reports whether any variable in variables reads from sensor,
// i.e. has a "source" field equal to sensor.
func IsAlreadyMapped(sensor string, variables map[string]any) bool {
	for _, v := range variables {
		attrs, ok := asMap(v)
		if !ok {
			continue
		}
		if src, ok := attrs[KeySource].(string); ok && src == sensor {
			return true
		}
	}
	return false
}

// ResolveSensors adds a netcdf variable to variables for every manifest sensor
// not yet represented, in manifest order, and returns the names it added.
//
// Behavior per sensor code:
//   - repeated in the manifest: skipped, the first occurrence wins
//   - already a source in variables: skipped
//   - defined in catalog: added under the definition's nc_var_name with its
//     source and the AllowedAttributes of the definition
//   - not defined: added under the sensor code with only a source, and a
//     WarnNoDefinition warning is returned
//
// A variable name that is already declared is never overwritten; the sensor
// is skipped with a WarnNameConflict warning.
func ResolveSensors(variables map[string]any, manifest []string, catalog SensorCatalog) ([]string, []Warning) {
	var added []string
	var warnings []Warning
	seen := make(map[string]bool, len(manifest))

	for _, sensor := range manifest {
		if seen[sensor] {
			continue
		}
		seen[sensor] = true

		if IsAlreadyMapped(sensor, variables) {
			continue
		}

		def, ok := catalog[sensor]
		if !ok || def.NCVarName == "" {
			if _, taken := variables[sensor]; taken {
				warnings = append(warnings, nameConflict(sensor, sensor))
				continue
			}
			variables[sensor] = map[string]any{KeySource: sensor}
			added = append(added, sensor)
			warnings = append(warnings, Warning{
				Kind:     WarnNoDefinition,
				Sensor:   sensor,
				Variable: sensor,
				Message: fmt.Sprintf("no information found for %s in %s or %s",
					sensor, RawSensorDefsFile, ProfileSensorDefsFile),
			})
			continue
		}

		if _, taken := variables[def.NCVarName]; taken {
			warnings = append(warnings, nameConflict(sensor, def.NCVarName))
			continue
		}

		entry := map[string]any{KeySource: sensor}
		AllowedAttributes.Filter(entry, def.Attrs)
		variables[def.NCVarName] = entry
		added = append(added, def.NCVarName)
	}

	return added, warnings
}

func nameConflict(sensor, name string) Warning {
	return Warning{
		Kind:     WarnNameConflict,
		Sensor:   sensor,
		Variable: name,
		Message:  fmt.Sprintf("variable %s is already declared, %s not added", name, sensor),
	}
}
