// Package descriptor compiles layered glider configuration documents into a
// single deployment descriptor.
//
// This package is part of the Functional Core. All functions are pure apart
// from logging through the *slog.Logger handed to Compile; loading documents
// from disk and writing the result live in internal/shell/configset.
//
// # Precedence
//
// Compile applies its inputs in a fixed order, later steps overriding or
// extending earlier ones:
//
//  1. deployment template (deep copied, never mutated)
//  2. global attributes, shallow-merged into metadata
//  3. platform metadata, shallow-merged into platform
//  4. derived metadata (wmo ids, glider name and serial, deployment name)
//  5. instruments, replaced wholesale
//  6. raw sensor catalog overlaid by the profile catalog
//  7. sensor manifest resolved into netcdf_variables
//
// # Usage
//
//	result, err := descriptor.Compile(inputs, "ru39-20250423T1535", logger)
//	if err != nil {
//	    // fatal for this deployment only
//	}
//	for _, w := range result.Warnings {
//	    // sensors without a definition
//	}
package descriptor
