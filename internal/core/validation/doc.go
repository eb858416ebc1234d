// Package validation provides pure validation functions for compiled
// deployment descriptors.
//
// This package contains the functional core checks that run between
// compilation and writing deployment.yml. All functions are pure (no I/O,
// no side effects).
//
// # Functions
//
//   - ValidateDescriptor: Check the output contract consumed by binary conversion
//   - ValidateDeploymentNames: Check a batch of deployment names before processing
//
// # Usage
//
// The batch runner validates each descriptor before it is written:
//
//	if field, msg := validation.ValidateDescriptor(result.Descriptor); field != "" {
//	    // Skip this deployment, log field and msg
//	}
package validation
