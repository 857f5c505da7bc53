// Package validation provides pure validation functions for deployment inputs.
//
// This package contains the functional core logic for checking step inputs
// before any request reaches the platform. All functions are pure: they take
// values and return values, and only internal/shell talks to the network.
//
// # Functions
//
//   - ValidateMemory, ValidateCPU: resource minimums
//   - ValidateDNSName: RFC 1123 label syntax for resource names
//   - ValidatePort, ValidateReplicas: integer ranges
//   - ValidateDomainHost: multi-label hostnames
//   - ValidateDockerImage: required image reference with an explicit tag
//   - ValidateAll: runs every check over an Inputs record and aggregates failures
//
// Every single-field validator accepts an optional value and treats nil as
// valid. ValidateDockerImage is the exception: the image is always required.
//
// # Usage
//
//	if err := validation.ValidateAll(inputs); err != nil {
//	    // err is a *ValidationErrors listing every violated field
//	}
package validation
