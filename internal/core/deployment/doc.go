// Package deployment provides pure functions for building platform payloads.
//
// This package contains the functional core logic for transforming validated
// step inputs into the shapes the Dokploy API expects. All functions are pure
// (no I/O, no side effects); internal/shell sends what they return.
//
// # Functions
//
//   - Application: Build the application payload (BuildApplicationConfig)
//   - Domain: Build the optional domain payload (BuildDomainConfig)
//   - Environment: Render the environment variable blob (BuildEnvironment)
//   - URL: Derive the public deployment URL from a domain (DeploymentURL)
//
// # Usage
//
// The deployer (internal/shell/deployer) calls these after validation and
// sends the results through the API client.
//
//	app := deployment.BuildApplicationConfig(name, ids, inputs)
//	dom := deployment.BuildDomainConfig(inputs) // nil when no domain-host
//	env, err := deployment.BuildEnvironment(inputs, fileVars)
package deployment
