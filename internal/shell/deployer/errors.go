package deployer

import "errors"

var (
	// ErrProjectNotSpecified is returned when neither a project ID nor a name is given.
	ErrProjectNotSpecified = errors.New("either project-id or project-name must be provided")

	// ErrProjectNotFound is returned when the named project does not exist and auto-create is off.
	ErrProjectNotFound = errors.New("project not found")

	// ErrEnvironmentNotFound is returned when the named environment does not exist and auto-create is off.
	ErrEnvironmentNotFound = errors.New("environment not found")

	// ErrApplicationNotFound is returned when the named application does not exist and auto-create is off.
	ErrApplicationNotFound = errors.New("application not found")

	// ErrApplicationNameMissing is returned when no application name is given
	// and none can be derived from the image.
	ErrApplicationNameMissing = errors.New("application-name could not be derived from docker-image")

	// ErrUnhealthy is returned when the deployed application fails its health check.
	ErrUnhealthy = errors.New("application failed health check")
)
