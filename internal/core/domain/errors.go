package domain

import "go.trai.ch/zerr"

var (
	// ErrUnsupportedConfiguration is returned when a (platform, architecture, toolchain) combination
	// has no mapping for a native build tool. It is raised before any process is spawned.
	ErrUnsupportedConfiguration = zerr.New("unsupported configuration")

	// ErrProcessFailure is returned when an external build step exits with a non-zero status.
	ErrProcessFailure = zerr.New("process failure")

	// ErrInvalidConfiguration is returned when a configuration value cannot be parsed or is out of range.
	ErrInvalidConfiguration = zerr.New("invalid configuration")

	// ErrMissingInputs is returned when a task's declared inputs do not exist when it is about to run.
	ErrMissingInputs = zerr.New("declared inputs are missing")

	// ErrUndeclaredInput is returned when a task consumes a path that none of its dependencies declares.
	ErrUndeclaredInput = zerr.New("input is not declared by any dependency")

	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrDependencyFailed is returned for a task that was not run because a dependency failed.
	ErrDependencyFailed = zerr.New("dependency failed")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrStoreCreateFailed is returned when the record store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create record store directory")

	// ErrStoreReadFailed is returned when a build record cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build record")

	// ErrStoreUnmarshalFailed is returned when a build record cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build record")

	// ErrStoreMarshalFailed is returned when a build record cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build record")

	// ErrStoreWriteFailed is returned when a build record cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build record")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")
)
