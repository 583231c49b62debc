package errors

// Convenience functions for common error patterns

// Materialization errors

// InvalidEntry reports a named entity (layout, post, page, collection item)
// whose name cannot become a filename.
func InvalidEntry(kind, name, reason string) *StudioError {
	return New(CategoryInvalidEntry, SeverityFatal, "invalid "+kind+" entry").
		WithContext("kind", kind).
		WithContext("name", name).
		WithContext("reason", reason)
}

func DirectoryCreation(path string, cause error) *StudioError {
	return Wrap(cause, CategoryDirectory, SeverityFatal, "directory creation failed").
		WithContext("path", path)
}

func WriteFailed(path string, cause error) *StudioError {
	return Wrap(cause, CategoryWrite, SeverityFatal, "file write failed").
		WithContext("path", path)
}

// ConflictAborted records that the user declined to overwrite an existing target.
func ConflictAborted(path string) *StudioError {
	return New(CategoryAborted, SeverityInfo, "target exists; overwrite declined").
		WithContext("path", path)
}

// Config and input errors

func ConfigNotFound(path string) *StudioError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

// ConfigInvalid reports a configuration value that failed validation.
func ConfigInvalid(field, reason string) *StudioError {
	return New(CategoryConfig, SeverityFatal, "invalid configuration").
		WithContext("field", field).
		WithContext("reason", reason)
}

func ValidationFailed(field, reason string) *StudioError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// InvalidDocument wraps a schema or decode failure of a Site Structure Document.
func InvalidDocument(cause error) *StudioError {
	return Wrap(cause, CategoryValidation, SeverityFatal, "invalid site structure document")
}

// Collaborator errors

func BackendRequest(url string, cause error) *StudioError {
	return Wrap(cause, CategoryBackend, SeverityFatal, "backend request failed").
		WithContext("url", url)
}

func BackendUnavailable(url string, cause error) *StudioError {
	return WrapRetryable(cause, CategoryBackend, SeverityWarning, "backend unavailable").
		WithContext("url", url)
}

func BuildFailed(tool string, cause error) *StudioError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "site build failed").
		WithContext("tool", tool)
}

func RegistryError(operation string, cause error) *StudioError {
	return Wrap(cause, CategoryRegistry, SeverityError, "site registry operation failed").
		WithContext("operation", operation)
}

// Internal errors

func InternalError(message string, cause error) *StudioError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
