package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder   { return b.WithSeverity(SeverityFatal) }
func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors, one per error kind of the build.

// UsageError reports a missing or invalid command line argument.
func UsageError(message string) *ErrorBuilder {
	return NewError(CategoryUsage, message).Fatal()
}

// MissingDirectory reports an absent required subdirectory of the site root.
func MissingDirectory(message string) *ErrorBuilder {
	return NewError(CategoryMissingDirectory, message).Fatal()
}

// MissingFile reports an absent required file or a content file without its config header.
func MissingFile(message string) *ErrorBuilder {
	return NewError(CategoryMissingFile, message).Fatal()
}

// ParseWarning reports a malformed entry that is skipped.
func ParseWarning(message string) *ErrorBuilder {
	return NewError(CategoryParse, message).Warning()
}

// InheritanceError reports an unknown parent template or an inheritance cycle.
func InheritanceError(message string) *ErrorBuilder {
	return NewError(CategoryInheritance, message).Fatal()
}

// IOError reports a read or write failure.
func IOError(message string) *ErrorBuilder {
	return NewError(CategoryIO, message)
}

// RenderError reports a page that cannot be assembled.
func RenderError(message string) *ErrorBuilder {
	return NewError(CategoryRender, message).Fatal()
}

// ConfigError reports an unreadable or invalid site configuration.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// HistoryError reports a build history store failure.
func HistoryError(message string) *ErrorBuilder {
	return NewError(CategoryHistory, message)
}

// InternalError reports a bug.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
