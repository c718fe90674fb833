package errors

import "fmt"

// Kind classifies a provisioning failure
type Kind int

const (
	// KindUnknown is the zero Kind
	KindUnknown Kind = iota
	// KindInvalidLocation means the repository location failed validation
	KindInvalidLocation
	// KindInvalidInput means a required argument was empty or unusable
	KindInvalidInput
	// KindCloneFatal means git clone reported a fatal error
	KindCloneFatal
	// KindFilesystem means removing or inspecting the local copy failed
	KindFilesystem
	// KindRunner means the git executable could not be started
	KindRunner
)

// String returns a short label for the kind
func (k Kind) String() string {
	switch k {
	case KindInvalidLocation:
		return "invalid location"
	case KindInvalidInput:
		return "invalid input"
	case KindCloneFatal:
		return "clone fatal"
	case KindFilesystem:
		return "filesystem"
	case KindRunner:
		return "runner"
	default:
		return "unknown"
	}
}

// ExitCode returns the process exit status used for this kind
func (k Kind) ExitCode() int {
	switch k {
	case KindInvalidLocation, KindInvalidInput:
		return 2
	case KindCloneFatal:
		return 3
	case KindFilesystem:
		return 4
	case KindRunner:
		return 5
	default:
		return 1
	}
}

// ProvisionError represents an error that stopped a provisioning run
type ProvisionError struct {
	Op      string // Step that failed (clone, checkout)
	Kind    Kind   // Failure class
	Message string // Error message
	Detail  string // Raw diagnostic text, e.g. git's stderr
	Err     error  // Underlying error
}

func (e *ProvisionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// NewProvisionError creates a new ProvisionError
func NewProvisionError(op string, kind Kind, message string, err error) *ProvisionError {
	return &ProvisionError{
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// NewCloneFatalError creates a ProvisionError carrying git's raw error output
func NewCloneFatalError(location, stderr string) *ProvisionError {
	return &ProvisionError{
		Op:      "clone",
		Kind:    KindCloneFatal,
		Message: fmt.Sprintf("git reported a fatal error cloning %s", location),
		Detail:  stderr,
	}
}

// KindOf returns the Kind of the first ProvisionError in err's chain
func KindOf(err error) Kind {
	var pe *ProvisionError
	if As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// IsProvisionError checks if an error is a ProvisionError
func IsProvisionError(err error) bool {
	var pe *ProvisionError
	return As(err, &pe)
}

// IsInvalidLocation checks if the error indicates a rejected repository location
func IsInvalidLocation(err error) bool {
	return KindOf(err) == KindInvalidLocation
}

// IsCloneFatal checks if the error indicates git clone failed fatally
func IsCloneFatal(err error) bool {
	return KindOf(err) == KindCloneFatal
}

// IsFilesystem checks if the error indicates a filesystem failure
func IsFilesystem(err error) bool {
	return KindOf(err) == KindFilesystem
}

// ExitCode maps err to a process exit status. nil maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}
