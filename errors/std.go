package errors

import stdErrors "errors"

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool { return stdErrors.Is(err, target) }

// As finds the first error in err's chain that matches target
func As(err error, target any) bool { return stdErrors.As(err, target) }
