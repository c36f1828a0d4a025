package codes

import (
	"errors"

	"github.com/Norgate-AV/shoporusni/internal/arbiter"
	"github.com/Norgate-AV/shoporusni/internal/cache"
	"github.com/Norgate-AV/shoporusni/internal/stats"
)

// Process exit codes
const (
	Success            = 0
	General            = 1
	Config             = 2
	IO                 = 3
	Resolution         = 4
	InvariantViolation = 5
	Decode             = 6
)

// ErrorCodes maps exit codes to their descriptions
var ErrorCodes = map[int]string{
	Success:            "Success",
	General:            "General failure",
	Config:             "Invalid configuration",
	IO:                 "Cannot read or write the cache file",
	Resolution:         "Cannot fetch statistics and no cached copy is available",
	InvariantViolation: "Cache state was never classified",
	Decode:             "Statistics payload is malformed",
}

// ConfigError marks failures while loading or validating configuration
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for an error returned by a command
func ExitCode(err error) int {
	var (
		ioErr     *cache.IOError
		resErr    *arbiter.ResolutionError
		decodeErr *stats.DecodeError
		cfgErr    *ConfigError
	)

	switch {
	case err == nil:
		return Success
	case errors.As(err, &cfgErr):
		return Config
	case errors.As(err, &ioErr):
		return IO
	case errors.As(err, &resErr):
		return Resolution
	case errors.Is(err, arbiter.ErrInvariantViolation):
		return InvariantViolation
	case errors.As(err, &decodeErr):
		return Decode
	default:
		return General
	}
}

// IsSuccess returns true if the exit code indicates a successful run
func IsSuccess(code int) bool {
	return code == Success
}

// GetErrorMessage returns the error message for a given exit code, or a generic message if unknown
func GetErrorMessage(code int) string {
	if msg, ok := ErrorCodes[code]; ok {
		return msg
	}

	return "Unknown error"
}
