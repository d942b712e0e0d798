package service

import "github.com/pkg/errors"

// Sentinel error kinds. Callers compare with errors.Is; service.Register,
// CreateAuthenticationChallenge and VerifyAuthentication wrap these with
// github.com/pkg/errors.Wrap so a caller that wants a stack trace can
// format the returned error with "%+v".
var (
	// ErrUnknownUser is returned when a challenge is requested for a user
	// that has never registered.
	ErrUnknownUser = errors.New("service: unknown user")
	// ErrUnknownAuthID is returned when a verify references an auth_id
	// that does not exist, or has already been consumed.
	ErrUnknownAuthID = errors.New("service: unknown or already-consumed auth_id")
	// ErrAuthenticationFailed is returned when the Sigma verification
	// equations do not hold.
	ErrAuthenticationFailed = errors.New("service: authentication failed")
	// ErrDeserialization is returned when wire bytes do not decode to a
	// valid scalar or group element.
	ErrDeserialization = errors.New("service: malformed scalar or element encoding")
	// ErrConfigurationMismatch names the kind for client and server group
	// parameters that differ. Service never returns it: the service does not
	// negotiate parameters, so a mismatched client surfaces as
	// ErrDeserialization or ErrAuthenticationFailed.
	ErrConfigurationMismatch = errors.New("service: client and server group parameters differ")
	// ErrInternal covers unexpected inconsistencies, such as a failure of
	// the underlying CSPRNG.
	ErrInternal = errors.New("service: internal error")
)
