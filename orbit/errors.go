package orbit

import "errors"

var (
	// ErrStepBudget is returned when the configured sub-step budget runs out
	// before the final output time.
	ErrStepBudget = errors.New("orbit: sub-step budget exhausted")

	// ErrUnknownScheme is returned for integration scheme names not listed
	// by Schemes.
	ErrUnknownScheme = errors.New("orbit: unknown integration scheme")
)
