package tokens

// FailureKind classifies why a request carries no valid identity
type FailureKind int

const (
	// FailureNone is the zero value carried by a valid outcome
	FailureNone FailureKind = iota
	// FailureMissingCredential means no bearer token was presented
	FailureMissingCredential
	// FailureExpired means the signature is valid but the token is past its expiry
	FailureExpired
	// FailureMalformed means bad encoding, bad structure or a signature mismatch
	FailureMalformed
	// FailureUnknown covers every other verification failure
	FailureUnknown
)

// String returns a stable identifier suitable for log fields
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureMissingCredential:
		return "missing_credential"
	case FailureExpired:
		return "expired"
	case FailureMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Message returns the client-facing message for the failure.
// It never contains library error text.
func (k FailureKind) Message() string {
	switch k {
	case FailureMissingCredential:
		return "Access token is required"
	case FailureExpired:
		return "Token has expired"
	case FailureMalformed:
		return "Invalid token"
	default:
		return "Token verification failed"
	}
}

// Outcome is the result of verifying one credential: either valid claims or a failure kind
type Outcome struct {
	claims  *Claims
	failure FailureKind
	err     error
}

// Valid builds a successful outcome
func Valid(claims *Claims) Outcome {
	return Outcome{claims: claims}
}

// Invalid builds a failed outcome. err is kept for server-side diagnostics only.
func Invalid(kind FailureKind, err error) Outcome {
	if kind == FailureNone {
		kind = FailureUnknown
	}
	return Outcome{failure: kind, err: err}
}

// IsValid reports whether the outcome carries claims
func (o Outcome) IsValid() bool {
	return o.failure == FailureNone && o.claims != nil
}

// Claims returns the decoded claims of a valid outcome
func (o Outcome) Claims() (*Claims, bool) {
	if !o.IsValid() {
		return nil, false
	}
	return o.claims, true
}

// Failure returns the failure kind, FailureNone when valid
func (o Outcome) Failure() FailureKind {
	if o.IsValid() {
		return FailureNone
	}
	if o.failure == FailureNone {
		return FailureUnknown
	}
	return o.failure
}

// Err returns the underlying verification error, if any
func (o Outcome) Err() error {
	return o.err
}
