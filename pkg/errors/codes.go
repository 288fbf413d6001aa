package errors

// Code is a machine-readable error code following the pattern CATEGORY_XXX.
// Codes are stable once assigned: clients and dashboards key off them, so a
// condition never changes its code, and retired codes are not reused.
type Code string

// The category prefix determines the HTTP status of the response carrying the
// error (see [Error.HTTPStatus]):
//
//	VAL_xxx     - validation failures (400)
//	AUTH_xxx    - authentication failures (401)
//	AUTHZ_xxx   - authorization failures (403)
//	NF_xxx      - missing resources (404)
//	CONF_xxx    - state conflicts (409)
//	RATE_xxx    - rate limiting (429)
//	INT_xxx     - internal failures (500)
//	UNAVAIL_xxx - unavailable dependencies (503)
//	TIMEOUT_xxx - exceeded deadlines (504)
const (
	// CodeValidation indicates a general request validation failure.
	CodeValidation Code = "VAL_001"

	// CodeValidationRequired indicates a required field is missing or blank.
	CodeValidationRequired Code = "VAL_002"

	// CodeValidationRange indicates a value is outside its allowed bounds
	// (e.g., a task title longer than 500 characters).
	CodeValidationRange Code = "VAL_003"

	// CodeValidationState indicates the operation is not allowed in the
	// record's current state (e.g., updating a soft-deleted task).
	CodeValidationState Code = "VAL_004"

	// CodeAuthentication indicates a general authentication failure.
	CodeAuthentication Code = "AUTH_001"

	// CodeAuthenticationExpired indicates the bearer token has expired.
	// Surfaced with a distinct message so clients prompt a fresh sign-in
	// instead of treating the token as corrupt.
	CodeAuthenticationExpired Code = "AUTH_002"

	// CodeAuthenticationInvalid indicates the bearer token is malformed,
	// carries an invalid signature, or otherwise failed verification.
	CodeAuthenticationInvalid Code = "AUTH_003"

	// CodeAuthenticationUnknownKey indicates the token names a signing key
	// the identity provider does not publish, even after a forced key-set
	// refresh.
	CodeAuthenticationUnknownKey Code = "AUTH_004"

	// CodeAuthenticationMissingSubject indicates a token that verified
	// cryptographically but carries no subject claim, so no identity can
	// be established from it.
	CodeAuthenticationMissingSubject Code = "AUTH_005"

	// CodeAuthorization indicates a general authorization failure.
	CodeAuthorization Code = "AUTHZ_001"

	// CodeAuthorizationOwnership indicates the authenticated subject tried
	// to act on another owner's resources.
	CodeAuthorizationOwnership Code = "AUTHZ_002"

	// CodeNotFound indicates a general not-found condition.
	CodeNotFound Code = "NF_001"

	// CodeNotFoundTask indicates the requested task does not exist for the
	// resolved owner. Deliberately also returned when the task exists under
	// a different owner: cross-tenant existence is never revealed.
	CodeNotFoundTask Code = "NF_002"

	// CodeConflict indicates the operation conflicts with current state
	// (e.g., a storage constraint violation).
	CodeConflict Code = "CONF_001"

	// CodeRateLimited indicates the caller exceeded its request budget
	// for the current window.
	CodeRateLimited Code = "RATE_001"

	// CodeInternal indicates an unexpected internal failure.
	CodeInternal Code = "INT_001"

	// CodeInternalDatabase indicates a storage operation failed.
	CodeInternalDatabase Code = "INT_002"

	// CodeInternalConfiguration indicates invalid or unloadable configuration.
	CodeInternalConfiguration Code = "INT_003"

	// CodeUnavailable indicates the service is temporarily unavailable.
	CodeUnavailable Code = "UNAVAIL_001"

	// CodeUnavailableDependency indicates a dependency (identity provider
	// key-set endpoint, database, cache) is unreachable. Retryable.
	CodeUnavailableDependency Code = "UNAVAIL_002"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout Code = "TIMEOUT_001"

	// CodeTimeoutDatabase indicates a storage operation timed out.
	CodeTimeoutDatabase Code = "TIMEOUT_002"
)

// String returns the string form of the code.
func (c Code) String() string {
	return string(c)
}

// Category returns the category prefix of the code (e.g., "AUTH", "NF").
func (c Code) Category() string {
	s := string(c)
	for i, r := range s {
		if r == '_' {
			return s[:i]
		}
	}
	return s
}
