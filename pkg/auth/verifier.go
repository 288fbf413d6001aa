package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
)

// tracerName is the OpenTelemetry instrumentation scope name for auth spans.
const tracerName = "github.com/StricklySoft/taskhub/pkg/auth"

// maxTokenSize is the maximum accepted size for a JWT token string (8 KB).
// Tokens larger than this are rejected to prevent resource exhaustion.
const maxTokenSize = 8192

// bearerPrefix is the scheme prefix stripped from Authorization header values.
const bearerPrefix = "bearer "

// VerifierConfig holds the configuration for [Verifier].
type VerifierConfig struct {
	// JWKSURL is the provider endpoint publishing the RSA signing keys.
	// Required.
	JWKSURL string `json:"jwks_url" env:"AUTH_JWKS_URL"`

	// Issuer is the expected "iss" claim. If empty, the issuer claim is
	// not validated.
	Issuer string `json:"issuer,omitempty" env:"AUTH_ISSUER"`

	// Audience is the expected "aud" claim. If empty, the audience claim
	// is not validated.
	Audience string `json:"audience,omitempty" env:"AUTH_AUDIENCE"`

	// KeySetTTL is the time a fetched key set is cached before being
	// refreshed. Defaults to [DefaultKeySetTTL].
	KeySetTTL time.Duration `json:"key_set_ttl" env:"AUTH_KEY_SET_TTL" envDefault:"5m"`

	// ClockSkew is the maximum allowed clock difference between this
	// service and the token issuer. Must be non-negative. Defaults to
	// 30 seconds.
	ClockSkew time.Duration `json:"clock_skew" env:"AUTH_CLOCK_SKEW" envDefault:"30s"`

	// HTTPClient is the HTTP client used for fetching the key set. If nil,
	// a default client with a 10-second timeout is used.
	HTTPClient HTTPClient `json:"-"`
}

// Validate checks the configuration for logical correctness and returns a
// *[taskerr.Error] with code [taskerr.CodeValidation] if any field is invalid.
func (c *VerifierConfig) Validate() *taskerr.Error {
	if c.JWKSURL == "" {
		return taskerr.New(taskerr.CodeValidation, "auth: JWKS URL must not be empty")
	}
	if c.KeySetTTL < 0 {
		return taskerr.New(taskerr.CodeValidation, "auth: key set TTL must be non-negative")
	}
	if c.ClockSkew < 0 {
		return taskerr.New(taskerr.CodeValidation, "auth: clock skew must be non-negative")
	}
	return nil
}

// DefaultVerifierConfig returns a VerifierConfig with sensible defaults.
// JWKSURL must still be set by the caller.
func DefaultVerifierConfig() VerifierConfig {
	return VerifierConfig{
		KeySetTTL: DefaultKeySetTTL,
		ClockSkew: 30 * time.Second,
	}
}

// Verifier verifies RS256 bearer tokens against a cached JWKS and produces
// the [Identity] they represent.
//
// Verifier is safe for concurrent use by multiple goroutines.
type Verifier struct {
	config VerifierConfig
	tracer trace.Tracer
	keys   *KeySetCache
}

// NewVerifier creates a Verifier with the given configuration. The
// configuration is validated before use; an error is returned if it is
// invalid.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.KeySetTTL == 0 {
		cfg.KeySetTTL = DefaultKeySetTTL
	}

	keys, err := NewKeySetCache(cfg.JWKSURL, cfg.KeySetTTL, cfg.HTTPClient)
	if err != nil {
		return nil, err
	}

	return &Verifier{
		config: cfg,
		tracer: otel.Tracer(tracerName),
		keys:   keys,
	}, nil
}

// Verify checks the given bearer token and returns the Identity it
// represents. The raw value may carry a "Bearer " scheme prefix, which is
// stripped case-insensitively before parsing.
//
// The method performs the following steps, in order, stopping at the first
// failure:
//  1. Rejects empty and oversized tokens
//  2. Parses the token header and rejects alg "none" and missing key IDs
//  3. Resolves the signing key from the cached key set, invalidating the
//     cache and retrying once if the key ID is unknown (key rotation)
//  4. Verifies the RS256 signature
//  5. Verifies expiry and, when configured, issuer and audience
//  6. Requires a non-empty "sub" claim
//
// Returns a *[taskerr.Error] with the appropriate error code on failure.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (Identity, error) {
	ctx, span := startSpan(ctx, v.tracer, "auth.Verify")
	defer span.End()

	tokenStr := stripBearer(rawToken)
	if tokenStr == "" {
		err := taskerr.New(taskerr.CodeAuthentication, "auth: token must not be empty")
		finishSpan(span, err)
		return Identity{}, err
	}
	if len(tokenStr) > maxTokenSize {
		err := taskerr.New(taskerr.CodeAuthenticationInvalid, "auth: token exceeds maximum size")
		finishSpan(span, err)
		return Identity{}, err
	}

	kid, err := v.headerKeyID(tokenStr)
	if err != nil {
		finishSpan(span, err)
		return Identity{}, err
	}
	span.SetAttributes(attribute.String("auth.kid", kid))

	key, err := v.resolveKey(ctx, span, kid)
	if err != nil {
		finishSpan(span, err)
		return Identity{}, err
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithLeeway(v.config.ClockSkew),
	}
	if v.config.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.config.Issuer))
	}
	if v.config.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.config.Audience))
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, parserOpts...)
	if err != nil {
		classifiedErr := classifyError(err)
		finishSpan(span, classifiedErr)
		return Identity{}, classifiedErr
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		err := taskerr.New(taskerr.CodeAuthenticationInvalid, "auth: unable to extract token claims")
		finishSpan(span, err)
		return Identity{}, err
	}

	sub, _ := mc["sub"].(string)
	email, _ := mc["email"].(string)
	name, _ := mc["name"].(string)

	identity, err := NewIdentity(sub, email, name)
	if err != nil {
		finishSpan(span, err)
		return Identity{}, err
	}

	span.SetAttributes(attribute.String("auth.subject", identity.SubjectID()))
	return identity, nil
}

// headerKeyID parses the token header without verifying the signature and
// returns the key ID. The alg "none" check here is belt and braces; the
// later jwt.Parse call restricts accepted algorithms to RS256 anyway.
func (v *Verifier) headerKeyID(tokenStr string) (string, error) {
	parser := jwt.NewParser()
	unverified, _, err := parser.ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil || unverified == nil {
		return "", taskerr.New(taskerr.CodeAuthenticationInvalid, "auth: token is malformed")
	}

	algStr, _ := unverified.Header["alg"].(string)
	if strings.EqualFold(algStr, "none") {
		return "", taskerr.New(taskerr.CodeAuthenticationInvalid, "auth: algorithm 'none' is not permitted")
	}

	kid, ok := unverified.Header["kid"].(string)
	if !ok || kid == "" {
		return "", taskerr.New(taskerr.CodeAuthenticationInvalid, "auth: token header missing key ID")
	}
	return kid, nil
}

// resolveKey looks up the signing key for kid. An unknown kid triggers one
// cache invalidation and retry to pick up rotated keys; a kid still unknown
// after the refetch is rejected.
func (v *Verifier) resolveKey(ctx context.Context, span trace.Span, kid string) (*rsa.PublicKey, error) {
	key, err := v.keys.Key(ctx, kid)
	if err == nil {
		return key, nil
	}
	if !taskerr.HasCode(err, taskerr.CodeAuthenticationUnknownKey) {
		return nil, err
	}

	span.SetAttributes(attribute.Bool("auth.key_set_refetched", true))
	v.keys.Invalidate()
	return v.keys.Key(ctx, kid)
}

// stripBearer removes a leading "Bearer " scheme (case-insensitive) and
// surrounding whitespace from an Authorization header value.
func stripBearer(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) >= len(bearerPrefix) && strings.EqualFold(s[:len(bearerPrefix)], bearerPrefix) {
		s = s[len(bearerPrefix):]
	}
	return strings.TrimSpace(s)
}

// classifyError converts a JWT library error to an appropriate
// *taskerr.Error with the correct error code. If the error is already a
// *taskerr.Error, it is returned as-is.
func classifyError(err error) *taskerr.Error {
	if err == nil {
		return nil
	}

	var taskError *taskerr.Error
	if errors.As(err, &taskError) {
		return taskError
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return taskerr.Wrap(err, taskerr.CodeAuthenticationExpired, "auth: token has expired, please sign in again")
	}
	if errors.Is(err, jwt.ErrTokenMalformed) {
		return taskerr.Wrap(err, taskerr.CodeAuthenticationInvalid, "auth: token is malformed")
	}
	if errors.Is(err, jwt.ErrSignatureInvalid) {
		return taskerr.Wrap(err, taskerr.CodeAuthenticationInvalid, "auth: token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return taskerr.Wrap(err, taskerr.CodeAuthenticationInvalid, "auth: token is unverifiable")
	}
	if errors.Is(err, jwt.ErrTokenNotValidYet) {
		return taskerr.Wrap(err, taskerr.CodeAuthenticationInvalid, "auth: token is not yet valid")
	}
	if errors.Is(err, jwt.ErrTokenInvalidAudience) {
		return taskerr.Wrap(err, taskerr.CodeAuthenticationInvalid, "auth: token audience is invalid")
	}
	if errors.Is(err, jwt.ErrTokenInvalidIssuer) {
		return taskerr.Wrap(err, taskerr.CodeAuthenticationInvalid, "auth: token issuer is invalid")
	}
	if errors.Is(err, jwt.ErrTokenInvalidClaims) {
		return taskerr.Wrap(err, taskerr.CodeAuthenticationInvalid, "auth: token claims are invalid")
	}

	return taskerr.Wrap(err, taskerr.CodeAuthenticationInvalid, "auth: token verification failed")
}

// startSpan creates a new OpenTelemetry span with the given name. Returns
// the updated context and span.
func startSpan(ctx context.Context, tracer trace.Tracer, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}

// finishSpan records an error on the span if err is non-nil and sets the
// span status to Error.
func finishSpan(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
