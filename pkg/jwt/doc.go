// Package jwt issues and validates the bearer tokens used by the job board API.
//
// Encoding and signature checks are delegated to github.com/golang-jwt/jwt/v5;
// this package fixes the claim layout, the accepted algorithm and the error
// values callers match on.
//
// # Signing Modes
//
// RS256 is used when a PEM key file is configured. A public key alone gives a
// validation-only service. Without key files a shared secret of at least
// MinSecretLength bytes selects HS256.
//
//	svc, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "./keys/private.pem",
//	    Issuer:         "jobboard",
//	    ExpirationMins: 60,
//	})
//	token, err := svc.Sign(jwt.Claims{UserID: 7, Username: "acme", Role: "Employer"})
//	claims, err := svc.Validate(token)
//
// # Errors
//
// Validate returns one of ErrTokenExpired, ErrTokenNotYetValid,
// ErrInvalidSignature, ErrInvalidToken or ErrInvalidKey.
package jwt
