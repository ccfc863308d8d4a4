// Package helpers provides common test utilities for HTTP-level tests.
//
// # JWT Helpers
//
// JWTHelper owns an in-memory RSA key. Its Service validates the tokens it
// generates, so it can back an authz.Gate directly:
//
//	jh := helpers.NewJWTHelper(t)
//	gate := authz.NewGate(jh.Service())
//	token := jh.GenerateToken(t, user)
//
// # Requests
//
//	rec := helpers.NewRequest(t, http.MethodPost, "/v1/jobs").
//	    WithBody(draft).
//	    WithAuth(jh, employer).
//	    Do(router)
//
// # Assertions
//
//	helpers.AssertStatus(t, rec, http.StatusCreated)
//	helpers.AssertValidationError(t, rec, "title")
//	helpers.DecodeData(t, rec, &job)
package helpers
