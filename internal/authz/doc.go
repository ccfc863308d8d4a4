// Package authz resolves callers from bearer credentials and enforces role
// and ownership rules.
//
// A caller is either unauthenticated (nil *Identity) or authenticated with a
// role and a numeric user id. There is no transition back within a request.
//
//	gate := authz.NewGate(jwtService)
//	caller, err := gate.Resolve(token)
//	if err := authz.RequireRole(caller, model.UserRoleEmployer); err != nil {
//	    return err // ErrUnauthenticated or ErrForbidden
//	}
//	employerID, _ := authz.IdentityOf(caller)
package authz
