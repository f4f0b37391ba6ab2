package enrollment

import "strconv"

// RequireRole is the role gate predicate. Missing claims fail with
// ErrUnauthorized, a different role fails with ErrForbidden.
func RequireRole(claims AuthClaims, role Role) error {
	if claims == nil {
		return ErrUnauthorized
	}

	if !claims.HasRole(role) {
		return ErrForbidden
	}

	return nil
}

// CanAccessStudent allows admins and the student owning the resource
func CanAccessStudent(claims AuthClaims, ownerID int64) error {
	if claims == nil {
		return ErrUnauthorized
	}

	if claims.HasRole(RoleAdmin) {
		return nil
	}

	if claims.HasRole(RoleStudent) && claims.UserID() == strconv.FormatInt(ownerID, 10) {
		return nil
	}

	return ErrForbidden
}
