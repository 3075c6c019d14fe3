package auth

import "go-notes-api/internal/model"

// Authorize admits identity when its role is one of allowed. Matching is exact: no
// role implies another, so a route open to both roles must list both. An empty
// allowed set admits nobody.
func Authorize(identity Identity, allowed ...model.Role) (Identity, error) {
	if identity.IsZero() {
		return Identity{}, reject(ReasonNoIdentity, nil)
	}

	for _, role := range allowed {
		if identity.Role == role {
			return identity, nil
		}
	}

	names := make([]string, 0, len(allowed))
	for _, role := range allowed {
		names = append(names, string(role))
	}

	return Identity{}, &ForbiddenError{
		Username: identity.Username,
		Role:     string(identity.Role),
		Allowed:  names,
	}
}
