package user

// Principal is the resolved caller identity, threaded explicitly into every
// service call instead of being pulled out of ambient request state.
type Principal struct {
	ID   string
	Role Role
}

func (p Principal) IsZero() bool {
	return p.ID == ""
}

// IsManagerial reports whether the principal may act on other users' records.
func (p Principal) IsManagerial() bool {
	return p.Role == RoleManager || p.Role == RoleAdmin
}

// RequireRole resolves the identity gate: ErrUnauthenticated when no caller
// identity resolved, ErrForbidden when the caller's role is not allowed.
func RequireRole(p Principal, allowed ...Role) error {
	if p.IsZero() {
		return ErrUnauthenticated
	}
	for _, role := range allowed {
		if p.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
