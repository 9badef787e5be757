package domain

// Role is a target position a user can practice interviewing for.
// Roles and their domain lists are immutable once registered.
type Role struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Domains []string `json:"domains"`
}

// AllowsDomain reports whether d is one of the role's permitted domains.
func (r Role) AllowsDomain(d string) bool {
	for _, v := range r.Domains {
		if v == d {
			return true
		}
	}
	return false
}
