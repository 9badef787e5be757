// Package catalog is the static registry of roles and their valid domains.
package catalog

import (
	"fmt"
	"sort"

	"github.com/prepdeck/prepdeck/internal/domain"
)

// builtins are the roles shipped with prepdeck. Order is the display order.
var builtins = []domain.Role{
	{
		ID:      "software-engineer",
		Title:   "Software Engineer",
		Domains: []string{"Frontend", "Backend", "Full Stack", "Mobile", "DevOps"},
	},
	{
		ID:      "product-manager",
		Title:   "Product Manager",
		Domains: []string{"Consumer Products", "B2B SaaS", "Mobile Apps", "Platform", "Growth"},
	},
	{
		ID:      "data-analyst",
		Title:   "Data Analyst",
		Domains: []string{"Business Intelligence", "Marketing Analytics", "Financial Analysis", "Operations", "Product Analytics"},
	},
	{
		ID:      "data-scientist",
		Title:   "Data Scientist",
		Domains: []string{"Machine Learning", "Deep Learning", "NLP", "Computer Vision", "Recommendation Systems"},
	},
	{
		ID:      "system-designer",
		Title:   "System Designer",
		Domains: []string{"Distributed Systems", "Microservices", "Scalability", "Cloud Architecture", "Database Design"},
	},
}

// Catalog maps role IDs to their definitions. It is immutable after New.
type Catalog struct {
	roles []domain.Role
	byID  map[string]domain.Role
}

// New builds a catalog from the built-in roles plus any extras. Extras may not
// collide with built-in IDs or each other.
func New(extras ...domain.Role) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]domain.Role)}

	for _, r := range builtins {
		c.roles = append(c.roles, r)
		c.byID[r.ID] = r
	}

	for _, r := range extras {
		if r.ID == "" || r.Title == "" || len(r.Domains) == 0 {
			return nil, fmt.Errorf("incomplete role definition %q", r.ID)
		}
		if _, exists := c.byID[r.ID]; exists {
			return nil, fmt.Errorf("duplicate role id %q", r.ID)
		}
		c.roles = append(c.roles, r)
		c.byID[r.ID] = r
	}

	return c, nil
}

// Roles returns all roles in display order.
func (c *Catalog) Roles() []domain.Role {
	out := make([]domain.Role, len(c.roles))
	copy(out, c.roles)
	return out
}

// Lookup returns the role with the given ID.
func (c *Catalog) Lookup(roleID string) (domain.Role, error) {
	r, ok := c.byID[roleID]
	if !ok {
		return domain.Role{}, fmt.Errorf("%w: %q", domain.ErrRoleNotFound, roleID)
	}
	return r, nil
}

// DomainsFor returns the ordered domain list for a role, or ErrRoleNotFound.
func (c *Catalog) DomainsFor(roleID string) ([]string, error) {
	r, err := c.Lookup(roleID)
	if err != nil {
		return nil, err
	}
	domains := make([]string, len(r.Domains))
	copy(domains, r.Domains)
	return domains, nil
}

// IDs returns all role IDs in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
