package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/catalog"
	"github.com/prepdeck/prepdeck/internal/domain"
)

func newRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List available roles and their domains",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := buildCatalog()
			if err != nil {
				return err
			}

			for _, role := range cat.Roles() {
				fmt.Printf("%-20s %s\n", role.ID, role.Title)
				fmt.Printf("%-20s domains: %s\n", "", strings.Join(role.Domains, ", "))
			}
			return nil
		},
	}
}

// buildCatalog assembles the catalog from built-ins plus config extras.
func buildCatalog() (*catalog.Catalog, error) {
	extras := make([]domain.Role, 0, len(cfg.Catalog.ExtraRoles))
	for _, entry := range cfg.Catalog.ExtraRoles {
		extras = append(extras, domain.Role{
			ID:      entry.ID,
			Title:   entry.Title,
			Domains: entry.Domains,
		})
	}

	cat, err := catalog.New(extras...)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	return cat, nil
}
