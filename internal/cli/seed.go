package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arkproperty/ark/internal/auth"
	"github.com/arkproperty/ark/internal/property"
)

// demoListings are inserted by seed, all owned by the demo owner.
var demoListings = []property.Property{
	{
		Title:       "Harbor View Townhouse",
		Description: "Bright three-storey townhouse a short walk from the marina, with a roof terrace and private garage.",
		Price:       425000,
		Bedrooms:    3,
		Bathrooms:   2.5,
		SquareFeet:  1850,
		Address:     "12 Wharf Street, Portland, ME 04101",
	},
	{
		Title:       "Maple Grove Family Home",
		Description: "Detached four-bedroom home on a quiet cul-de-sac, close to schools and parks.",
		Price:       610000,
		Bedrooms:    4,
		Bathrooms:   3,
		SquareFeet:  2600,
		Address:     "48 Maple Grove Lane, Burlington, VT 05401",
	},
	{
		Title:       "Downtown Studio Loft",
		Description: "Open-plan loft with exposed brick and tall windows in the heart of downtown.",
		Price:       1850,
		Bedrooms:    1,
		Bathrooms:   1,
		SquareFeet:  640,
		Address:     "300 Congress Street, Boston, MA 02210",
	},
}

func newSeedCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo users and listings into the local database",
		Long: `Creates two demo accounts (owner@example.com and renter@example.com) and a few
listings owned by the first, so the site can be tried without a hosted backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), password)
		},
	}

	cmd.Flags().StringVar(&password, "password", "ark-demo", "password for the demo accounts")

	return cmd
}

func runSeed(ctx context.Context, password string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	props := property.NewRepository(database)
	existing, err := props.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Printf("Database already has %d properties; nothing to do.\n", len(existing))
		return nil
	}

	provider, err := auth.NewLocalProvider(database, localSecret())
	if err != nil {
		return err
	}

	owner, err := provider.CreateUser(ctx, "owner@example.com", password, "Demo Owner")
	if err != nil {
		return fmt.Errorf("creating owner: %w", err)
	}
	if _, err := provider.CreateUser(ctx, "renter@example.com", password, "Demo Renter"); err != nil {
		return fmt.Errorf("creating renter: %w", err)
	}

	for _, listing := range demoListings {
		p := listing
		p.OwnerID = owner.ID
		if _, err := props.Insert(ctx, &p); err != nil {
			return fmt.Errorf("inserting %q: %w", p.Title, err)
		}
	}

	fmt.Printf("✓ Seeded %d properties.\n", len(demoListings))
	fmt.Printf("  Sign in as owner@example.com or renter@example.com with password %q.\n", password)
	return nil
}
