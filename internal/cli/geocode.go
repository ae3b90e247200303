package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arkproperty/ark/internal/geocode"
)

func newGeocodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "geocode <address>",
		Short: "Look up the coordinates of an address",
		Long:  "Resolves an address the same way the property page does and prints its coordinates and map URL.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGeocode(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func runGeocode(ctx context.Context, address string) error {
	c := geocode.NewClient(os.Getenv("ARK_GEOCODE_URL"), os.Getenv("ARK_USER_AGENT"), 15*time.Second)

	coords, err := c.Lookup(ctx, address)
	if err != nil {
		return fmt.Errorf("geocoding %q: %w", address, err)
	}

	if isJSON() {
		return printJSON(struct {
			Address string  `json:"address"`
			Lat     float64 `json:"lat"`
			Lon     float64 `json:"lon"`
			MapURL  string  `json:"map_url"`
		}{address, coords.Lat, coords.Lon, geocode.EmbedURL(*coords)})
	}

	fmt.Printf("Address: %s\n", address)
	fmt.Printf("Lat:     %.6f\n", coords.Lat)
	fmt.Printf("Lon:     %.6f\n", coords.Lon)
	fmt.Printf("Map:     %s\n", geocode.EmbedURL(*coords))
	return nil
}
