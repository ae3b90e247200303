package geocode

import (
	"fmt"
	"strconv"
)

const (
	embedBaseURL = "https://www.openstreetmap.org/export/embed.html"
	// bboxPadding is the half-width of the embedded map in degrees.
	bboxPadding = 0.01
)

// EmbedURL returns an OpenStreetMap iframe URL centred on c with a marker on it.
// The bounding box is min lon, min lat, max lon, max lat.
func EmbedURL(c Coordinates) string {
	return fmt.Sprintf("%s?bbox=%s%%2C%s%%2C%s%%2C%s&marker=%s%%2C%s&layer=mapnik",
		embedBaseURL,
		formatDegrees(c.Lon-bboxPadding),
		formatDegrees(c.Lat-bboxPadding),
		formatDegrees(c.Lon+bboxPadding),
		formatDegrees(c.Lat+bboxPadding),
		formatDegrees(c.Lat),
		formatDegrees(c.Lon),
	)
}

func formatDegrees(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
