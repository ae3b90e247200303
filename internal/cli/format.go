package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/arkproperty/ark/internal/application"
	"github.com/arkproperty/ark/internal/contact"
	"github.com/arkproperty/ark/internal/property"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPropertyTable prints a list of properties as a formatted table.
func printPropertyTable(out io.Writer, props []*property.Property) error {
	if len(props) == 0 {
		_, err := fmt.Fprintln(out, "No properties found.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tTITLE\tADDRESS\tPRICE\tBED\tBATH\tSQFT"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}

	for _, p := range props {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%g\t%s\n",
			shortID(p.ID), truncate(p.Title, 30), truncate(p.Address, 40),
			formatPrice(p.Price), p.Bedrooms, p.Bathrooms, humanize.Comma(p.SquareFeet)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	_, err := fmt.Fprintf(out, "\nTotal: %d properties\n", len(props))
	return err
}

// printApplicationTable prints applications under a heading. Received
// applications show the applicant's contact details.
func printApplicationTable(out io.Writer, heading string, apps []*application.Application) error {
	if _, err := fmt.Fprintf(out, "%s (%d)\n", heading, len(apps)); err != nil {
		return err
	}
	if len(apps) == 0 {
		_, err := fmt.Fprintln(out, "  none")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tPROPERTY\tEMAIL\tPHONE\tSTATUS\tSUBMITTED"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	for _, a := range apps {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, truncate(a.Title(), 30), a.Email, a.Phone, a.Status, humanize.Time(a.CreatedAt)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	return w.Flush()
}

// printMessages prints contact messages, newest first.
func printMessages(out io.Writer, msgs []*contact.Message) error {
	if len(msgs) == 0 {
		_, err := fmt.Fprintln(out, "No messages.")
		return err
	}

	for _, m := range msgs {
		if _, err := fmt.Fprintf(out, "[%s] %s <%s>\n  %s\n\n",
			humanize.Time(m.CreatedAt), m.Name, m.Email, m.Message); err != nil {
			return err
		}
	}
	return nil
}

// formatPrice formats a whole-dollar amount with a currency sign and commas.
func formatPrice(dollars int64) string {
	return "$" + humanize.Comma(dollars)
}

// shortID returns the first segment of a UUID for table display.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
