package web

import (
	"html/template"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/arkproperty/ark/internal/application"
)

var funcMap = template.FuncMap{
	"formatPrice":  tmplFormatPrice,
	"formatNumber": humanize.Comma,
	"formatBaths":  tmplFormatBaths,
	"formatDate":   tmplFormatDate,
	"timeAgo":      humanize.Time,
	"statusClass":  tmplStatusClass,
	"capitalize":   capitalize,
}

func tmplFormatPrice(p int64) string {
	return "$" + humanize.Comma(p)
}

func tmplFormatBaths(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func tmplFormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func tmplStatusClass(s application.Status) string {
	switch s {
	case application.StatusApproved:
		return "status-approved"
	case application.StatusRejected:
		return "status-rejected"
	default:
		return "status-pending"
	}
}

// capitalize upper-cases the first letter of s.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
