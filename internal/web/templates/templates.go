// Package templates holds the templ components that render the recipe
// table pages. The *_templ.go files are generated from the .templ sources
// with `templ generate`.
package templates

import (
	"net/url"

	"github.com/JonMunkholm/recipegrid/internal/core"
	"github.com/a-h/templ"
)

// TablePageData is everything the table page renders.
type TablePageData struct {
	View core.View

	// Ack, when set, is shown as a modal acknowledgment.
	Ack *core.Ack
}

// SortQuery returns the query string ("?sort=price&dir=asc") that selects
// spec, or "" for data order.
func SortQuery(spec core.SortSpec) string {
	if !spec.Active() {
		return ""
	}
	v := url.Values{}
	v.Set("sort", string(spec.Column))
	v.Set("dir", string(spec.Dir))
	return "?" + v.Encode()
}

// headerURL links a sortable header to the next step of f's sort cycle.
func headerURL(spec core.SortSpec, f core.Field) templ.SafeURL {
	return templ.URL("/" + SortQuery(spec.Toggle(f)))
}

// sortIndicator is appended to the header of the sorted column.
func sortIndicator(spec core.SortSpec, f core.Field) string {
	if !spec.IsSortedBy(f) {
		return ""
	}
	if spec.Dir == core.SortDesc {
		return " 🔽"
	}
	return " 🔼"
}
