package web

// This file contains shared utilities used across handlers.

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/recipegrid/internal/core"
	"github.com/JonMunkholm/recipegrid/internal/web/templates"
)

// MaxFormSize caps the body of form posts and JSON requests.
const MaxFormSize = 64 * 1024

// parseSort reads the sort and dir parameters from the query string and,
// for form posts, the body. Unknown or unsortable columns yield data order.
func parseSort(r *http.Request) core.SortSpec {
	return core.ParseSort(
		strings.TrimSpace(r.FormValue("sort")),
		strings.TrimSpace(r.FormValue("dir")),
	)
}

// parsePosition parses a non-negative row position.
func parsePosition(s string) (int, error) {
	pos, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || pos < 0 {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidPosition, s)
	}
	return pos, nil
}

// tableURL is the table page address for spec, optionally carrying the
// acknowledgment to show.
func tableURL(spec core.SortSpec, action string) string {
	q := strings.TrimPrefix(templates.SortQuery(spec), "?")
	if action != "" {
		v, _ := url.ParseQuery(q)
		v.Set("ack", action)
		q = v.Encode()
	}
	if q == "" {
		return "/"
	}
	return "/?" + q
}

// redirectToTable answers a form post with 303 See Other so a browser
// reload does not repeat the post.
func redirectToTable(w http.ResponseWriter, r *http.Request, spec core.SortSpec, action string) {
	http.Redirect(w, r, tableURL(spec, action), http.StatusSeeOther)
}
