// ABOUTME: Navigation binding implementations for the web layer
// ABOUTME: Maps Replace/Push onto HTMX address headers or records them for redirects

package web

import (
	"net/http"
	"net/url"

	"github.com/rentnav/rentnav/internal/nav"
)

// chatURL builds the external address for a conversation id.
func chatURL(id string) string {
	return "/chat?" + nav.ParamTargetID + "=" + url.QueryEscape(id)
}

// hxBinding implements nav.Binding over HTMX response headers. The browser
// applies HX-Replace-Url/HX-Push-Url to its address bar without a reload,
// which is exactly the replace/push distinction the session manager needs.
type hxBinding struct {
	w http.ResponseWriter
}

func (b hxBinding) Replace(id string) {
	b.w.Header().Set("HX-Replace-Url", chatURL(id))
}

func (b hxBinding) Push(id string) {
	b.w.Header().Set("HX-Push-Url", chatURL(id))
}

// recorder captures binding updates during a full-page mount, where the
// address change has to be expressed as an HTTP redirect instead of a
// header.
type recorder struct {
	replaced string
	pushed   string
}

func (r *recorder) Replace(id string) { r.replaced = id }
func (r *recorder) Push(id string)    { r.pushed = id }
