// Package web serves the chat UI. It is a thin presentation adapter over
// the session manager: handlers translate HTTP requests into manager
// operations and render HTMX partials from whatever the manager returns.
// Address updates flow through response headers (HX-Replace-Url,
// HX-Push-Url) or redirects for full-page mounts.
package web
