// Package nav defines the navigation binding between conversation threads
// and the external address: the startup query parameters a session mount
// consumes, and the replace/push operations that keep the address in sync
// with the active thread.
package nav
