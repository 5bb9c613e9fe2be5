// Package dedupe provides submission deduplication using a time-based
// cache, so a double-submitted chat form does not send the same message
// twice within the dedupe window.
package dedupe
