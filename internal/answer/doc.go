// Package answer is the HTTP client for the remote query service. It
// POSTs a single-turn question and classifies the outcome into a reply
// text or one of three failure modes: bad status, service-reported error,
// or malformed response.
package answer
