// Package http provides custom HTTP transport utilities,
// including request/response logging and User-Agent header injection,
// and assembles them into the transport chain used for feed and episode requests.
package http
