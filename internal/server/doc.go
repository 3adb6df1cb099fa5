// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	POST /render?format=svg|interactive|json|png|pdf|dot|wiring[&refresh=1]
//	GET  /formats
//	GET  /version
//	GET  /healthz
//
// The render body is a TOML or YAML description. The Content-Type header
// selects the decoder (anything mentioning yaml means YAML, everything else
// TOML); an explicit encoding query parameter wins over the header.
//
// Every response carries an X-Request-ID header. A request id sent by the
// client is echoed back; otherwise a UUID is generated. Errors are JSON:
//
//	{"code":"INVALID_SPEC","message":"duplicate element name \"a\"","request_id":"..."}
package server
