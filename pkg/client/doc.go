// Package client implements the HTTP transport shared by all fragen
// resource packages. It handles request construction, authentication
// headers, JSON and multipart encoding, SSE response framing, and the
// mapping of error responses to api.APIError values.
package client
