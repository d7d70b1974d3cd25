// Package ntfy publishes notifications to an ntfy server.
//
// A Client is built once from an immutable Config (server URL, optional
// credential, timeout) and is safe for concurrent use. Each Publish call
// validates the Message locally, encodes it, issues exactly one HTTP request
// and maps the response to a PublishResponse or an *Error carrying a Kind that
// callers can branch on without parsing text.
//
// Messages without a file attachment are sent as a JSON envelope to the server
// root. File attachments are uploaded with PUT to the topic URL and carry the
// remaining fields in ntfy headers.
package ntfy
