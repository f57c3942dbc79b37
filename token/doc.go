// Package token decodes the opaque bearer tokens issued by the gift finder
// login endpoint. Two encodings are tolerated: a standard three-part
// dot-separated token whose middle segment is URL-safe base64 JSON (optionally
// percent-encoded), and a single-segment base64 JSON blob. No signature
// verification happens here; the payload is advisory and the login endpoint
// remains the authority.
package token
