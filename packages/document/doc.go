// Package document loads request documents: the saved form of a request as the
// desktop UI edits it, with toggleable headers and query parameters.
//
// Documents are JSON or YAML. They are validated against a JSON schema before
// decoding, then turned into an executor request with Document.Request.
package document
