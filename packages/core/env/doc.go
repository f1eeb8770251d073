// Package env resolves {{name}} placeholders in request documents.
//
// Values come from .env files, --var flags and, for {{$NAME}}, the process
// environment. Unknown placeholders are left in place.
package env
