// Package cmd implements the apidesk CLI commands using Cobra.
//
// Available commands:
//   - send: Execute one HTTP request and print the normalized response
//   - serve: Expose the executor over a local HTTP bridge
//   - validate: Check request documents without sending them
//   - init: Create a config file and an example request document
//   - import: Convert curl commands into request documents
//   - version: Show apidesk version information
package cmd
