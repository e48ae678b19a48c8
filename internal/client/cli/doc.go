// Package cli provides the interactive gophdrive command-line client.
//
// The root command loads configuration, connects an HTTP client to the
// server and starts a REPL. Inside the REPL the user registers, logs in and
// then lists, uploads, downloads and deletes files. Session state lives in
// the HTTP client's cookie jar for as long as the process runs.
package cli
