// Package common contains shared constants and sentinel errors used across
// gophdrive components.
package common

// SessionCookieName is the cookie that carries the signed session token
// between the browser (or CLI client) and the server.
const SessionCookieName = "gophdrive_session"

// FilesFormField is the multipart field name that carries uploaded files.
const FilesFormField = "files"
