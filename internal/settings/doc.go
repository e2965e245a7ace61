// Package settings persists the user's settings: the encrypted API
// credential, the HTTP proxy configuration and the theme preference.
//
// The schema is fixed. Values are stored per key through a Backend, either a
// single JSON document (the default) or a SQLite table. Missing or
// undecodable values fall back to their defaults so that files written by
// older or newer versions keep working.
package settings
