// Package testutil contains helper builders and utilities used across tests
// to reduce boilerplate when constructing scripted participants and commands
// and asserting call ordering. These helpers are intentionally minimal and
// avoid adding third-party dependencies. They are not intended for
// production usage.
package testutil
