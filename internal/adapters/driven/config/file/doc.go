// Package file provides file-backed configuration adapters: a TOML
// settings store and a user-editable prompt store. Both live under the
// courseqa config directory (~/.courseqa by default).
package file
