// Package file implements the ConfigStore port on a TOML file in the
// user's documind directory.
package file
