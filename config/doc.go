// Package config loads the JSON tuning file shared by the router and the
// capmesh command. Every field is optional; Get* methods supply defaults.
package config
