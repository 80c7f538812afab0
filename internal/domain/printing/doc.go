// Package printing holds the page geometry value objects shared by the
// document renderer and its configuration.
package printing
