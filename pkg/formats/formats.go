// Package formats reads and writes the persisted terrain map dumps:
// heightmaps, material index maps and material weight maps.
package formats
