// Package film describes the package being assembled: its reel layout,
// frame and sample rates, audio channel mapping, and the metadata carried
// into the signed composition playlist.
package film
