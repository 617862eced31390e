// Package manifest models the signed composition playlist that ties a
// package together: title and descriptive metadata, ratings, content
// versions, the sound configuration, picture areas, and one entry per reel
// asset with its content digest.
package manifest
