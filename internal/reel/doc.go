// Package reel owns the asset writers for one contiguous time period of the
// package. A reel writer accepts in-order writes only; the global ordering
// across out-of-order producers is enforced upstream by internal/writer.
package reel
