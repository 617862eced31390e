// Package frameindex persists per-frame information in SQLite.
//
// For every picture frame written to an asset the store records its offset,
// size, and content hash keyed by (reel, frame, eyes). Fake writes read the
// recorded size back, and the offload bookkeeping table tracks payloads that
// were pushed to temporary files under memory pressure.
package frameindex
