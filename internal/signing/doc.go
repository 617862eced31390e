// Package signing manages the identity used to sign package metadata.
//
// A signer is loaded from PEM certificate and key files or generated as a
// throwaway self-signed identity when none is configured. Validity is
// checked at construction and again immediately before signing, mirroring
// the two-phase check the finalizer requires.
package signing
