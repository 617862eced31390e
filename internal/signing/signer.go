package signing

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"time"

	"cinepress/internal/services"
)

// Signer holds the certificate and private key used to sign the package.
type Signer struct {
	cert *x509.Certificate
	key  *rsa.PrivateKey
}

// Signature is the result of signing a byte stream.
type Signature struct {
	Algorithm  string
	Value      string
	Thumbprint string
	SignerName string
}

// Load reads a PEM certificate and RSA private key from disk.
func Load(certPath, keyPath string) (*Signer, error) {
	certRaw, err := os.ReadFile(certPath)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "signing", "load certificate", certPath, err)
	}
	keyRaw, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "signing", "load key", keyPath, err)
	}

	certBlock, _ := pem.Decode(certRaw)
	if certBlock == nil || certBlock.Type != "CERTIFICATE" {
		return nil, services.Wrap(services.ErrConfiguration, "signing", "decode certificate", "no CERTIFICATE block in "+certPath, nil)
	}
	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "signing", "parse certificate", certPath, err)
	}

	keyBlock, _ := pem.Decode(keyRaw)
	if keyBlock == nil {
		return nil, services.Wrap(services.ErrConfiguration, "signing", "decode key", "no PEM block in "+keyPath, nil)
	}
	key, err := parseRSAKey(keyBlock)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "signing", "parse key", keyPath, err)
	}

	signer := &Signer{cert: cert, key: key}
	if err := signer.Valid(); err != nil {
		return nil, err
	}
	return signer, nil
}

// GenerateSelfSigned creates a throwaway signing identity. Used when no
// certificate is configured so test and preview packages can still carry a
// structurally complete signature.
func GenerateSelfSigned(commonName string) (*Signer, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "signing", "generate key", "", err)
	}
	template := x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().AddDate(10, 0, 0),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "signing", "create certificate", "", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "signing", "parse generated certificate", "", err)
	}
	return &Signer{cert: cert, key: key}, nil
}

// Valid reports whether the signer can be used: the certificate must be
// inside its validity window and must match the private key.
func (s *Signer) Valid() error {
	if s == nil || s.cert == nil || s.key == nil {
		return services.Wrap(services.ErrConfiguration, "signing", "validate", "signer is incomplete", nil)
	}
	now := time.Now()
	if now.Before(s.cert.NotBefore) {
		return services.Wrap(services.ErrConfiguration, "signing", "validate", "certificate not yet valid", nil)
	}
	if now.After(s.cert.NotAfter) {
		return services.Wrap(services.ErrConfiguration, "signing", "validate", "certificate has expired", nil)
	}
	pub, ok := s.cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return services.Wrap(services.ErrConfiguration, "signing", "validate", "certificate key is not RSA", nil)
	}
	if pub.N.Cmp(s.key.N) != 0 {
		return services.Wrap(services.ErrConfiguration, "signing", "validate", "certificate does not match private key", nil)
	}
	return nil
}

// Sign produces an RSA PKCS#1 v1.5 signature over SHA-256 of data.
func (s *Signer) Sign(data []byte) (Signature, error) {
	if err := s.Valid(); err != nil {
		return Signature{}, err
	}
	digest := sha256.Sum256(data)
	raw, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, digest[:])
	if err != nil {
		return Signature{}, services.Wrap(services.ErrConfiguration, "signing", "sign", "", err)
	}
	thumb := sha256.Sum256(s.cert.Raw)
	return Signature{
		Algorithm:  "rsa-sha256",
		Value:      base64.StdEncoding.EncodeToString(raw),
		Thumbprint: base64.StdEncoding.EncodeToString(thumb[:]),
		SignerName: s.cert.Subject.CommonName,
	}, nil
}

// Verify checks a signature produced by Sign against this signer's
// certificate.
func (s *Signer) Verify(data []byte, sig Signature) error {
	raw, err := base64.StdEncoding.DecodeString(sig.Value)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}
	pub, ok := s.cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("certificate key is not RSA")
	}
	digest := sha256.Sum256(data)
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], raw)
}

// SubjectName returns the certificate's common name.
func (s *Signer) SubjectName() string {
	if s == nil || s.cert == nil {
		return ""
	}
	return s.cert.Subject.CommonName
}

func parseRSAKey(block *pem.Block) (*rsa.PrivateKey, error) {
	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("PKCS#8 key is not RSA")
		}
		return rsaKey, nil
	default:
		return nil, fmt.Errorf("unsupported PEM block %q", block.Type)
	}
}
