// Package localcert verifies the local certificate and key prerequisites.
//
// Verification happens before any remote interaction: the certificate and
// key produced by the external CA client must exist and be readable, with a
// distinct failure kind per condition so the caller can report precisely
// which precondition failed.
package localcert

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"time"

	cperrors "github.com/ksyq12/certpush/internal/errors"
)

// VerifyCertificate checks that the certificate file exists and is readable.
func VerifyCertificate(path string) error {
	return verify(path, cperrors.ErrCertNotFound, cperrors.ErrCertNotReadable)
}

// VerifyKey checks that the private key file exists and is readable.
func VerifyKey(path string) error {
	return verify(path, cperrors.ErrKeyNotFound, cperrors.ErrKeyNotReadable)
}

func verify(path string, notFound, notReadable error) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return notFound
		}
		return notReadable
	}
	if info.IsDir() {
		return notReadable
	}
	f, err := os.Open(path)
	if err != nil {
		return notReadable
	}
	return f.Close()
}

// Info describes the leaf certificate in a PEM file.
type Info struct {
	Subject  string
	NotAfter time.Time
}

// Expired reports whether the certificate is already past NotAfter.
func (i *Info) Expired() bool {
	return time.Now().After(i.NotAfter)
}

// Inspect parses the first certificate block in a PEM file. Callers use the
// result for advisory warnings only; a certificate the local parser rejects
// may still be acceptable to the appliance.
func Inspect(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	for block, rest := pem.Decode(data); block != nil; block, rest = pem.Decode(rest) {
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate: %w", err)
		}
		return &Info{
			Subject:  cert.Subject.CommonName,
			NotAfter: cert.NotAfter,
		}, nil
	}
	return nil, fmt.Errorf("no certificate block found in %s", path)
}
