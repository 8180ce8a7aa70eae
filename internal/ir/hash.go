package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for a future algorithm change.
const (
	DomainDocument   = "woql/document/v1"
	DomainVocabulary = "woql/vocabulary/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentID computes the content-addressed ID of a query document.
// Two documents have the same ID iff their canonical JSON is identical.
func DocumentID(doc IRObject) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("DocumentID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDocument, canonical), nil
}

// VocabularyHash fingerprints a short-name -> term mapping.
func VocabularyHash(terms map[string]string) (string, error) {
	obj := make(IRObject, len(terms))
	for k, v := range terms {
		obj[k] = IRString(v)
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("VocabularyHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainVocabulary, canonical), nil
}

// MustDocumentID is like DocumentID but panics on error.
// Use only in tests or when the document is known to be valid.
func MustDocumentID(doc IRObject) string {
	id, err := DocumentID(doc)
	if err != nil {
		panic(err)
	}
	return id
}
