// Package signature provides helper functions for handling the ledger's
// hashing and signature needs. Keys and signatures are secp256k1.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	decredecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// DigestLength is the number of bytes in every digest produced by Hash.
const DigestLength = sha256.Size

// Set of errors returned while decoding and verifying signatures.
var (
	ErrInvalidDigest    = errors.New("invalid digest")
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrInvalidSignature = errors.New("invalid signature")
)

// =============================================================================

// Hash returns the hex encoded sha256 digest of the specified data.
func Hash(data string) string {
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// DecodeDigest converts a hex encoded digest back into its raw bytes. The
// digest must be exactly DigestLength bytes.
func DecodeDigest(digest string) ([]byte, error) {
	if len(digest) != 2*DigestLength {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidDigest, len(digest))
	}

	data, err := hex.DecodeString(digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDigest, err)
	}

	return data, nil
}

// IsDigest reports whether the string is a properly formatted digest.
func IsDigest(digest string) bool {
	_, err := DecodeDigest(digest)
	return err == nil
}

// =============================================================================

// PublicKeyToAddress converts the public key to the hex encoded compressed
// form used as an address on the ledger.
func PublicKeyToAddress(pk ecdsa.PublicKey) string {
	return hex.EncodeToString(crypto.CompressPubkey(&pk))
}

// ParseAddress decodes an address back into a public key. Both compressed
// and uncompressed encodings are accepted.
func ParseAddress(address string) (*secp256k1.PublicKey, error) {
	data, err := decodeHex(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPublicKey, err)
	}

	pk, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPublicKey, err)
	}

	return pk, nil
}

// CanonicalAddress returns the compressed lowercase hex form of the address
// without a prefix.
func CanonicalAddress(address string) (string, error) {
	pk, err := ParseAddress(address)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(pk.SerializeCompressed()), nil
}

// Sign uses the specified private key to sign the digest. The signature is
// returned hex encoded in the compact [R|S] format.
func Sign(digest string, privateKey *ecdsa.PrivateKey) (string, error) {
	data, err := DecodeDigest(digest)
	if err != nil {
		return "", err
	}

	// Sign the digest with the private key to produce a signature.
	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return "", err
	}

	// Check the public key extracted from the data and signature.
	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return "", err
	}

	rs := sig[:crypto.RecoveryIDOffset]
	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, rs) {
		return "", ErrInvalidSignature
	}

	return hex.EncodeToString(rs), nil
}

// SignDER uses the specified private key to sign the digest. The signature
// is returned hex encoded in the DER format.
func SignDER(digest string, privateKey *ecdsa.PrivateKey) (string, error) {
	data, err := DecodeDigest(digest)
	if err != nil {
		return "", err
	}

	key := secp256k1.PrivKeyFromBytes(crypto.FromECDSA(privateKey))
	sig := decredecdsa.Sign(key, data)

	return hex.EncodeToString(sig.Serialize()), nil
}

// Verify checks the signature was produced by the private key belonging to
// the address over the specified digest. Compact [R|S], [R|S|V] and DER
// encodings are supported.
func Verify(address string, digest string, sig string) error {
	publicKey, err := ParseAddress(address)
	if err != nil {
		return err
	}

	data, err := DecodeDigest(digest)
	if err != nil {
		return err
	}

	sigBytes, err := decodeHex(sig)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	if derSig, err := decredecdsa.ParseDERSignature(sigBytes); err == nil {

		// Only the low S form is valid, the same rule the compact form follows.
		if s := derSig.S(); s.IsOverHalfOrder() {
			return fmt.Errorf("%w: high s value", ErrInvalidSignature)
		}

		if !derSig.Verify(data, publicKey) {
			return ErrInvalidSignature
		}
		return nil
	}

	switch len(sigBytes) {
	case crypto.RecoveryIDOffset, crypto.SignatureLength:
		rs := sigBytes[:crypto.RecoveryIDOffset]
		if !crypto.VerifySignature(publicKey.SerializeCompressed(), data, rs) {
			return ErrInvalidSignature
		}
		return nil
	}

	return fmt.Errorf("%w: unsupported encoding of %d bytes", ErrInvalidSignature, len(sigBytes))
}

// =============================================================================

// decodeHex decodes the hex string with or without the 0x prefix.
func decodeHex(s string) ([]byte, error) {
	if s == "" {
		return nil, errors.New("empty hex string")
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return hexutil.Decode("0x" + s[2:])
	}

	return hex.DecodeString(s)
}
