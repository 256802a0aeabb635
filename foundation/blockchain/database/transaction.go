package database

import (
	"crypto/ecdsa"
	"fmt"
	"math"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// MaxAmount is the largest value a single transaction can move. Keeping
// amounts within 32 bits keeps balance replay within int64.
const MaxAmount = math.MaxUint32

// Tx is a signed transfer of value between two accounts. Accounts are
// identified by their hex encoded public key.
type Tx struct {
	Sender    string `json:"sender"`    // Public key of the account sending the value.
	Receiver  string `json:"receiver"`  // Public key of the account receiving the value.
	Amount    uint64 `json:"amount"`    // Value being transferred.
	Signature string `json:"signature"` // Sender's signature over the raw bytes of the hash.
	Hash      string `json:"hash"`      // Digest of sender, receiver, amount and timestamp.
	TimeStamp uint64 `json:"timestamp"` // Seconds since the epoch the transaction was created.
}

// NewTx constructs a new unsigned transaction. A zero timestamp is replaced
// with the current time.
func NewTx(receiver string, amount uint64, timeStamp uint64) Tx {
	if timeStamp == 0 {
		timeStamp = uint64(time.Now().UTC().Unix())
	}

	return Tx{
		Receiver:  receiver,
		Amount:    amount,
		TimeStamp: timeStamp,
	}
}

// NewPrivilegedTx constructs the sender-less transaction that seeds the
// ledger at genesis. It is never accepted through transaction submission.
func NewPrivilegedTx(receiver string, amount uint64, timeStamp uint64) Tx {
	tx := Tx{
		Receiver:  receiver,
		Amount:    amount,
		TimeStamp: timeStamp,
	}
	tx.Hash = tx.CalculateHash()

	return tx
}

// Sign uses the specified private key to sign the transaction. The sender
// is set to the public key of the private key.
func (tx Tx) Sign(privateKey *ecdsa.PrivateKey) (Tx, error) {
	tx.Sender = signature.PublicKeyToAddress(privateKey.PublicKey)
	tx.Hash = tx.CalculateHash()

	sig, err := signature.Sign(tx.Hash, privateKey)
	if err != nil {
		return Tx{}, err
	}
	tx.Signature = sig

	return tx, nil
}

// CalculateHash returns the digest of the canonical fields of the transaction.
func (tx Tx) CalculateHash() string {
	return signature.Hash(fmt.Sprintf("%s%s%d%d", tx.Sender, tx.Receiver, tx.Amount, tx.TimeStamp))
}

// Digest implements the merkle Hashable interface.
func (tx Tx) Digest() string {
	return tx.Hash
}

// IsPrivileged reports whether the transaction has the shape of the
// sender-less genesis transaction.
func (tx Tx) IsPrivileged() bool {
	return tx.Sender == "" && tx.Signature == ""
}

// Validate verifies the integrity of the transaction and that it was signed
// by the sender. The sender must be a compressed lowercase public key and a
// receiver that is a public key must use the same form, so an account has
// exactly one spelling on the ledger.
func (tx Tx) Validate() error {
	if err := tx.validateIntegrity(); err != nil {
		return err
	}

	if tx.Sender == "" {
		return policyError("sender cannot be empty")
	}

	if tx.Receiver == "" {
		return policyError("receiver cannot be empty")
	}

	if tx.Sender == tx.Receiver {
		return policyError("sender and receiver cannot be the same")
	}

	if err := validateAmount(tx.Amount); err != nil {
		return err
	}

	sender, err := signature.CanonicalAddress(tx.Sender)
	if err != nil {
		return authError("invalid signature", err)
	}

	if sender != tx.Sender {
		return policyError("sender must be a compressed lowercase public key")
	}

	if receiver, err := signature.CanonicalAddress(tx.Receiver); err == nil {
		if receiver == sender {
			return policyError("sender and receiver cannot be the same")
		}
		if receiver != tx.Receiver {
			return policyError("receiver must be a compressed lowercase public key")
		}
	}

	if tx.Signature == "" {
		return authError("signature cannot be empty", nil)
	}

	if err := signature.Verify(tx.Sender, tx.Hash, tx.Signature); err != nil {
		return authError("invalid signature", err)
	}

	return nil
}

// ValidatePrivileged verifies the genesis transaction. There is no sender
// and no signature to check.
func (tx Tx) ValidatePrivileged() error {
	if err := tx.validateIntegrity(); err != nil {
		return err
	}

	if tx.Receiver == "" {
		return policyError("receiver cannot be empty")
	}

	return validateAmount(tx.Amount)
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", short(tx.Sender), short(tx.Receiver), tx.Amount)
}

// =============================================================================

func (tx Tx) validateIntegrity() error {
	if tx.Hash != tx.CalculateHash() {
		return integrityError("hash mismatch")
	}

	if _, err := signature.DecodeDigest(tx.Hash); err != nil {
		return formatError("invalid hash format", err)
	}

	return nil
}

func validateAmount(amount uint64) error {
	if amount == 0 {
		return policyError("amount must be greater than zero")
	}

	if amount > MaxAmount {
		return policyError(fmt.Sprintf("amount cannot exceed %d", uint64(MaxAmount)))
	}

	return nil
}

func short(s string) string {
	if s == "" {
		return "none"
	}
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
