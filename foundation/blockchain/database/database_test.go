package database_test

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	kennedyKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	pavelKey   = "9f332e3700d8fc2446eaf6d15034cf96e0c2745e40353deef032a5dbf1dfed93"
)

func address(t *testing.T, hexKey string) string {
	pk, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to load the private key: %s", failed, err)
	}
	return signature.PublicKeyToAddress(pk.PublicKey)
}

func signedTx(t *testing.T, fromKey string, to string, amount uint64) database.Tx {
	pk, err := crypto.HexToECDSA(fromKey)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to load the private key: %s", failed, err)
	}

	tx, err := database.NewTx(to, amount, 1688300000).Sign(pk)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to sign the transaction: %s", failed, err)
	}

	return tx
}

func signatureOver(t *testing.T, hexKey string, data string) string {
	pk, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to load the private key: %s", failed, err)
	}

	sig, err := signature.Sign(signature.Hash(data), pk)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to sign the data: %s", failed, err)
	}

	return sig
}

func expectKind(t *testing.T, err error, kind error, reason string) {
	t.Helper()

	if !errors.Is(err, kind) {
		t.Fatalf("\t%s\tShould get a %v for %s, got %v", failed, kind, reason, err)
	}
	if !strings.Contains(err.Error(), reason) {
		t.Fatalf("\t%s\tShould get the reason %q, got %q", failed, reason, err)
	}
	t.Logf("\t%s\tShould get a %v for %s.", success, kind, reason)
}

// =============================================================================

func TestTxValidate(t *testing.T) {
	pavel := address(t, pavelKey)

	t.Log("Given the need to validate signed transactions.")
	{
		tx := signedTx(t, kennedyKey, pavel, 10)
		if err := tx.Validate(); err != nil {
			t.Fatalf("\t%s\tShould be able to validate a signed transaction: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to validate a signed transaction.", success)

		pk, _ := crypto.HexToECDSA(kennedyKey)
		der := tx
		der.Signature, _ = signature.SignDER(tx.Hash, pk)
		if err := der.Validate(); err != nil {
			t.Fatalf("\t%s\tShould be able to validate a DER signed transaction: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to validate a DER signed transaction.", success)
	}
}

func TestTxTamper(t *testing.T) {
	pavel := address(t, pavelKey)
	kennedy := address(t, kennedyKey)

	type table struct {
		name   string
		tamper func(tx *database.Tx)
		kind   error
		reason string
	}

	tt := []table{
		{name: "sender", tamper: func(tx *database.Tx) { tx.Sender = pavel + "00" }, kind: database.ErrIntegrity, reason: "hash mismatch"},
		{name: "receiver", tamper: func(tx *database.Tx) { tx.Receiver = kennedy }, kind: database.ErrIntegrity, reason: "hash mismatch"},
		{name: "amount", tamper: func(tx *database.Tx) { tx.Amount++ }, kind: database.ErrIntegrity, reason: "hash mismatch"},
		{name: "timestamp", tamper: func(tx *database.Tx) { tx.TimeStamp++ }, kind: database.ErrIntegrity, reason: "hash mismatch"},
		{name: "hash", tamper: func(tx *database.Tx) { tx.Hash = strings.Repeat("0", 64) }, kind: database.ErrIntegrity, reason: "hash mismatch"},
		{name: "signature", tamper: func(tx *database.Tx) { tx.Signature = signatureOver(t, kennedyKey, "other data") }, kind: database.ErrAuth, reason: "invalid signature"},
		{name: "rehashed amount", tamper: func(tx *database.Tx) { tx.Amount = 1_000_000; tx.Hash = tx.CalculateHash() }, kind: database.ErrAuth, reason: "invalid signature"},
	}

	t.Log("Given the need to detect tampered transactions.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen changing the %s.", testID, tst.name)
			{
				f := func(t *testing.T) {
					tx := signedTx(t, kennedyKey, pavel, 10)
					tst.tamper(&tx)
					expectKind(t, tx.Validate(), tst.kind, tst.reason)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestTxPolicy(t *testing.T) {
	kennedy := address(t, kennedyKey)
	pavel := address(t, pavelKey)

	rehash := func(tx database.Tx) database.Tx {
		tx.Hash = tx.CalculateHash()
		return tx
	}

	type table struct {
		name   string
		tx     database.Tx
		kind   error
		reason string
	}

	tt := []table{
		{name: "self transfer", tx: signedTx(t, kennedyKey, kennedy, 10), kind: database.ErrPolicy, reason: "sender and receiver cannot be the same"},
		{name: "zero amount", tx: signedTx(t, kennedyKey, pavel, 0), kind: database.ErrPolicy, reason: "amount must be greater than zero"},
		{name: "empty receiver", tx: signedTx(t, kennedyKey, "", 10), kind: database.ErrPolicy, reason: "receiver cannot be empty"},
		{name: "empty sender", tx: rehash(database.Tx{Receiver: pavel, Amount: 10, Signature: "00"}), kind: database.ErrPolicy, reason: "sender cannot be empty"},
		{name: "empty signature", tx: rehash(database.Tx{Sender: kennedy, Receiver: pavel, Amount: 10}), kind: database.ErrAuth, reason: "signature cannot be empty"},
		{name: "bad public key", tx: rehash(database.Tx{Sender: "zz", Receiver: pavel, Amount: 10, Signature: "00"}), kind: database.ErrAuth, reason: "invalid public key"},
		{name: "bad signature encoding", tx: rehash(database.Tx{Sender: kennedy, Receiver: pavel, Amount: 10, Signature: "not-hex"}), kind: database.ErrAuth, reason: "invalid signature"},
		{name: "privileged", tx: database.NewPrivilegedTx(pavel, 10, 1688300000), kind: database.ErrPolicy, reason: "sender cannot be empty"},
	}

	t.Log("Given the need to enforce transaction policy.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s transaction.", testID, tst.name)
			{
				f := func(t *testing.T) {
					expectKind(t, tst.tx.Validate(), tst.kind, tst.reason)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestTxAccountForm(t *testing.T) {
	kennedy := address(t, kennedyKey)
	pavel := address(t, pavelKey)

	pk, err := crypto.HexToECDSA(pavelKey)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to load the private key: %s", failed, err)
	}
	pavelUncompressed := hex.EncodeToString(crypto.FromECDSAPub(&pk.PublicKey))

	type table struct {
		name     string
		sender   string
		receiver string
		amount   uint64
		kind     error
		reason   string
	}

	tt := []table{
		{name: "prefixed self transfer", sender: "0x" + kennedy, receiver: kennedy, amount: 10, kind: database.ErrPolicy, reason: "sender must be a compressed lowercase public key"},
		{name: "prefixed sender", sender: "0x" + kennedy, receiver: pavel, amount: 10, kind: database.ErrPolicy, reason: "sender must be a compressed lowercase public key"},
		{name: "uppercase sender", sender: strings.ToUpper(kennedy), receiver: pavel, amount: 10, kind: database.ErrPolicy, reason: "sender must be a compressed lowercase public key"},
		{name: "prefixed receiver", sender: kennedy, receiver: "0x" + kennedy, amount: 10, kind: database.ErrPolicy, reason: "sender and receiver cannot be the same"},
		{name: "uncompressed receiver", sender: kennedy, receiver: pavelUncompressed, amount: 10, kind: database.ErrPolicy, reason: "receiver must be a compressed lowercase public key"},
		{name: "amount past maximum", sender: kennedy, receiver: pavel, amount: database.MaxAmount + 1, kind: database.ErrPolicy, reason: "amount cannot exceed"},
		{name: "amount past int64", sender: kennedy, receiver: pavel, amount: math.MaxInt64 + 1, kind: database.ErrPolicy, reason: "amount cannot exceed"},
	}

	t.Log("Given the need for every account to have a single spelling.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s transaction.", testID, tst.name)
			{
				f := func(t *testing.T) {
					tx := database.Tx{Sender: tst.sender, Receiver: tst.receiver, Amount: tst.amount, TimeStamp: 1688300000}
					tx.Hash = tx.CalculateHash()

					sig, err := signature.Sign(tx.Hash, kennedyPrivateKey(t))
					if err != nil {
						t.Fatalf("\t%s\tShould be able to sign the transaction: %s", failed, err)
					}
					tx.Signature = sig

					expectKind(t, tx.Validate(), tst.kind, tst.reason)
				}

				t.Run(tst.name, f)
			}
		}

		t.Logf("\tTest %d:\tWhen handling the largest amount.", len(tt))
		{
			tx := signedTx(t, kennedyKey, pavel, database.MaxAmount)
			if err := tx.Validate(); err != nil {
				t.Fatalf("\t%s\tShould be able to validate the largest amount: %s", failed, err)
			}
			t.Logf("\t%s\tShould be able to validate the largest amount.", success)
		}

		t.Logf("\tTest %d:\tWhen handling an opaque receiver.", len(tt)+1)
		{
			tx := signedTx(t, kennedyKey, "0x"+signature.Hash("receiver")[:40], 10)
			if err := tx.Validate(); err != nil {
				t.Fatalf("\t%s\tShould accept a receiver that is not a public key: %s", failed, err)
			}
			t.Logf("\t%s\tShould accept a receiver that is not a public key.", success)
		}
	}
}

func kennedyPrivateKey(t *testing.T) *ecdsa.PrivateKey {
	pk, err := crypto.HexToECDSA(kennedyKey)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to load the private key: %s", failed, err)
	}
	return pk
}

func TestPrivilegedTx(t *testing.T) {
	pavel := address(t, pavelKey)

	tx := database.NewPrivilegedTx(pavel, 1000, 1688204859)
	if !tx.IsPrivileged() {
		t.Fatalf("\t%s\tShould be a privileged transaction.", failed)
	}

	if err := tx.ValidatePrivileged(); err != nil {
		t.Fatalf("\t%s\tShould be able to validate a privileged transaction: %s", failed, err)
	}
	t.Logf("\t%s\tShould be able to validate a privileged transaction.", success)

	tx.Amount = 5000
	expectKind(t, tx.ValidatePrivileged(), database.ErrIntegrity, "hash mismatch")

	large := database.NewPrivilegedTx(pavel, database.MaxAmount+1, 1688204859)
	expectKind(t, large.ValidatePrivileged(), database.ErrPolicy, "amount cannot exceed")
}

// =============================================================================

func newBlock(t *testing.T, txs ...database.Tx) database.Block {
	gen := database.NewGenesisBlock(genesis.Default())

	b := database.Block{
		Index:      1,
		TimeStamp:  1688400000,
		PrevHash:   gen.Hash,
		Data:       txs,
		Difficulty: 4,
	}

	return b.Complete()
}

func TestBlockValidate(t *testing.T) {
	pavel := address(t, pavelKey)
	kennedy := address(t, kennedyKey)
	now := time.Unix(1688500000, 0)

	t.Log("Given the need to validate blocks.")
	{
		gen := database.NewGenesisBlock(genesis.Default())
		if err := gen.Validate(now); err != nil {
			t.Fatalf("\t%s\tShould be able to validate the genesis block: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to validate the genesis block.", success)

		b := newBlock(t, signedTx(t, kennedyKey, pavel, 10), signedTx(t, pavelKey, kennedy, 5))
		if err := b.Validate(now); err != nil {
			t.Fatalf("\t%s\tShould be able to validate a completed block: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to validate a completed block.", success)

		if err := b.Validate(time.Unix(int64(b.TimeStamp), 0)); err != nil {
			t.Fatalf("\t%s\tShould accept a timestamp equal to now: %s", failed, err)
		}
		t.Logf("\t%s\tShould accept a timestamp equal to now.", success)
	}
}

func TestBlockFailures(t *testing.T) {
	pavel := address(t, pavelKey)
	kennedy := address(t, kennedyKey)
	now := time.Unix(1688500000, 0)

	type table struct {
		name   string
		block  func() database.Block
		kind   error
		reason string
	}

	tt := []table{
		{
			name: "hash",
			block: func() database.Block {
				b := newBlock(t, signedTx(t, kennedyKey, pavel, 10))
				b.Nonce++
				return b
			},
			kind: database.ErrIntegrity, reason: "hash mismatch",
		},
		{
			name: "prev hash format",
			block: func() database.Block {
				b := newBlock(t, signedTx(t, kennedyKey, pavel, 10))
				b.PrevHash = "abc"
				return b.Complete()
			},
			kind: database.ErrFormat, reason: "invalid prev hash format",
		},
		{
			name: "empty",
			block: func() database.Block {
				return newBlock(t)
			},
			kind: database.ErrPolicy, reason: "empty block",
		},
		{
			name: "reordered",
			block: func() database.Block {
				b := newBlock(t, signedTx(t, kennedyKey, pavel, 10), signedTx(t, pavelKey, kennedy, 5))
				b.Data[0], b.Data[1] = b.Data[1], b.Data[0]
				b.Hash = b.CalculateHash()
				return b
			},
			kind: database.ErrIntegrity, reason: "merkle root mismatch",
		},
		{
			name: "bad tx",
			block: func() database.Block {
				tx := signedTx(t, kennedyKey, pavel, 10)
				tx.Signature = ""
				return newBlock(t, signedTx(t, pavelKey, kennedy, 5), tx)
			},
			kind: database.ErrAuth, reason: "block[1]: tx[1]: signature cannot be empty",
		},
		{
			name: "privileged outside genesis",
			block: func() database.Block {
				return newBlock(t, database.NewPrivilegedTx(pavel, 1_000_000, 1688300000))
			},
			kind: database.ErrPolicy, reason: "sender cannot be empty",
		},
		{
			name: "future",
			block: func() database.Block {
				b := newBlock(t, signedTx(t, kennedyKey, pavel, 10))
				b.TimeStamp = uint64(now.Unix()) + 1
				return b.Complete()
			},
			kind: database.ErrPolicy, reason: "future timestamp",
		},
	}

	t.Log("Given the need to reject invalid blocks.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a block with a bad %s.", testID, tst.name)
			{
				f := func(t *testing.T) {
					expectKind(t, tst.block().Validate(now), tst.kind, tst.reason)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestBlockTamper(t *testing.T) {
	pavel := address(t, pavelKey)
	now := time.Unix(1688500000, 0)

	b := newBlock(t, signedTx(t, kennedyKey, pavel, 10))

	t.Log("Given the need to detect tampering of a committed block.")
	{
		t.Logf("\tTest 0:\tWhen changing the amount of a transaction.")
		{
			cpy := b.Copy()
			cpy.Data[0].Amount = 1_000_000
			expectKind(t, cpy.Validate(now), database.ErrIntegrity, "hash mismatch")

			if b.Data[0].Amount != 10 {
				t.Fatalf("\t%s\tShould not change the original block.", failed)
			}
			t.Logf("\t%s\tShould not change the original block.", success)
		}

		t.Logf("\tTest 1:\tWhen changing the amount and rehashing the transaction.")
		{
			cpy := b.Copy()
			cpy.Data[0].Amount = 1_000_000
			cpy.Data[0].Hash = cpy.Data[0].CalculateHash()
			expectKind(t, cpy.Validate(now), database.ErrIntegrity, "merkle root mismatch")
		}

		t.Logf("\tTest 2:\tWhen changing the amount and recalculating the merkle root.")
		{
			cpy := b.Copy()
			cpy.Data[0].Amount = 1_000_000
			cpy.Data[0].Hash = cpy.Data[0].CalculateHash()
			cpy.MerkleRoot = cpy.CalculateMerkleRoot()
			expectKind(t, cpy.Validate(now), database.ErrIntegrity, "hash mismatch")
		}
	}
}

func TestMerkleOrder(t *testing.T) {
	pavel := address(t, pavelKey)
	kennedy := address(t, kennedyKey)

	b := newBlock(t, signedTx(t, kennedyKey, pavel, 10), signedTx(t, pavelKey, kennedy, 5))

	reordered := b.Copy()
	reordered.Data[0], reordered.Data[1] = reordered.Data[1], reordered.Data[0]

	if b.CalculateMerkleRoot() == reordered.CalculateMerkleRoot() {
		t.Fatalf("\t%s\tShould get a different merkle root when reordered.", failed)
	}
	t.Logf("\t%s\tShould get a different merkle root when reordered.", success)

	if b.CalculateMerkleRoot() != b.Copy().CalculateMerkleRoot() {
		t.Fatalf("\t%s\tShould get a deterministic merkle root.", failed)
	}
	t.Logf("\t%s\tShould get a deterministic merkle root.", success)
}

func TestKindOf(t *testing.T) {
	pavel := address(t, pavelKey)

	tx := signedTx(t, kennedyKey, pavel, 0)
	if kind := database.KindOf(tx.Validate()); kind != database.ErrPolicy {
		t.Fatalf("\t%s\tShould classify the error as a policy error, got %v", failed, kind)
	}
	t.Logf("\t%s\tShould classify the error as a policy error.", success)

	if kind := database.KindOf(errors.New("boom")); kind != nil {
		t.Fatalf("\t%s\tShould not classify an unrelated error, got %v", failed, kind)
	}
	t.Logf("\t%s\tShould not classify an unrelated error.", success)
}
