package cmd

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/app/services/node/handlers"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const kennedyECDSA = "9f332e3700d8fc2446eaf6d15034cf96e0c2745e40353deef032a5dbf1dfed93"

func TestSendAndMine(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kennedy.ecdsa"), []byte(kennedyECDSA), 0600))

	kennedy, err := crypto.HexToECDSA(kennedyECDSA)
	require.NoError(t, err)

	gen := genesis.Default()
	gen.Receiver = signature.PublicKeyToAddress(kennedy.PublicKey)

	strg, err := memory.New()
	require.NoError(t, err)

	st, err := state.New(state.Config{Genesis: gen, Storage: strg})
	require.NoError(t, err)

	ns, err := nameservice.New(dir)
	require.NoError(t, err)

	srv := httptest.NewServer(handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		NS:       ns,
		Evts:     events.New(),
	}))
	defer srv.Close()

	url = srv.URL
	accountPath = dir
	accountName = "kennedy"

	hash, err := mine()
	require.NoError(t, err)
	require.Empty(t, hash, "nothing to mine on an empty mempool")

	to = signature.Hash("receiver")[:40]
	amount = 250

	var out bytes.Buffer
	sendCmd.SetOut(&out)
	require.NoError(t, sendRun(sendCmd, nil))
	require.Contains(t, out.String(), "success")
	require.Equal(t, 1, st.QueryMempoolLength())

	hash, err = mine()
	require.NoError(t, err)
	require.Equal(t, hash, st.RetrieveLatestBlock().Hash)
	require.Equal(t, 0, st.QueryMempoolLength())

	out.Reset()
	balanceCmd.SetOut(&out)
	require.NoError(t, balanceRun(balanceCmd, nil))
	require.Contains(t, out.String(), "kennedy")
	require.Contains(t, out.String(), ": 750")
}
