// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	traceID := web.GetTraceID(ctx)

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Infow("events: upgrade", "traceid", traceID, "ERROR", err)
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Subscribe()
	defer h.Evts.Unsubscribe(id)

	h.Log.Infow("events: subscribed", "traceid", traceID, "subscription", id)
	defer h.Log.Infow("events: unsubscribed", "traceid", traceID, "subscription", id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Ledger returns the blocks and the pending transactions.
func (h Handlers) Ledger(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	ledger, err := h.State.RetrieveLedger()
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, ledger, http.StatusOK)
}

// SubmitTransaction adds a new wallet transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var t tx
	if err := web.Decode(r, &t); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("submit tx", "traceid", web.GetTraceID(ctx), "sender", t.Sender, "receiver", t.Receiver, "amount", t.Amount)

	if err := h.State.SubmitTransaction(t.toDatabase()); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return web.Respond(ctx, w, status{Status: "success"}, http.StatusOK)
}

// ProposeBlock returns a block template over the pending transactions.
func (h Handlers) ProposeBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	tmpl, err := h.State.ProposeBlock()
	if err != nil {
		if errors.Is(err, state.ErrEmptyMempool) {
			return web.Respond(ctx, w, nil, http.StatusNoContent)
		}
		return err
	}

	return web.Respond(ctx, w, tmpl, http.StatusOK)
}

// AcceptBlock appends a completed block to the chain.
func (h Handlers) AcceptBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var b block
	if err := web.Decode(r, &b); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("accept block", "traceid", web.GetTraceID(ctx), "index", b.Index, "hash", b.Hash, "txs", len(b.Data))

	if err := h.State.AcceptBlock(b.toDatabase()); err != nil {
		switch {
		case errors.Is(err, state.ErrEmptyMempool):
			return errs.NewTrusted(err, http.StatusConflict)
		case database.KindOf(err) != nil:
			return errs.NewTrusted(err, http.StatusNotAcceptable)
		}
		return err
	}

	return web.Respond(ctx, w, status{Status: "block added"}, http.StatusOK)
}

// QueryBlock returns the committed block with the specified hash.
func (h Handlers) QueryBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hash := web.Param(r, "hash")
	if !signature.IsDigest(hash) {
		return errs.NewTrusted(fmt.Errorf("invalid block hash %q", hash), http.StatusBadRequest)
	}

	blk, err := h.State.QueryBlockByHash(hash)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return errs.NewTrusted(fmt.Errorf("block %s: %w", hash, err), http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, blk, http.StatusOK)
}

// Balance returns the balance of the specified account by replaying the
// committed transactions.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")

	bal, err := h.State.BalanceOf(address)
	if err != nil {
		return err
	}

	resp := balance{
		Address: address,
		Name:    h.NS.Lookup(address),
		Balance: bal,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	mempool := h.State.RetrieveMempool()

	txs := make([]pendingTx, len(mempool))
	for i, tx := range mempool {
		txs[i] = pendingTx{
			Sender:       tx.Sender,
			SenderName:   h.NS.Lookup(tx.Sender),
			Receiver:     tx.Receiver,
			ReceiverName: h.NS.Lookup(tx.Receiver),
			Amount:       tx.Amount,
			Signature:    tx.Signature,
			Hash:         tx.Hash,
			TimeStamp:    tx.TimeStamp,
		}
	}

	return web.Respond(ctx, w, txs, http.StatusOK)
}
