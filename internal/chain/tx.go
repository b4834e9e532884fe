package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/escalate-labs/escalatebot/internal/domain"
)

// receiptPollInterval is how often a pending transaction is re-checked while
// waiting for its receipt.
const receiptPollInterval = 2 * time.Second

// sendTx runs the shared submission protocol for every write: fetch the
// pending nonce, attach the fixed gas limit and the node's current gas
// price, sign locally, broadcast, then poll for a receipt until confirmed or
// the receipt timeout elapses. The returned TxResult carries the hash even
// when the error is non-nil, so callers can surface a partially-available
// hash.
func (c *Client) sendTx(ctx context.Context, op string, to common.Address, data []byte) (domain.TxResult, error) {
	chainID, err := c.networkID(ctx)
	if err != nil {
		return domain.TxResult{}, &domain.ChainError{Op: op, Err: fmt.Errorf("chain id: %w", err)}
	}

	nonce, err := c.ec.PendingNonceAt(ctx, c.from)
	if err != nil {
		return domain.TxResult{}, &domain.ChainError{Op: op, Err: fmt.Errorf("nonce: %w", err)}
	}

	gasPrice, err := c.ec.SuggestGasPrice(ctx)
	if err != nil {
		return domain.TxResult{}, &domain.ChainError{Op: op, Err: fmt.Errorf("gas price: %w", err)}
	}

	tx := types.NewTransaction(nonce, to, big.NewInt(0), c.gasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), c.key)
	if err != nil {
		return domain.TxResult{}, &domain.ChainError{Op: op, Err: fmt.Errorf("sign: %w", err)}
	}

	if err := c.ec.SendTransaction(ctx, signed); err != nil {
		if isRevert(err) {
			return domain.TxResult{}, &domain.ContractError{Op: op, Err: err}
		}
		return domain.TxResult{}, &domain.ChainError{Op: op, Err: fmt.Errorf("broadcast: %w", err)}
	}

	hash := signed.Hash()
	c.logger.DebugContext(ctx, "transaction broadcast",
		slog.String("op", op),
		slog.String("tx_hash", hash.Hex()),
		slog.Uint64("nonce", nonce),
	)

	return c.waitMined(ctx, op, hash)
}

// waitMined polls for the receipt of hash until it lands or the configured
// timeout elapses. A mined status-0 receipt is a contract rejection; a
// timeout is a transaction failure carrying the hash.
func (c *Client) waitMined(ctx context.Context, op string, hash common.Hash) (domain.TxResult, error) {
	hexHash := hash.Hex()
	deadline := time.NewTimer(c.receiptTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(receiptPollInterval)
	defer tick.Stop()

	for {
		receipt, err := c.ec.TransactionReceipt(ctx, hash)
		if err == nil {
			if receipt.Status == types.ReceiptStatusSuccessful {
				return domain.TxResult{Hash: hexHash, Success: true}, nil
			}
			return domain.TxResult{Hash: hexHash},
				&domain.ContractError{Op: op, Err: fmt.Errorf("reverted on chain (tx %s)", hexHash)}
		}
		if !errors.Is(err, ethereum.NotFound) {
			return domain.TxResult{Hash: hexHash},
				&domain.TransactionError{Op: op, Hash: hexHash, Err: fmt.Errorf("receipt: %w", err)}
		}

		select {
		case <-ctx.Done():
			return domain.TxResult{Hash: hexHash},
				&domain.TransactionError{Op: op, Hash: hexHash, Err: ctx.Err()}
		case <-deadline.C:
			return domain.TxResult{Hash: hexHash},
				&domain.TransactionError{Op: op, Hash: hexHash, Err: fmt.Errorf("not mined within %s", c.receiptTimeout)}
		case <-tick.C:
		}
	}
}

// networkID fetches and caches the chain id used for transaction signing.
// A failed fetch is not cached, so the next send retries.
func (c *Client) networkID(ctx context.Context) (*big.Int, error) {
	c.chainMu.Lock()
	defer c.chainMu.Unlock()

	if c.chainID != nil {
		return c.chainID, nil
	}
	id, err := c.ec.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	c.chainID = id
	return id, nil
}

// isRevert reports whether a broadcast-time error is a contract rejection
// rather than a connectivity fault.
func isRevert(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "revert") || strings.Contains(msg, "always failing")
}
