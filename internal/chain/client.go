// Package chain implements the contract adapter over an EVM JSON-RPC node
// using go-ethereum. It wraps one deployed market contract plus its ERC-20
// staking token and exposes the read/write operations the dialogue engine
// needs.
package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/escalate-labs/escalatebot/internal/domain"
)

// ClientConfig holds the parameters needed to talk to the node and the
// deployed contracts.
type ClientConfig struct {
	RPCURL          string
	PrivateKey      string // hex, with or without 0x prefix
	ContractAddress string
	TokenAddress    string
	ResolverAddress string
	GasLimit        uint64
	ReceiptTimeout  time.Duration
}

// Client is the concrete domain.ChainClient backed by ethclient.
type Client struct {
	ec       *ethclient.Client
	key      *ecdsa.PrivateKey
	from     common.Address
	contract common.Address
	token    common.Address
	resolver common.Address

	gasLimit       uint64
	receiptTimeout time.Duration

	chainMu sync.Mutex
	chainID *big.Int // cached after the first successful fetch

	logger *slog.Logger
}

// New creates a Client. Dialing an HTTP endpoint is lazy, so New only fails
// on malformed configuration (bad key, unreachable scheme); node liveness is
// probed separately via CheckConnection.
func New(cfg ClientConfig, logger *slog.Logger) (*Client, error) {
	ec, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("chain: dial %s: %w", cfg.RPCURL, err)
	}

	keyHex := strings.TrimPrefix(cfg.PrivateKey, "0x")
	key, err := ethcrypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("chain: invalid private key: %w", err)
	}

	receiptTimeout := cfg.ReceiptTimeout
	if receiptTimeout <= 0 {
		receiptTimeout = 120 * time.Second
	}
	gasLimit := cfg.GasLimit
	if gasLimit == 0 {
		gasLimit = 500_000
	}

	return &Client{
		ec:             ec,
		key:            key,
		from:           ethcrypto.PubkeyToAddress(key.PublicKey),
		contract:       common.HexToAddress(cfg.ContractAddress),
		token:          common.HexToAddress(cfg.TokenAddress),
		resolver:       common.HexToAddress(cfg.ResolverAddress),
		gasLimit:       gasLimit,
		receiptTimeout: receiptTimeout,
		logger:         logger.With(slog.String("component", "chain")),
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.ec.Close()
}

// Address returns the signing wallet address.
func (c *Client) Address() common.Address { return c.from }

// ResolverAuthorized reports whether the signing wallet is the configured
// resolver. common.Address comparison is byte-wise, so mixed-case hex inputs
// compare equal.
func (c *Client) ResolverAuthorized() bool {
	return c.from == c.resolver
}

// CheckConnection probes node liveness with a block-number read. Failures
// are non-fatal; callers degrade instead of aborting.
func (c *Client) CheckConnection(ctx context.Context) bool {
	_, err := c.ec.BlockNumber(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "node liveness probe failed", slog.String("error", err.Error()))
	}
	return err == nil
}

// MarketCount returns the total number of markets ever created.
func (c *Client) MarketCount(ctx context.Context) (uint64, error) {
	out, err := c.call(ctx, "marketCount")
	if err != nil {
		return 0, &domain.ChainError{Op: "marketCount", Err: err}
	}
	count, ok := out[0].(*big.Int)
	if !ok {
		return 0, &domain.ChainError{Op: "marketCount", Err: fmt.Errorf("unexpected return type %T", out[0])}
	}
	return count.Uint64(), nil
}

// Market fetches one market by id. Any failure (RPC error, out-of-range id,
// malformed return) reads as absent, not as a fault.
func (c *Client) Market(ctx context.Context, id uint64) (domain.Market, bool) {
	out, err := c.call(ctx, "markets", new(big.Int).SetUint64(id))
	if err != nil {
		c.logger.DebugContext(ctx, "market read failed",
			slog.Uint64("market_id", id),
			slog.String("error", err.Error()),
		)
		return domain.Market{}, false
	}
	if len(out) != 6 {
		return domain.Market{}, false
	}

	question, ok1 := out[0].(string)
	expiry, ok2 := out[1].(*big.Int)
	totalYes, ok3 := out[2].(*big.Int)
	totalNo, ok4 := out[3].(*big.Int)
	resolved, ok5 := out[4].(bool)
	outcome, ok6 := out[5].(bool)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return domain.Market{}, false
	}

	// The contract returns zero-valued storage for ids it never assigned.
	if question == "" && expiry.Sign() == 0 {
		return domain.Market{}, false
	}

	return domain.Market{
		ID:       id,
		Question: question,
		Expiry:   time.Unix(expiry.Int64(), 0).UTC(),
		TotalYes: totalYes,
		TotalNo:  totalNo,
		Resolved: resolved,
		Outcome:  outcome,
	}, true
}

// CreateMarket submits a createMarket transaction and waits for it to
// confirm. The new market id is derived by re-reading marketCount after
// confirmation. Best-effort: a concurrent creator can advance the count past
// this caller's own market before the re-read lands.
func (c *Client) CreateMarket(ctx context.Context, question string, expiry time.Time) (string, uint64, error) {
	data, err := marketABI.Pack("createMarket", question, big.NewInt(expiry.Unix()))
	if err != nil {
		return "", 0, &domain.ChainError{Op: "createMarket", Err: err}
	}

	res, err := c.sendTx(ctx, "createMarket", c.contract, data)
	if err != nil {
		return res.Hash, 0, err
	}

	id, err := c.MarketCount(ctx)
	if err != nil {
		return res.Hash, 0, err
	}

	c.logger.InfoContext(ctx, "market created",
		slog.Uint64("market_id", id),
		slog.String("tx_hash", res.Hash),
	)
	return res.Hash, id, nil
}

// ApproveSpend authorizes the market contract to move amount token units
// from the signing wallet and waits for confirmation.
func (c *Client) ApproveSpend(ctx context.Context, amount *big.Int) (string, error) {
	data, err := erc20ABI.Pack("approve", c.contract, amount)
	if err != nil {
		return "", &domain.ChainError{Op: "approve", Err: err}
	}

	res, err := c.sendTx(ctx, "approve", c.token, data)
	if err != nil {
		return res.Hash, err
	}
	return res.Hash, nil
}

// PlaceBet stakes amount token units on one side of a market. The allowance
// from a prior ApproveSpend must already be confirmed.
func (c *Client) PlaceBet(ctx context.Context, marketID uint64, side bool, amount *big.Int) (string, error) {
	data, err := marketABI.Pack("placeBet", new(big.Int).SetUint64(marketID), side, amount)
	if err != nil {
		return "", &domain.ChainError{Op: "placeBet", Err: err}
	}

	res, err := c.sendTx(ctx, "placeBet", c.contract, data)
	if err != nil {
		return res.Hash, err
	}

	c.logger.InfoContext(ctx, "bet placed",
		slog.Uint64("market_id", marketID),
		slog.Bool("side", side),
		slog.String("tx_hash", res.Hash),
	)
	return res.Hash, nil
}

// ResolveMarket sets a market's final outcome. The resolver gate runs before
// anything is built or broadcast.
func (c *Client) ResolveMarket(ctx context.Context, marketID uint64, outcome bool) (string, error) {
	if !c.ResolverAuthorized() {
		return "", fmt.Errorf("chain: resolveMarket: %w: signer %s is not the resolver", domain.ErrUnauthorized, c.from.Hex())
	}

	data, err := marketABI.Pack("resolveMarket", new(big.Int).SetUint64(marketID), outcome)
	if err != nil {
		return "", &domain.ChainError{Op: "resolveMarket", Err: err}
	}

	res, err := c.sendTx(ctx, "resolveMarket", c.contract, data)
	if err != nil {
		return res.Hash, err
	}

	c.logger.InfoContext(ctx, "market resolved",
		slog.Uint64("market_id", marketID),
		slog.Bool("outcome", outcome),
		slog.String("tx_hash", res.Hash),
	)
	return res.Hash, nil
}

// call executes a read-only contract call against the market contract and
// unpacks the result.
func (c *Client) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := marketABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	raw, err := c.ec.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	out, err := marketABI.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out, nil
}

var _ domain.ChainClient = (*Client)(nil)
