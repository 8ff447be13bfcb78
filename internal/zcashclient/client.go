package zcashclient

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/core/types"
	"github.com/zordinals/zord-indexer/pkg/logger"
	"github.com/zordinals/zord-indexer/pkg/logger/slogx"
)

const (
	callTimeout      = 30 * time.Second
	retryAttempts    = 3
	retryDelay       = 5 * time.Second
	fetchConcurrency = 8
)

// Client speaks JSON-RPC 1.0 to a Zcash-style node over HTTP with basic
// auth. All failures surface as errs.Rpc so the indexing loop can treat them
// uniformly as retryable.
type Client struct {
	url        string
	username   string
	password   string
	httpClient *http.Client
}

func New(url, username, password string) *Client {
	return &Client{
		url:      url,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: callTimeout,
		},
	}
}

type rpcRequest struct {
	JsonRpc string `json:"jsonrpc"`
	Id      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	body, err := json.Marshal(rpcRequest{
		JsonRpc: "1.0",
		Id:      "zord",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal rpc request")
	}

	err = retry.Do(func() error {
		return c.callOnce(ctx, body, result)
	},
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.WarnContext(ctx, "rpc call failed, retrying",
				slogx.String("method", method),
				slogx.Uint64("attempt", uint64(n)+1),
				slogx.Error(err),
			)
		}),
	)
	if err != nil {
		return errors.Wrapf(errors.CombineErrors(errs.Rpc, err), "rpc %s failed", method)
	}
	return nil
}

func (c *Client) callOnce(ctx context.Context, body []byte, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build rpc request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "rpc transport failure")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read rpc response")
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(raw, &rpcResp); err != nil {
		return errors.Wrapf(err, "failed to decode rpc response (status %d)", resp.StatusCode)
	}
	if rpcResp.Error != nil {
		return errors.Newf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return errors.Wrap(err, "failed to decode rpc result")
	}
	return nil
}

func (c *Client) GetBlockCount(ctx context.Context) (uint64, error) {
	var count uint64
	if err := c.call(ctx, "getblockcount", nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (c *Client) GetBlockHash(ctx context.Context, height uint64) (string, error) {
	var hash string
	if err := c.call(ctx, "getblockhash", []any{height}, &hash); err != nil {
		return "", err
	}
	return hash, nil
}

func (c *Client) GetBlock(ctx context.Context, hash string) (*types.Block, error) {
	var block types.Block
	if err := c.call(ctx, "getblock", []any{hash, 1}, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

// GetBlockTransactions fetches the given transactions concurrently while
// preserving block order.
func (c *Client) GetBlockTransactions(ctx context.Context, txids []string) ([]*types.Transaction, error) {
	txs := make([]*types.Transaction, len(txids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for idx, txid := range txids {
		g.Go(func() error {
			tx, err := c.GetRawTransaction(gctx, txid)
			if err != nil {
				return err
			}
			txs[idx] = tx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return txs, nil
}

// rawTransaction is the verbose getrawtransaction wire shape; scripts arrive
// hex-encoded and are decoded into types.Transaction.
type rawTransaction struct {
	TxId string `json:"txid"`
	Vin  []struct {
		Coinbase  string `json:"coinbase"`
		TxId      string `json:"txid"`
		Vout      uint32 `json:"vout"`
		ScriptSig struct {
			Hex string `json:"hex"`
		} `json:"scriptSig"`
		Address string `json:"address"`
	} `json:"vin"`
	Vout []struct {
		N            uint32  `json:"n"`
		ValueZat     int64   `json:"valueZat"`
		Value        float64 `json:"value"`
		ScriptPubKey struct {
			Type      string   `json:"type"`
			Addresses []string `json:"addresses"`
		} `json:"scriptPubKey"`
	} `json:"vout"`
}

func (c *Client) GetRawTransaction(ctx context.Context, txid string) (*types.Transaction, error) {
	var raw rawTransaction
	if err := c.call(ctx, "getrawtransaction", []any{txid, 1}, &raw); err != nil {
		return nil, err
	}

	tx := &types.Transaction{
		TxId: raw.TxId,
		Vin:  make([]types.TxIn, 0, len(raw.Vin)),
		Vout: make([]types.TxOut, 0, len(raw.Vout)),
	}
	for _, in := range raw.Vin {
		if in.Coinbase != "" {
			tx.Vin = append(tx.Vin, types.TxIn{Coinbase: true})
			continue
		}
		script, err := hex.DecodeString(in.ScriptSig.Hex)
		if err != nil {
			logger.DebugContext(ctx, "skipping undecodable scriptSig",
				slogx.String("txid", raw.TxId),
				slogx.Error(err),
			)
			script = nil
		}
		tx.Vin = append(tx.Vin, types.TxIn{
			TxId:      in.TxId,
			Vout:      in.Vout,
			ScriptSig: script,
			Address:   in.Address,
		})
	}
	for _, out := range raw.Vout {
		tx.Vout = append(tx.Vout, types.TxOut{
			N:         out.N,
			ValueZat:  out.ValueZat,
			Type:      out.ScriptPubKey.Type,
			Addresses: out.ScriptPubKey.Addresses,
		})
	}
	return tx, nil
}
