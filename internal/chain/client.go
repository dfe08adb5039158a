// Package chain talks to the execution environment: it reads the current
// block height from an RPC node and hands outbound native-token transfers
// to the signing sidecar that owns the pool account's keys.
package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

const defaultTimeout = 5 * time.Second

type Client interface {
	BlockHeight(ctx context.Context) (uint64, error)
	Transfer(ctx context.Context, receiverID, amount string) (string, error)
}

// RPCClient implements Client over HTTP with a pooled connection client.
type RPCClient struct {
	rpcURL    string
	signerURL string
	client    *fasthttp.Client
}

func NewRPCClient(rpcURL, signerURL string) *RPCClient {
	return &RPCClient{
		rpcURL:    rpcURL,
		signerURL: signerURL,
		client: &fasthttp.Client{
			ReadTimeout:         defaultTimeout,
			WriteTimeout:        defaultTimeout,
			MaxIdleConnDuration: 90 * time.Second,
			MaxConnsPerHost:     50,
		},
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type blockResult struct {
	Result struct {
		Header struct {
			Height uint64 `json:"height"`
		} `json:"header"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *RPCClient) BlockHeight(ctx context.Context) (uint64, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "ledger",
		Method:  "block",
		Params:  map[string]string{"finality": "final"},
	})
	if err != nil {
		return 0, err
	}

	respBody, err := c.post(ctx, c.rpcURL, body)
	if err != nil {
		return 0, fmt.Errorf("block height query failed: %v", err)
	}

	var result blockResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return 0, fmt.Errorf("malformed block response: %v", err)
	}
	if result.Error != nil {
		return 0, fmt.Errorf("rpc error: %s", result.Error.Message)
	}
	return result.Result.Header.Height, nil
}

type transferRequest struct {
	ReceiverID string `json:"receiver_id"`
	Amount     string `json:"amount"`
}

type transferResult struct {
	ReceiptID string `json:"receipt_id"`
	Error     string `json:"error"`
}

func (c *RPCClient) Transfer(ctx context.Context, receiverID, amount string) (string, error) {
	body, err := json.Marshal(transferRequest{ReceiverID: receiverID, Amount: amount})
	if err != nil {
		return "", err
	}

	respBody, err := c.post(ctx, c.signerURL+"/transfer", body)
	if err != nil {
		return "", fmt.Errorf("transfer submission failed: %v", err)
	}

	var result transferResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("malformed transfer response: %v", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("transfer rejected: %s", result.Error)
	}
	if result.ReceiptID == "" {
		return "", fmt.Errorf("transfer response missing receipt id")
	}
	return result.ReceiptID, nil
}

func (c *RPCClient) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseResponse(resp)
		fasthttp.ReleaseRequest(req)
	}()

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	timeout := defaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	if err := c.client.DoTimeout(req, resp, timeout); err != nil {
		return nil, err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, nil
}
