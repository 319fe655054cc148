package chain

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/yndnr/nftsnap/internal/core/domain"
)

// Public toncenter JSON-RPC endpoints.
const (
	MainnetToncenterEndpoint = "https://toncenter.com/api/v2/jsonRPC"
	TestnetToncenterEndpoint = "https://testnet.toncenter.com/api/v2/jsonRPC"
)

// Toncenter is a read-only Client for the toncenter v2 JSON-RPC API.
type Toncenter struct {
	endpoint  string
	apiKey    string
	userAgent string
	client    *http.Client
}

// NewToncenter creates a client for endpoint. apiKey may be empty.
func NewToncenter(endpoint, apiKey string) *Toncenter {
	return &Toncenter{
		endpoint:  strings.TrimSpace(endpoint),
		apiKey:    apiKey,
		userAgent: "nftsnap",
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (t *Toncenter) WithHTTPClient(c *http.Client) *Toncenter {
	t.client = c
	return t
}

// WithUserAgent sets the User-Agent header.
func (t *Toncenter) WithUserAgent(ua string) *Toncenter {
	t.userAgent = ua
	return t
}

type rpcRequest struct {
	ID      int    `json:"id"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error,omitempty"`
	Code   int             `json:"code,omitempty"`
}

type masterchainInfo struct {
	Last struct {
		Workchain int32  `json:"workchain"`
		Shard     string `json:"shard"`
		Seqno     int64  `json:"seqno"`
	} `json:"last"`
}

type runGetMethodParams struct {
	Address string  `json:"address"`
	Method  string  `json:"method"`
	Stack   [][]any `json:"stack"`
}

type runResult struct {
	ExitCode int                 `json:"exit_code"`
	Stack    [][]json.RawMessage `json:"stack"`
}

type tvmBytes struct {
	Bytes string `json:"bytes"`
}

// LastBlock returns the latest masterchain block.
func (t *Toncenter) LastBlock(ctx context.Context) (*domain.BlockShort, error) {
	var info masterchainInfo
	if err := t.call(ctx, "getMasterchainInfo", map[string]any{}, &info); err != nil {
		return nil, err
	}
	return &domain.BlockShort{
		Seqno:     info.Last.Seqno,
		Shard:     info.Last.Shard,
		Workchain: info.Last.Workchain,
	}, nil
}

// RunGetMethod runs method on addr. Exit codes 0 and 1 are success.
func (t *Toncenter) RunGetMethod(ctx context.Context, addr *address.Address, method string, args ...any) (Stack, error) {
	params := runGetMethodParams{
		Address: addr.String(),
		Method:  method,
		Stack:   make([][]any, 0, len(args)),
	}
	for _, arg := range args {
		entry, err := encodeStackArg(arg)
		if err != nil {
			return nil, err
		}
		params.Stack = append(params.Stack, entry)
	}

	var res runResult
	if err := t.call(ctx, "runGetMethod", params, &res); err != nil {
		return nil, domain.ErrGetMethod.WithDetails(method).WithCause(err)
	}
	if res.ExitCode != 0 && res.ExitCode != 1 {
		return nil, domain.ErrGetMethod.WithDetails(fmt.Sprintf("%s: exit code %d", method, res.ExitCode))
	}

	stack := make(Stack, 0, len(res.Stack))
	for i, entry := range res.Stack {
		v, err := decodeStackEntry(entry)
		if err != nil {
			return nil, domain.ErrMalformedStack.WithDetails(fmt.Sprintf("%s: entry %d", method, i)).WithCause(err)
		}
		stack = append(stack, v)
	}
	return stack, nil
}

func (t *Toncenter) call(ctx context.Context, method string, params, target any) error {
	raw, err := json.Marshal(rpcRequest{ID: 1, JSONRPC: "2.0", Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("toncenter: marshal %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("toncenter: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", t.userAgent)
	if t.apiKey != "" {
		req.Header.Set("X-API-Key", t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("toncenter: %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("toncenter: read %s response: %w", method, err)
	}

	var out rpcResponse
	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode >= 400 {
			return fmt.Errorf("toncenter: %s: http %d: %s", method, resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return fmt.Errorf("toncenter: decode %s response: %w", method, err)
	}
	if !out.OK || resp.StatusCode >= 400 {
		return fmt.Errorf("toncenter: %s: code %d: %s", method, out.Code, out.Error)
	}

	if err := json.Unmarshal(out.Result, target); err != nil {
		return fmt.Errorf("toncenter: decode %s result: %w", method, err)
	}
	return nil
}

func encodeStackArg(arg any) ([]any, error) {
	switch v := arg.(type) {
	case *big.Int:
		return []any{"num", formatHexInt(v)}, nil
	case int64:
		return []any{"num", formatHexInt(big.NewInt(v))}, nil
	case uint64:
		return []any{"num", formatHexInt(new(big.Int).SetUint64(v))}, nil
	case int:
		return []any{"num", formatHexInt(big.NewInt(int64(v)))}, nil
	case *cell.Cell:
		return []any{"tvm.Cell", base64.StdEncoding.EncodeToString(v.ToBOC())}, nil
	case *cell.Slice:
		c, err := v.Copy().ToCell()
		if err != nil {
			return nil, err
		}
		return []any{"tvm.Slice", base64.StdEncoding.EncodeToString(c.ToBOC())}, nil
	default:
		return nil, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("unsupported get-method argument %T", arg))
	}
}

func decodeStackEntry(entry []json.RawMessage) (any, error) {
	if len(entry) != 2 {
		return nil, fmt.Errorf("want [type, value], got %d elements", len(entry))
	}

	var kind string
	if err := json.Unmarshal(entry[0], &kind); err != nil {
		return nil, fmt.Errorf("entry type: %w", err)
	}

	switch kind {
	case "num":
		var s string
		if err := json.Unmarshal(entry[1], &s); err != nil {
			return nil, fmt.Errorf("num value: %w", err)
		}
		return parseHexInt(s)
	case "cell", "slice":
		var b tvmBytes
		if err := json.Unmarshal(entry[1], &b); err != nil {
			return nil, fmt.Errorf("%s value: %w", kind, err)
		}
		boc, err := base64.StdEncoding.DecodeString(b.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%s base64: %w", kind, err)
		}
		c, err := cell.FromBOC(boc)
		if err != nil {
			return nil, fmt.Errorf("%s boc: %w", kind, err)
		}
		if kind == "slice" {
			return c.BeginParse(), nil
		}
		return c, nil
	case "null":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported stack entry type %q", kind)
	}
}

func formatHexInt(n *big.Int) string {
	if n.Sign() < 0 {
		return "-0x" + new(big.Int).Neg(n).Text(16)
	}
	return "0x" + n.Text(16)
}

func parseHexInt(s string) (*big.Int, error) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}

	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	if neg {
		n.Neg(n)
	}
	return n, nil
}
