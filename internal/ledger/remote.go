package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	ma "github.com/multiformats/go-multiaddr"
)

// JSON-RPC error codes the remote ledger reports for its own taxonomy.
const (
	remoteCodeInvalidAmount     = -32031
	remoteCodeUnknownAccount    = -32032
	remoteCodeInsufficientFunds = -32033
	remoteCodeWrongAuthority    = -32034
	remoteCodeWrongCreditType   = -32035
	remoteCodeBalanceOverflow   = -32036
)

var remoteCodeToErr = map[int]error{
	remoteCodeInvalidAmount:     ErrInvalidAmount,
	remoteCodeUnknownAccount:    ErrUnknownAccount,
	remoteCodeInsufficientFunds: ErrInsufficientFunds,
	remoteCodeWrongAuthority:    ErrWrongAuthority,
	remoteCodeWrongCreditType:   ErrWrongCreditType,
	remoteCodeBalanceOverflow:   ErrBalanceOverflow,
}

// RemoteLedger speaks JSON-RPC 2.0 over HTTP to an external ledger service.
type RemoteLedger struct {
	endpoint string
	token    string
	client   *http.Client
	seq      atomic.Int64
}

// ResolveEndpoint turns a ledger multiaddr, e.g. /dns4/ledger.internal/tcp/9090
// or /ip4/127.0.0.1/tcp/9090, into the HTTP RPC endpoint URL.
func ResolveEndpoint(raw string) (string, error) {
	addr, err := ma.NewMultiaddr(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid ledger multiaddr %q: %w", raw, err)
	}
	var host string
	for _, code := range []int{ma.P_DNS4, ma.P_DNS6, ma.P_DNS, ma.P_IP4, ma.P_IP6} {
		if v, err := addr.ValueForProtocol(code); err == nil && v != "" {
			host = v
			break
		}
	}
	if host == "" {
		return "", fmt.Errorf("ledger multiaddr %q carries no host component", raw)
	}
	port, err := addr.ValueForProtocol(ma.P_TCP)
	if err != nil || port == "" {
		return "", fmt.Errorf("ledger multiaddr %q carries no tcp port", raw)
	}
	return "http://" + net.JoinHostPort(host, port) + "/rpc", nil
}

// NewRemoteLedger dials nothing; it validates the multiaddr and returns a
// client bound to the resolved endpoint. Token may be empty.
func NewRemoteLedger(multiaddrStr, token string) (*RemoteLedger, error) {
	endpoint, err := ResolveEndpoint(multiaddrStr)
	if err != nil {
		return nil, err
	}
	return &RemoteLedger{
		endpoint: endpoint,
		token:    strings.TrimSpace(token),
		client:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type remoteRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type remoteError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type remoteResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *remoteError    `json:"error"`
}

type balanceResult struct {
	Balance uint64 `json:"balance"`
}

func (l *RemoteLedger) Issue(ctx context.Context, authority, creditType, account string, amount uint64) (uint64, error) {
	var result balanceResult
	err := l.call(ctx, "ledger_issue", map[string]any{
		"authority":   authority,
		"credit_type": creditType,
		"account":     account,
		"amount":      amount,
	}, &result)
	if err != nil {
		return 0, err
	}
	return result.Balance, nil
}

func (l *RemoteLedger) Retire(ctx context.Context, creditType, account string, amount uint64) (uint64, error) {
	var result balanceResult
	err := l.call(ctx, "ledger_retire", map[string]any{
		"credit_type": creditType,
		"account":     account,
		"amount":      amount,
	}, &result)
	if err != nil {
		return 0, err
	}
	return result.Balance, nil
}

func (l *RemoteLedger) Account(ctx context.Context, account string) (AccountInfo, error) {
	var info AccountInfo
	err := l.call(ctx, "ledger_account", map[string]any{"account": account}, &info)
	if err != nil {
		return AccountInfo{}, err
	}
	return info, nil
}

func (l *RemoteLedger) call(ctx context.Context, method string, params any, out any) error {
	payload, err := json.Marshal(remoteRequest{
		JSONRPC: "2.0",
		ID:      l.seq.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if l.token != "" {
		req.Header.Set("Authorization", "Bearer "+l.token)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("ledger call %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ledger call %s: unexpected status %d", method, resp.StatusCode)
	}

	var decoded remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("ledger call %s: invalid response: %w", method, err)
	}
	if decoded.Error != nil {
		if mapped, ok := remoteCodeToErr[decoded.Error.Code]; ok {
			return mapped
		}
		return fmt.Errorf("ledger call %s failed: code=%d %s", method, decoded.Error.Code, decoded.Error.Message)
	}
	if out != nil {
		if err := json.Unmarshal(decoded.Result, out); err != nil {
			return fmt.Errorf("ledger call %s: invalid result: %w", method, err)
		}
	}
	return nil
}
