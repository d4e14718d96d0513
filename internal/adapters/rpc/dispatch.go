package rpc

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"merit-credit/go-backend/internal/credit"
)

type balanceResult struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

type configResult struct {
	Administrator string `json:"administrator"`
	CreditType    string `json:"credit_type"`
	Initialized   bool   `json:"initialized"`
}

func (s *Server) dispatchRPC(r *http.Request, method string, rawParams json.RawMessage) (any, *rpcError) {
	switch method {
	case "health_check":
		return map[string]string{"status": "ok"}, nil
	case "credit_initialize":
		return s.rpcInitialize(r, rawParams)
	case "credit_award":
		return s.rpcAward(r, rawParams)
	case "credit_redeem":
		return s.rpcRedeem(r, rawParams)
	case "credit_rotate_admin":
		return s.rpcRotateAdmin(r, rawParams)
	case "credit_balance":
		return s.rpcBalance(r, rawParams)
	case "credit_config":
		return s.rpcConfig()
	case "identity_register":
		return s.rpcRegisterIdentity(rawParams)
	case "account_create":
		return s.rpcCreateAccount(r, rawParams)
	default:
		return nil, &rpcError{Code: -32601, Message: "method not found"}
	}
}

func (s *Server) rpcInitialize(r *http.Request, raw json.RawMessage) (any, *rpcError) {
	var p struct {
		Administrator string `json:"administrator"`
		CreditType    string `json:"credit_type"`
	}
	if err := decodeObjectParams(raw, &p); err != nil {
		return nil, rpcInvalidParams()
	}
	if strings.TrimSpace(p.Administrator) == "" || strings.TrimSpace(p.CreditType) == "" {
		return nil, rpcInvalidParams()
	}
	record, err := s.service.Initialize(r.Context(), p.Administrator, p.CreditType)
	if err != nil {
		return nil, mapCreditRPCError(err)
	}
	return toConfigResult(record), nil
}

func (s *Server) rpcAward(r *http.Request, raw json.RawMessage) (any, *rpcError) {
	req, rpcErr := decodeOperationParams(raw, credit.KindIssue)
	if rpcErr != nil {
		return nil, rpcErr
	}
	balance, err := s.service.Award(r.Context(), req)
	if err != nil {
		return nil, mapCreditRPCError(err)
	}
	return balanceResult{Account: req.TargetAccount, Balance: balance}, nil
}

func (s *Server) rpcRedeem(r *http.Request, raw json.RawMessage) (any, *rpcError) {
	req, rpcErr := decodeOperationParams(raw, credit.KindRetire)
	if rpcErr != nil {
		return nil, rpcErr
	}
	balance, err := s.service.Redeem(r.Context(), req)
	if err != nil {
		return nil, mapCreditRPCError(err)
	}
	return balanceResult{Account: req.TargetAccount, Balance: balance}, nil
}

func (s *Server) rpcRotateAdmin(r *http.Request, raw json.RawMessage) (any, *rpcError) {
	var p struct {
		Signer           string `json:"signer"`
		Signature        string `json:"signature"`
		NewAdministrator string `json:"new_administrator"`
		Nonce            string `json:"nonce"`
	}
	if err := decodeObjectParams(raw, &p); err != nil {
		return nil, rpcInvalidParams()
	}
	if strings.TrimSpace(p.Signer) == "" || strings.TrimSpace(p.NewAdministrator) == "" {
		return nil, rpcInvalidParams()
	}
	sig, err := base64.StdEncoding.DecodeString(p.Signature)
	if err != nil || len(sig) == 0 {
		return nil, rpcInvalidParams()
	}
	record, err := s.service.RotateAdministrator(r.Context(), credit.OperationRequest{
		Kind:             credit.KindRotateAdmin,
		Signer:           p.Signer,
		Signature:        sig,
		NewAdministrator: p.NewAdministrator,
		Nonce:            p.Nonce,
	})
	if err != nil {
		return nil, mapCreditRPCError(err)
	}
	return toConfigResult(record), nil
}

func (s *Server) rpcBalance(r *http.Request, raw json.RawMessage) (any, *rpcError) {
	account, err := decodeSingleStringParam(raw, "account")
	if err != nil {
		return nil, rpcInvalidParams()
	}
	balance, svcErr := s.service.Balance(r.Context(), account)
	if svcErr != nil {
		return nil, mapCreditRPCError(svcErr)
	}
	return balanceResult{Account: account, Balance: balance}, nil
}

func (s *Server) rpcConfig() (any, *rpcError) {
	record, err := s.service.Config()
	if err != nil {
		return nil, mapCreditRPCError(err)
	}
	return toConfigResult(record), nil
}

func (s *Server) rpcRegisterIdentity(raw json.RawMessage) (any, *rpcError) {
	var p struct {
		IdentityID string `json:"identity_id"`
		PublicKey  string `json:"public_key"`
	}
	if err := decodeObjectParams(raw, &p); err != nil {
		return nil, rpcInvalidParams()
	}
	if strings.TrimSpace(p.IdentityID) == "" || strings.TrimSpace(p.PublicKey) == "" {
		return nil, rpcInvalidParams()
	}
	pub, err := base64.StdEncoding.DecodeString(p.PublicKey)
	if err != nil {
		return nil, rpcInvalidParams()
	}
	if err := s.service.RegisterIdentity(p.IdentityID, pub); err != nil {
		return nil, mapCreditRPCError(err)
	}
	return map[string]string{"identity_id": p.IdentityID}, nil
}

func (s *Server) rpcCreateAccount(r *http.Request, raw json.RawMessage) (any, *rpcError) {
	owner, err := decodeSingleStringParam(raw, "owner")
	if err != nil {
		return nil, rpcInvalidParams()
	}
	account, svcErr := s.service.CreateAccount(r.Context(), owner)
	if svcErr != nil {
		return nil, mapCreditRPCError(svcErr)
	}
	return map[string]string{"account": account, "owner": owner}, nil
}

func decodeOperationParams(raw json.RawMessage, kind credit.OperationKind) (credit.OperationRequest, *rpcError) {
	var p struct {
		Signer        string `json:"signer"`
		Signature     string `json:"signature"`
		TargetAccount string `json:"target_account"`
		Amount        int64  `json:"amount"`
		Nonce         string `json:"nonce"`
	}
	if err := decodeObjectParams(raw, &p); err != nil {
		return credit.OperationRequest{}, rpcInvalidParams()
	}
	if strings.TrimSpace(p.Signer) == "" || strings.TrimSpace(p.TargetAccount) == "" {
		return credit.OperationRequest{}, rpcInvalidParams()
	}
	sig, err := base64.StdEncoding.DecodeString(p.Signature)
	if err != nil || len(sig) == 0 {
		return credit.OperationRequest{}, rpcInvalidParams()
	}
	return credit.OperationRequest{
		Kind:          kind,
		Signer:        p.Signer,
		Signature:     sig,
		TargetAccount: p.TargetAccount,
		Amount:        p.Amount,
		Nonce:         p.Nonce,
	}, nil
}

// decodeObjectParams accepts either { ... } or the positional wrapper [ { ... } ].
func decodeObjectParams(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return errInvalidParams
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		if len(arr) != 1 {
			return errInvalidParams
		}
		raw = arr[0]
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errInvalidParams
	}
	return nil
}

func decodeSingleStringParam(raw json.RawMessage, field string) (string, error) {
	var arr []string
	if err := json.Unmarshal(raw, &arr); err == nil && len(arr) == 1 && strings.TrimSpace(arr[0]) != "" {
		return arr[0], nil
	}
	var obj map[string]string
	if err := json.Unmarshal(raw, &obj); err == nil && strings.TrimSpace(obj[field]) != "" {
		return obj[field], nil
	}
	return "", errInvalidParams
}

func toConfigResult(record credit.ConfigRecord) configResult {
	return configResult{
		Administrator: record.Administrator,
		CreditType:    record.CreditType,
		Initialized:   record.Initialized,
	}
}
