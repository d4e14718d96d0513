package daemonserver

import (
	"path/filepath"

	"merit-credit/go-backend/internal/adapters/rpc"
	"merit-credit/go-backend/internal/app"
	"merit-credit/go-backend/internal/bootstrap/creditconfig"
)

// NewRPCServerWithOptions wires config, credit service and RPC transport.
func NewRPCServerWithOptions(rpcAddr, configPath, dataDir string) (*rpc.Server, error) {
	cfg := creditconfig.LoadFromPath(configPath)
	if dataDir != "" && cfg.Credit.StatePath != "" && !filepath.IsAbs(cfg.Credit.StatePath) {
		cfg.Credit.StatePath = filepath.Join(dataDir, cfg.Credit.StatePath)
	}
	svc, err := app.NewService(cfg)
	if err != nil {
		return nil, err
	}
	return rpc.NewServerWithService(rpcAddr, svc, svc.Registry()), nil
}
