package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"merit-credit/go-backend/internal/composition/daemonserver"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	rpcAddr := flag.String("rpc-addr", "127.0.0.1:8547", "JSON-RPC listen address")
	configPath := flag.String("config", "", "Path to config.yaml (optional)")
	dataDir := flag.String("data-dir", "", "Directory for daemon local data (optional)")
	rpcToken := flag.String("rpc-token", "", "RPC token for Authorization/X-Merit-RPC-Token (optional)")
	ledgerMode := flag.String("ledger", "", "Ledger backend override: memory | remote")
	flag.Parse()
	if *showVersion {
		fmt.Printf("creditd version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *rpcToken != "" {
		_ = os.Setenv("MERIT_RPC_TOKEN", *rpcToken)
	}
	if *ledgerMode != "" {
		_ = os.Setenv("MERIT_LEDGER_MODE", *ledgerMode)
	}

	srv, err := daemonserver.NewRPCServerWithOptions(*rpcAddr, *configPath, *dataDir)
	if err != nil {
		log.Fatalf("creditd failed to initialize: %v", err)
	}

	log.Println("creditd starting")
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("creditd failed: %v", err)
	}
	log.Println("creditd stopped")
}
