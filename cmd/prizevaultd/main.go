package main

import (
	"flag"
	"os"
	"strings"

	"prizevault/config"
	"prizevault/integrations/assetbook"
	"prizevault/native/lottery"
	"prizevault/observability/logging"
	"prizevault/observability/metrics"
	"prizevault/rpc"
	"prizevault/state"
	"prizevault/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("PRIZEVAULT_ENV"))
	logger := logging.Setup("prizevaultd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "err", err)
		os.Exit(1)
	}
	price, err := cfg.DrawPrice()
	if err != nil {
		logger.Error("invalid draw price", "err", err)
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DataDir, "err", err)
		os.Exit(1)
	}
	defer db.Close()

	manager := state.NewManager(db)
	engine, err := lottery.NewEngine(manager, lottery.EngineConfig{
		Owner:            cfg.OwnerAddress(),
		Oracle:           cfg.OracleAddress(),
		PaymentToken:     cfg.PaymentTokenAddress(),
		Custody:          cfg.CustodyAddress(),
		DefaultDrawPrice: price,
	})
	if err != nil {
		logger.Error("failed to initialise engine", "err", err)
		os.Exit(1)
	}
	book := assetbook.NewBook(manager, cfg.CustodyAddress())
	engine.SetAssets(book)

	snap := engine.CatalogSnapshot()
	metrics.Lottery().SetCatalogEntries(len(snap.Entries))
	metrics.Lottery().SetCollectedBalance(engine.Collected())
	logger.Info("engine ready",
		"catalogEntries", len(snap.Entries),
		"totalWeight", snap.TotalWeight.String(),
		"drawPrice", engine.DrawPrice().String(),
		"paused", engine.Paused(),
	)

	server := rpc.NewServer(engine, book, logger)
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("rpc server stopped", "err", err)
		os.Exit(1)
	}
}
