package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prodiny/collegehub/internal/api"
	"github.com/prodiny/collegehub/internal/chat"
	"github.com/prodiny/collegehub/internal/config"
	"github.com/prodiny/collegehub/internal/database"
	"github.com/prodiny/collegehub/internal/stats"
)

const defaultSigningKey = "5z1r5R1W8nmUG0XV+2o0DbN0ZEPM4xkhUyoJdGnwQBY="

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

var (
	addr           string
	dsn            string
	signingKey     string
	allowedOrigins stringSliceFlag
)

func main() {
	envAddr, envDsn, envKey, envOrigins, err := config.FromEnv()
	if err != nil {
		log.Fatal("config env:", err)
	}
	if envAddr == "" {
		envAddr = "localhost:8000"
	}
	if envDsn == "" {
		envDsn = "host=localhost user=postgres password=postgres dbname=postgres sslmode=disable"
	}
	if envKey == "" {
		envKey = defaultSigningKey
	}

	flag.StringVar(&addr, "addr", envAddr, "server address")
	flag.StringVar(&dsn, "dsn", envDsn, "database connection string")
	flag.StringVar(&signingKey, "signing-key", envKey, "base64 encoded signing key")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS")
	flag.Parse()

	if len(allowedOrigins) == 0 {
		allowedOrigins = envOrigins
	}

	logger := log.New(os.Stderr, "[collegehub] ", log.LstdFlags)

	cfg, err := config.NewConfig(addr, dsn, signingKey, allowedOrigins)
	if err != nil {
		logger.Fatal("config:", err)
	}

	dbConn, err := database.NewPgCollegeHubRepository(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("db open:", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Fatal("db close:", err)
		}
	}()

	if err := dbConn.Migrate(); err != nil {
		logger.Fatal("db migrate:", err)
	}

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	registry := chat.NewRegistry()
	gateway, err := chat.NewGateway(logger, dbConn, registry, statsUpdater)
	if err != nil {
		logger.Fatal("new chat gateway:", err)
	}

	srv := api.NewCollegeHubApp(mux, logger, gateway, dbConn, statsUpdater, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	logger.Println("closing chat connections...")
	gateway.Shutdown()

	logger.Println("shutdown complete")
}
