package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"fishmarket/internal/config"
	httpapi "fishmarket/internal/http"
	"fishmarket/internal/logger"
	"fishmarket/internal/repository"
	"fishmarket/internal/service"
)

func main() {
	cfgPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	log, err := logger.New("fishmarket")
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	cfg := config.Default()
	path := *cfgPath
	if path == "" {
		path, err = config.FindConfig()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Fatal("find config", zap.Error(err))
		}
	}
	if path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			log.Fatal("load config", zap.String("path", path), zap.Error(err))
		}
	}

	store, err := repository.Open(cfg.Storage.Path)
	if err != nil {
		log.Fatal("open store", zap.String("path", cfg.Storage.Path), zap.Error(err))
	}
	ordersRepo := repository.NewFileOrders(store)
	tx := repository.NewFileTx(store)

	catalogSvc := service.NewCatalogService(store)
	ordersSvc := service.NewOrderService(store, ordersRepo, tx)

	srv := httpapi.NewServer(catalogSvc, ordersSvc, log, cfg.Web.Dir)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
