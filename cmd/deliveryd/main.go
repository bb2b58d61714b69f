package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/savioluz/deliveryitaueira/config"
	"github.com/savioluz/deliveryitaueira/internal/adminapi"
	"github.com/savioluz/deliveryitaueira/internal/app"
	"github.com/savioluz/deliveryitaueira/internal/catalog"
	"github.com/savioluz/deliveryitaueira/internal/orders"
	"github.com/savioluz/deliveryitaueira/internal/storeapi"
	"github.com/savioluz/deliveryitaueira/internal/webserver"
)

var (
	configFile = flag.String("c", "deliveryitaueira.yml", "config file path")
	showVer    = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println("deliveryd", version)
		return
	}

	path := *configFile
	if _, err := os.Stat(path); err != nil {
		path = ""
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	if err := application.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "init failed:", err)
		os.Exit(1)
	}
	defer application.Release()

	catalogService := catalog.NewService(application.Store(), application.Node())
	orderService := orders.NewService(application.Store(), application.Node(), application.Bus())

	server := webserver.New(cfg)
	storeapi.NewHandler(application.Store(), catalogService, orderService).Register(server.Echo())
	adminapi.NewHandler(application, catalogService, orderService).Register(server.Echo())

	application.StartBackgroundJobs()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zap.L().Fatal("web server failed", zap.Error(err))
		}
	case sig := <-quit:
		zap.L().Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			zap.L().Error("shutdown error", zap.Error(err))
		}
	}
}
