package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"consensus-market/internal/api"
	"consensus-market/internal/api/handlers"
	"consensus-market/internal/config"
	"consensus-market/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/zeromicro/go-zero/core/logx"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid environment:", err)
		os.Exit(2)
	}
	logging.Setup(env.LogLevel)

	if env.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := handlers.NewRegistry(env.MarketTTL)
	defer registry.Close()
	router := api.NewRouter(handlers.NewMarketHandler(registry), env.CORSOrigins)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", env.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logx.Infof("Starting API server on %s (env %s, market ttl %s)", srv.Addr, env.Mode, env.MarketTTL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Errorf("Failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logx.Errorf("Shutdown: %v", err)
	}
	logx.Info("server stopped")
}
