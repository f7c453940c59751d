package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/umar-b/BSMS-2/internal/device"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	startLux := 500.0
	if v := os.Getenv("START_LUX"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			startLux = f
		}
	}

	walk := device.NewRandomWalk(startLux, 0.02, rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	emulator := device.NewEmulator(walk)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emulator.Run(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           handlers.LoggingHandler(log.Logger, emulator.Handler()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("port", port).Float64("start_lux", startLux).Msg("iris emulator listening on /data")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("emulator stopped")
}
