// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"github.com/open-edge-platform/o11y-scanner/api/v1"
	"github.com/open-edge-platform/o11y-scanner/internal/config"
	"github.com/open-edge-platform/o11y-scanner/internal/locale"
	"github.com/open-edge-platform/o11y-scanner/internal/metrics"
)

var logger *slog.Logger

func StartServer(port int, conf config.Config, logLvl string, db *gorm.DB, locales *locale.Table) {
	// Creating new Echo server
	e := echo.New()

	// Create a custom logger using slog
	opts := setLogLvl(e, logLvl)
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &opts))

	// Set slog logger as the default logger so scans log per-argument records through it.
	slog.SetDefault(logger)

	rec := metrics.NewRecorder()
	serverInterface := NewServerInterfaceHandler(conf, db, locales, rec)

	sqlDB, err := db.DB()
	if err != nil {
		e.Logger.Panic(err)
	}
	defer sqlDB.Close()

	// Registering API call handlers
	api.RegisterHandlers(e, serverInterface)
	e.GET("/metrics", echo.WrapHandler(rec.Handler()))

	// Middleware
	e.Use(middleware.BodyLimit(conf.Server.BodyLimit))
	e.Use(middleware.Recover())
	// Use middleware to log requests with the custom logger
	e.Use(middleware.RequestLoggerWithConfig(
		middleware.RequestLoggerConfig{
			// NOTE: skipping GET requests from curl/kube-probe to /api/v1/status
			// in order to not log incoming readiness/liveness probes requests
			Skipper:      skipLog,
			LogURI:       true,
			LogStatus:    true,
			LogError:     true,
			LogUserAgent: true,
			LogMethod:    true,
			LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
				if v.Error != nil {
					logger.LogAttrs(context.Background(), slog.LevelError, "REQUEST_ERROR",
						slog.String("uri", v.URI),
						slog.Int("status", v.Status),
						slog.String("user-agent", v.UserAgent),
						slog.String("method", v.Method),
						slog.String("error", v.Error.Error()),
					)
				} else {
					logger.LogAttrs(context.Background(), slog.LevelInfo, "REQUEST",
						slog.String("uri", v.URI),
						slog.Int("status", v.Status),
						slog.String("user-agent", v.UserAgent),
						slog.String("method", v.Method),
					)
				}
				return nil
			},
		},
	))

	// Print welcome message in logs
	welcomeMessage(e, conf, logLvl, port, locales)

	// Start server
	go func() {
		if err := e.Start(fmt.Sprintf(":%v", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Panic("Server shutdown")
		}
	}()

	// Graceful shutdown after interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	ctxTimeout, cancelTimeout := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancelTimeout()
	if err := e.Shutdown(ctxTimeout); err != nil {
		e.Logger.Panic(err)
	}
}

func setLogLvl(e *echo.Echo, logLvl string) slog.HandlerOptions {
	switch logLvl {
	case "debug":
		e.Logger.SetLevel(log.DEBUG)
		return slog.HandlerOptions{
			Level: slog.LevelDebug,
		}
	case "info":
		e.Logger.SetLevel(log.INFO)
		return slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
	case "warn":
		e.Logger.SetLevel(log.WARN)
		return slog.HandlerOptions{
			Level: slog.LevelWarn,
		}
	case "error":
		e.Logger.SetLevel(log.ERROR)
		return slog.HandlerOptions{
			Level: slog.LevelError,
		}
	default:
		e.Logger.SetLevel(log.INFO)
		return slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
	}
}

func welcomeMessage(e *echo.Echo, cfg config.Config, logLvl string, port int, locales *locale.Table) {
	e.HidePort = true
	e.HideBanner = true
	fmt.Println("Scanner")
	fmt.Printf("⇨ Log level: %s\n", logLvl)
	fmt.Printf("⇨ HTTP server port: %d\n", port)
	if locales != nil {
		fmt.Printf("⇨ Locales: %s\n", strings.Join(locales.Tags(), ", "))
	}
	fmt.Println("Configuration:")
	printStruct("Server", cfg.Server)
	printStruct("Scanner", cfg.Scanner)
	printStruct("Presets", cfg.Presets)
}

func printStruct(header string, obj any) {
	fmt.Printf("⇨ %s:\n", header)
	vals := reflect.ValueOf(obj)
	types := vals.Type()
	for i := 0; i < vals.NumField(); i++ {
		fmt.Printf("  %s: %v\n", types.Field(i).Name, vals.Field(i))
	}
}
