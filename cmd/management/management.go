// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/open-edge-platform/o11y-scanner/internal/config"
	"github.com/open-edge-platform/o11y-scanner/internal/database"
	"github.com/open-edge-platform/o11y-scanner/internal/database/models"
	"github.com/open-edge-platform/o11y-scanner/internal/locale"
)

var (
	tenantIDNameRegexp = regexp.MustCompile(`^[a-zA-Z0-9!_\-.*'()]+$`)
)

type server struct {
	presets []models.Preset

	grpcServer *grpc.Server
	seeder     database.PresetSeeder
	port       int
}

func main() {
	port := flag.Int("port", 51001, "gRPC server port")
	configFile := flag.String("config", "/config/config.yaml", "config file path")
	flag.Parse()

	conf, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Panicf("Failed to load config: %v", err)
	}

	locales := locale.Builtin()
	if conf.Scanner.LocaleFile != "" {
		if locales, err = locale.LoadTable(conf.Scanner.LocaleFile); err != nil {
			log.Panicf("Failed to load locales: %v", err)
		}
	}

	var presets []models.Preset
	if conf.Presets.SeedFile != "" {
		presets, err = loadPresets(conf.Presets.SeedFile, locales)
		if err != nil {
			log.Panicf("Failed to load presets: %v", err)
		}
	}

	dbConn, err := database.ConnectDB()
	if err != nil {
		log.Panic(err)
	}

	sqlDB, err := dbConn.DB()
	if err != nil {
		log.Panic(err)
	}
	defer func() {
		err := sqlDB.Close()
		if err != nil {
			log.Printf("Error appeared when closing database connection: %v", err)
		}
	}()

	if err := database.Migrate(dbConn); err != nil {
		log.Panic(err)
	}

	s := server{
		presets:    presets,
		grpcServer: grpc.NewServer(),
		seeder:     &database.DBService{DB: dbConn},
		port:       *port,
	}

	rows, err := s.seeder.SeedPresets(context.Background(), conf.Presets.DefaultTenant, s.presets)
	if err != nil {
		log.Panicf("Failed to initialize defaults: %v", err)
	}
	log.Printf("Presets for default tenant %q initialized successfully, %d created.", conf.Presets.DefaultTenant, rows)

	lis, err := net.Listen("tcp", ":"+strconv.Itoa(s.port))
	if err != nil {
		log.Panicf("Failed to listen: %v", err)
	}
	log.Printf("Server listening on :%v", s.port)

	// Register the health service
	healthCheck := health.NewServer()
	healthCheck.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(s.grpcServer, healthCheck)

	registerManagementServer(s.grpcServer, &s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		<-ctx.Done()
		stop()

		log.Println("Got termination/interruption signal, attempting graceful shutdown.")
		stopped := make(chan struct{})
		go func() {
			s.grpcServer.GracefulStop()
			close(stopped)
		}()

		dur := conf.Server.ShutdownTimeout
		t := time.NewTimer(dur)
		select {
		case <-t.C:
			log.Printf("Graceful shutdown could not be completed within %q, attempting ungraceful shutdown.", dur)
			s.grpcServer.Stop()
		case <-stopped:
			t.Stop()
		}

		wg.Done()
	}()

	log.Println("Starting grpc server.")
	if err := s.grpcServer.Serve(lis); err != nil {
		log.Panicf("Failed to serve: %v", err)
	}
	wg.Wait()
	log.Println("Shutdown completed.")
}

// InitializeTenant installs the seed presets the tenant does not have yet.
func (s *server) InitializeTenant(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	log.Printf("Received initialization request for tenant: %q", req.GetValue())
	if err := validateTenantID(req.GetValue()); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	rowsAffected, err := s.seeder.SeedPresets(ctx, req.GetValue(), s.presets)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "initialization of tenant %q failed: %v", req.GetValue(), err)
	}

	if rowsAffected == 0 {
		return nil, status.Errorf(codes.AlreadyExists, "tenant %q had already been initialized before", req.GetValue())
	}
	return &emptypb.Empty{}, nil
}

// CleanupTenant removes every preset of the tenant.
func (s *server) CleanupTenant(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	log.Printf("Received cleanup request for tenant: %q", req.GetValue())
	if err := validateTenantID(req.GetValue()); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	rowsAffected, err := s.seeder.DeleteTenantPresets(ctx, req.GetValue())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "cleanup of tenant %q failed: %v", req.GetValue(), err)
	}

	if rowsAffected == 0 {
		return nil, status.Errorf(codes.NotFound, "tenant %q had already been cleaned up before", req.GetValue())
	}
	return &emptypb.Empty{}, nil
}

// validateTenantID applies the same restrictions as the tenant IDs of the metrics backend.
func validateTenantID(tenantID string) error {
	// Check if tenantID is empty.
	if len(strings.TrimSpace(tenantID)) == 0 {
		return errors.New("tenantID cannot be empty")
	}

	// tenantID must be <= 150 bytes or characters in length.
	if len(tenantID) > 150 {
		return errors.New("tenantID exceeds 150 characters")
	}

	// Forbidden tenantID patterns.
	if tenantID == "." || tenantID == ".." {
		return errors.New("tenantID cannot be '.' or '..'")
	}

	// Only allowed characters: Alphanumeric + special characters defined.
	matches := tenantIDNameRegexp.MatchString(tenantID)
	if !matches {
		return errors.New("tenantID contains unsupported characters")
	}

	return nil
}
