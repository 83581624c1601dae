// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log"
	"net"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/open-edge-platform/o11y-scanner/internal/database"
	"github.com/open-edge-platform/o11y-scanner/internal/database/models"
	"github.com/open-edge-platform/o11y-scanner/internal/locale"
)

const (
	dbQueryTimeout              = 5 * time.Second
	expectedNumberOfSeedPresets = 5
)

type management struct {
	s      *server
	db     *gorm.DB
	client *managementClient
	health grpc_health_v1.HealthClient
	closer func()
}

var mgmt *management

var _ = Describe("Management", Ordered, func() {
	BeforeAll(func() {
		dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
		Expect(err).ToNot(HaveOccurred())
		Expect(database.Migrate(dbConn)).To(Succeed())

		presets, err := loadPresets("testdata/presets.yaml", locale.Builtin())
		Expect(err).ToNot(HaveOccurred())

		lis := bufconn.Listen(1024 * 1024)
		s := &server{
			presets:    presets,
			grpcServer: grpc.NewServer(),
			seeder:     &database.DBService{DB: dbConn},
		}

		healthCheck := health.NewServer()
		healthCheck.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
		grpc_health_v1.RegisterHealthServer(s.grpcServer, healthCheck)

		registerManagementServer(s.grpcServer, s)
		go func() {
			if err := s.grpcServer.Serve(lis); err != nil {
				log.Printf("Error serving server: %v", err)
			}
		}()

		conn, err := grpc.NewClient(
			"passthrough://bufnet",
			grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
				return lis.Dial()
			}),
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
		Expect(err).ToNot(HaveOccurred())

		closer := func() {
			Expect(conn.Close()).To(Succeed())
			Expect(lis.Close()).To(Succeed())

			s.grpcServer.Stop()

			sqlDB, err := dbConn.DB()
			Expect(err).ToNot(HaveOccurred())
			Expect(sqlDB.Close()).To(Succeed())
		}

		mgmt = &management{
			s:      s,
			db:     dbConn,
			client: &managementClient{cc: conn},
			health: grpc_health_v1.NewHealthClient(conn),
			closer: closer,
		}
	})

	AfterAll(func() {
		if mgmt == nil {
			return
		}
		mgmt.closer()
	})

	It("Health service should report serving", func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
		defer cancel()

		resp, err := mgmt.health.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(resp.GetStatus()).To(Equal(grpc_health_v1.HealthCheckResponse_SERVING))
	})

	It("Table should be empty at the beginning", func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
		defer cancel()

		count, err := mgmt.count(ctx, "")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(count).To(BeZero())
	})

	It("Seed default tenant - presets should be created", func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
		defer cancel()

		rows, err := mgmt.s.seeder.SeedPresets(ctx, "edgenode", mgmt.s.presets)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(rows).To(BeEquivalentTo(expectedNumberOfSeedPresets))

		count, err := mgmt.count(ctx, "edgenode")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(count).To(BeEquivalentTo(expectedNumberOfSeedPresets))
	})

	It("Seed default tenant again - no new rows should be added", func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
		defer cancel()

		rows, err := mgmt.s.seeder.SeedPresets(ctx, "edgenode", mgmt.s.presets)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(rows).To(BeZero())

		count, err := mgmt.count(ctx, "")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(count).To(BeEquivalentTo(expectedNumberOfSeedPresets))
	})

	It("Create new tenant using gRPC endpoint - presets should be created for it", func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
		defer cancel()

		Expect(mgmt.client.InitializeTenant(ctx, "grpc_tenant")).To(Succeed())

		count, err := mgmt.count(ctx, "grpc_tenant")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(count).To(BeEquivalentTo(expectedNumberOfSeedPresets))

		count, err = mgmt.count(ctx, "")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(count).To(BeEquivalentTo(2 * expectedNumberOfSeedPresets))

		var preset models.Preset
		Expect(mgmt.db.WithContext(ctx).
			Where("tenant_id = ?", "grpc_tenant").
			Where("name = ?", "temperature").
			Take(&preset).Error).To(Succeed())
		Expect(preset.Locale).To(Equal("de"))
		Expect(preset.Args.Types()).To(Equal([]models.ArgType{models.ArgString, models.ArgFloat}))
	})

	DescribeTable("Create new tenant with invalid name using gRPC endpoint - no new rows should be added",
		func(tenant string) {
			ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
			defer cancel()

			err := mgmt.client.InitializeTenant(ctx, tenant)
			Expect(err).To(MatchError(func(err error) bool {
				return status.Code(err) == codes.InvalidArgument
			}, "InvalidArgument"))

			count, err := mgmt.count(ctx, "")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(count).To(BeEquivalentTo(2 * expectedNumberOfSeedPresets))
		},
		Entry("blank", " "),
		Entry("dot", "."),
		Entry("unsupported characters", "tenant/1"),
		Entry("too long", strings.Repeat("t", 151)),
	)

	It("Create new tenant with existing name using gRPC endpoint - error should appear", func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
		defer cancel()

		err := mgmt.client.InitializeTenant(ctx, "grpc_tenant")
		Expect(err).To(MatchError(func(err error) bool {
			return status.Code(err) == codes.AlreadyExists
		}, "AlreadyExists"))

		count, err := mgmt.count(ctx, "")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(count).To(BeEquivalentTo(2 * expectedNumberOfSeedPresets))
	})

	It("Cleanup existing tenant using gRPC endpoint - presets should be removed", func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
		defer cancel()

		Expect(mgmt.client.CleanupTenant(ctx, "grpc_tenant")).To(Succeed())

		count, err := mgmt.count(ctx, "grpc_tenant")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(count).To(BeZero())

		count, err = mgmt.count(ctx, "")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(count).To(BeEquivalentTo(expectedNumberOfSeedPresets))
	})

	It("Cleanup tenant with invalid name using gRPC endpoint - error should appear", func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
		defer cancel()

		err := mgmt.client.CleanupTenant(ctx, " ")
		Expect(err).To(MatchError(func(err error) bool {
			return status.Code(err) == codes.InvalidArgument
		}, "InvalidArgument"))
	})

	It("Cleanup tenant with not existing name using gRPC endpoint - error should appear and no rows should be removed", func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
		defer cancel()

		err := mgmt.client.CleanupTenant(ctx, "does_not_exist")
		Expect(err).To(MatchError(func(err error) bool {
			return status.Code(err) == codes.NotFound
		}, "NotFound"))

		count, err := mgmt.count(ctx, "")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(count).To(BeEquivalentTo(expectedNumberOfSeedPresets))
	})
})

var _ = Describe("Seed presets file", func() {
	It("Loads every preset of a valid file", func() {
		presets, err := loadPresets("testdata/presets.yaml", locale.Builtin())
		Expect(err).ToNot(HaveOccurred())
		Expect(presets).To(HaveLen(expectedNumberOfSeedPresets))
		Expect(presets[0].Name).To(Equal("key-value"))
		Expect(presets[0].Args).To(Equal(models.ArgList("matches")))
		Expect(presets[4].Args).To(Equal(models.ArgList("chars:4,bool")))
	})

	DescribeTable("Rejects invalid files",
		func(file, expectedErr string) {
			_, err := loadPresets(file, locale.Builtin())
			Expect(err).To(MatchError(ContainSubstring(expectedErr)))
		},
		Entry("missing file", "testdata/missing.yaml", "failed to read file"),
		Entry("duplicate name", "testdata/duplicate.yaml", `preset "pair" is defined more than once`),
		Entry("invalid format", "testdata/invalid_format.yaml", `invalid preset "broken"`),
		Entry("unknown field", "testdata/unknown_field.yaml", "failed to unmarshal"),
	)
})

// count returns the number of presets of a tenant, or of every tenant when tenant is empty.
func (m *management) count(ctx context.Context, tenant string) (int64, error) {
	var count int64

	tx := m.db.WithContext(ctx).Model(&models.Preset{})
	if tenant != "" {
		tx = tx.Where("tenant_id = ?", tenant)
	}
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
