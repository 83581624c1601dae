// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package database_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/open-edge-platform/o11y-scanner/internal/clock"
	"github.com/open-edge-platform/o11y-scanner/internal/database"
	"github.com/open-edge-platform/o11y-scanner/internal/database/models"
)

const (
	dbQueryTimeout = 5 * time.Second
)

var db *database.DBService

var _ = Describe("Presets", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		start  time.Time
	)

	BeforeEach(func() {
		dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
		Expect(err).ToNot(HaveOccurred())
		db = &database.DBService{DB: dbConn}
		Expect(database.Migrate(dbConn)).To(Succeed())

		start = time.Date(2025, time.January, 10, 8, 0, 0, 0, time.UTC)
		clock.SetFakeClock()
		clock.FakeClock.Set(start)

		ctx, cancel = context.WithTimeout(context.Background(), dbQueryTimeout)
	})

	AfterEach(func() {
		cancel()
		clock.UnsetFakeClock()

		if db == nil {
			return
		}
		db.DB.Exec("DELETE FROM presets")
		dbConn, err := db.DB.DB()
		Expect(err).ToNot(HaveOccurred())
		Expect(dbConn.Close()).To(Succeed())
	})

	Context("With no presets", func() {
		It("Gets an empty list", func() {
			presets, err := db.GetPresetList(ctx, "edgenode")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(presets).To(BeEmpty())
		})

		It("Fails to get a preset that does not exist", func() {
			preset, err := db.GetPreset(ctx, "edgenode", "missing")
			Expect(err).To(MatchError(gorm.ErrRecordNotFound))
			Expect(preset).To(BeNil())
		})

		It("Fails to delete a preset that does not exist", func() {
			Expect(db.DeletePreset(ctx, "edgenode", "missing")).To(MatchError(gorm.ErrRecordNotFound))
		})

		It("Creates a preset", func() {
			preset, created, err := db.PutPreset(ctx, "edgenode", models.Preset{
				Name:   "point",
				Format: "({},{})",
				Args:   models.NewArgList([]models.ArgType{models.ArgInt, models.ArgInt}),
			})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(created).To(BeTrue())
			Expect(preset).To(PointTo(MatchFields(IgnoreExtras, Fields{
				"Name":      Equal("point"),
				"TenantID":  Equal("edgenode"),
				"CreatedAt": BeTemporally("==", start),
				"UpdatedAt": BeTemporally("==", start),
			})))
			Expect(preset.UUID.String()).ToNot(BeEmpty())
		})

		It("Rejects a preset with an unknown argument type", func() {
			_, _, err := db.PutPreset(ctx, "edgenode", models.Preset{Name: "bad", Format: "{}", Args: "complex"})
			Expect(err).To(MatchError(ContainSubstring(`unknown argument type: "complex"`)))

			presets, err := db.GetPresetList(ctx, "edgenode")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(presets).To(BeEmpty())
		})
	})

	Context("With presets stored", func() {
		BeforeEach(func() {
			for _, p := range []models.Preset{
				{Name: "word", Format: "{}", Args: "string"},
				{Name: "flag", Format: "{:s}", Args: "bool", Locale: "de"},
			} {
				_, created, err := db.PutPreset(ctx, "edgenode", p)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(created).To(BeTrue())
			}
			_, _, err := db.PutPreset(ctx, "other", models.Preset{Name: "word", Format: "{:/[a-z]+/}", Args: "string"})
			Expect(err).ShouldNot(HaveOccurred())
		})

		It("Lists the presets of the tenant by name", func() {
			presets, err := db.GetPresetList(ctx, "edgenode")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(presets).To(HaveLen(2))
			Expect(presets[0].Name).To(Equal("flag"))
			Expect(presets[1].Name).To(Equal("word"))
		})

		It("Keeps presets of other tenants apart", func() {
			preset, err := db.GetPreset(ctx, "other", "word")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(preset.Format).To(Equal("{:/[a-z]+/}"))
		})

		It("Updates an existing preset", func() {
			clock.FakeClock.Add(time.Hour)

			before, err := db.GetPreset(ctx, "edgenode", "flag")
			Expect(err).ShouldNot(HaveOccurred())

			preset, created, err := db.PutPreset(ctx, "edgenode", models.Preset{Name: "flag", Format: "{:i}", Args: "bool"})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(created).To(BeFalse())
			Expect(preset.UUID).To(Equal(before.UUID))
			Expect(preset.Format).To(Equal("{:i}"))
			Expect(preset.Locale).To(BeEmpty())
			Expect(preset.CreatedAt).To(BeTemporally("==", start))
			Expect(preset.UpdatedAt).To(BeTemporally("==", start.Add(time.Hour)))
		})

		It("Deletes a preset", func() {
			Expect(db.DeletePreset(ctx, "edgenode", "word")).To(Succeed())

			_, err := db.GetPreset(ctx, "edgenode", "word")
			Expect(err).To(MatchError(gorm.ErrRecordNotFound))

			_, err = db.GetPreset(ctx, "other", "word")
			Expect(err).ShouldNot(HaveOccurred())
		})

		It("Seeds only missing presets", func() {
			created, err := db.SeedPresets(ctx, "edgenode", []models.Preset{
				{Name: "word", Format: "{:/x/}", Args: "string"},
				{Name: "number", Format: "{}", Args: "int"},
			})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(created).To(Equal(int64(1)))

			word, err := db.GetPreset(ctx, "edgenode", "word")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(word.Format).To(Equal("{}"))
		})

		It("Deletes every preset of a tenant", func() {
			deleted, err := db.DeleteTenantPresets(ctx, "edgenode")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(deleted).To(Equal(int64(2)))

			presets, err := db.GetPresetList(ctx, "other")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(presets).To(HaveLen(1))
		})
	})
})
