package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gorm.io/gorm"

	"github.com/kdigolf/caddie/internal/golf"
	"github.com/kdigolf/caddie/internal/models"
	"github.com/kdigolf/caddie/pkg/database"
)

// statsWindowSize caps the rolling window of recorded carries per club.
const statsWindowSize = 50

var (
	// ErrProfileNotFound is returned when no playing profile exists for the
	// requested account.
	ErrProfileNotFound = errors.New("player profile not found")

	// ErrClubNotFound is returned when a club name is not in the catalog.
	ErrClubNotFound = errors.New("golf club not found")
)

// StatisticsSource tells the caller which distance table served a request.
type StatisticsSource string

const (
	SourcePlayerRecorded StatisticsSource = "player_profile"
	SourceGenderDefaults StatisticsSource = "default_distances"
	SourceStandardTable  StatisticsSource = "standard_distances"
)

// PlayerStatsService serves per-player club distance tables for the
// trajectory engine and keeps the recorded aggregates fresh. Lookup order:
// recorded statistics, then the gender and skill defaults, then the built-in
// standard table.
type PlayerStatsService struct {
	db       *database.DB
	cache    *CacheService
	logger   *logrus.Logger
	cacheTTL time.Duration
}

func NewPlayerStatsService(db *database.DB, cache *CacheService, logger *logrus.Logger, cacheTTL time.Duration) *PlayerStatsService {
	return &PlayerStatsService{
		db:       db,
		cache:    cache,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// ProfileInput is the writable part of a playing profile.
type ProfileInput struct {
	Handicap      *float64          `json:"handicap"`
	Gender        models.Gender     `json:"gender"`
	PreferredHand string            `json:"preferred_hand"`
	YearsPlaying  int               `json:"years_playing"`
	SkillLevel    models.SkillLevel `json:"skill_level"`
	Notes         string            `json:"notes"`
}

type cachedClubTable struct {
	Source StatisticsSource     `json:"source"`
	Clubs  []golf.ClubStatistic `json:"clubs"`
}

// ClubStatistics returns the engine-ready distance table for an account,
// longest club first, and where the table came from.
func (s *PlayerStatsService) ClubStatistics(ctx context.Context, userID string) ([]golf.ClubStatistic, StatisticsSource, error) {
	key := PlayerClubsCacheKey(userID)

	var cached cachedClubTable
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached.Clubs, cached.Source, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.WithError(err).WithField("user_id", userID).Warn("club statistics cache read failed")
	}

	clubs, source, err := s.loadClubTable(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	sort.SliceStable(clubs, func(i, j int) bool {
		return clubs[i].AvgDistance > clubs[j].AvgDistance
	})

	if err := s.cache.Set(ctx, key, cachedClubTable{Source: source, Clubs: clubs}, s.cacheTTL); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("club statistics cache write failed")
	}

	return clubs, source, nil
}

func (s *PlayerStatsService) loadClubTable(ctx context.Context, userID string) ([]golf.ClubStatistic, StatisticsSource, error) {
	var profile models.PlayerProfile
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("ClubStatistics", func(db *gorm.DB) *gorm.DB {
			return db.Order("average_distance_meters DESC")
		}).
		Preload("ClubStatistics.Club").
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return golf.StandardClubs(), SourceStandardTable, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to load player profile: %w", err)
	}

	if len(profile.ClubStatistics) > 0 {
		clubs := make([]golf.ClubStatistic, 0, len(profile.ClubStatistics))
		for i := range profile.ClubStatistics {
			clubs = append(clubs, profile.ClubStatistics[i].ToClubStatistic())
		}
		return clubs, SourcePlayerRecorded, nil
	}

	if defaults := DefaultClubStatistics(profile.Gender, profile.SkillLevel); defaults != nil {
		return defaults, SourceGenderDefaults, nil
	}
	return golf.StandardClubs(), SourceStandardTable, nil
}

// UpsertProfile creates or updates the caddie-side playing profile for an
// externally managed account. The first time gender and skill level are both
// known and the player has no statistics yet, the per-club defaults are
// seeded so the engine starts from realistic carries instead of the generic
// table.
func (s *PlayerStatsService) UpsertProfile(ctx context.Context, userID string, in ProfileInput) (*models.PlayerProfile, error) {
	var profile models.PlayerProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load player profile: %w", err)
	}

	profile.UserID = userID
	profile.Handicap = in.Handicap
	profile.Gender = in.Gender
	profile.PreferredHand = in.PreferredHand
	profile.YearsPlaying = in.YearsPlaying
	profile.SkillLevel = in.SkillLevel
	profile.Notes = in.Notes

	if err := s.db.WithContext(ctx).Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to save player profile: %w", err)
	}

	if err := s.seedClubStatistics(ctx, &profile); err != nil {
		// Seeding is best effort; the profile itself is already saved.
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to seed default club statistics")
	}

	if err := s.cache.Delete(ctx, PlayerClubsCacheKey(userID)); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("club statistics cache invalidation failed")
	}

	return &profile, nil
}

// seedClubStatistics inserts one row per default club, skipping clubs the
// player already has numbers for.
func (s *PlayerStatsService) seedClubStatistics(ctx context.Context, profile *models.PlayerProfile) error {
	defaults := DefaultClubStatistics(profile.Gender, profile.SkillLevel)
	if defaults == nil {
		return nil
	}

	for _, d := range defaults {
		var club models.GolfClub
		err := s.db.WithContext(ctx).Where("name = ?", d.ClubName).First(&club).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %q", ErrClubNotFound, d.ClubName)
		}
		if err != nil {
			return fmt.Errorf("failed to look up club %q: %w", d.ClubName, err)
		}

		var existing models.PlayerClubStatistic
		err = s.db.WithContext(ctx).
			Where("player_profile_id = ? AND golf_club_id = ?", profile.ID, club.ID).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing statistic: %w", err)
		}

		row := models.PlayerClubStatistic{
			PlayerProfileID:       profile.ID,
			GolfClubID:            club.ID,
			AverageDistanceMeters: d.AvgDistance,
			MinDistanceMeters:     d.MinDistance,
			MaxDistanceMeters:     d.MaxDistance,
			AverageErrorMeters:    d.AvgError,
			ErrorStdDeviation:     d.AvgError * defaultErrorStdRatio,
		}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to seed statistic for %q: %w", d.ClubName, err)
		}
	}
	return nil
}

// RecordShot appends a measured carry to the player's rolling window for a
// club and refreshes the aggregates from the window.
func (s *PlayerStatsService) RecordShot(ctx context.Context, userID, clubName string, distanceMeters float64) (*models.PlayerClubStatistic, error) {
	if distanceMeters <= 0 {
		return nil, fmt.Errorf("carry distance must be positive, got %.2f", distanceMeters)
	}

	var profile models.PlayerProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load player profile: %w", err)
	}

	var club models.GolfClub
	err = s.db.WithContext(ctx).Where("name = ?", clubName).First(&club).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrClubNotFound, clubName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up club %q: %w", clubName, err)
	}

	var row models.PlayerClubStatistic
	err = s.db.WithContext(ctx).
		Where("player_profile_id = ? AND golf_club_id = ?", profile.ID, club.ID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.PlayerClubStatistic{
			PlayerProfileID: profile.ID,
			GolfClubID:      club.ID,
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load club statistic: %w", err)
	}

	row.RecentDistances = append(row.RecentDistances, distanceMeters)
	if len(row.RecentDistances) > statsWindowSize {
		row.RecentDistances = row.RecentDistances[len(row.RecentDistances)-statsWindowSize:]
	}
	row.ShotsRecorded++
	RecomputeAggregates(&row)

	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to save club statistic: %w", err)
	}

	if err := s.cache.Delete(ctx, PlayerClubsCacheKey(userID)); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("club statistics cache invalidation failed")
	}

	row.Club = &club
	return &row, nil
}

// RecomputeAggregates refreshes the aggregate columns of one statistic row
// from its rolling window. Dispersion around the window mean stands in for
// the per-shot error. Reports false when the window is empty and the row is
// left untouched.
func RecomputeAggregates(row *models.PlayerClubStatistic) bool {
	window := []float64(row.RecentDistances)
	if len(window) == 0 {
		return false
	}

	mean := stat.Mean(window, nil)

	var mad float64
	for _, d := range window {
		mad += math.Abs(d - mean)
	}
	mad /= float64(len(window))

	var sd float64
	if len(window) > 1 {
		sd = stat.StdDev(window, nil)
	}

	row.AverageDistanceMeters = round2(mean)
	row.MinDistanceMeters = round2(floats.Min(window))
	row.MaxDistanceMeters = round2(floats.Max(window))
	row.AverageErrorMeters = round2(mad)
	row.ErrorStdDeviation = round2(sd)
	return true
}

// RefreshAggregates recomputes aggregates for rows with recorded shots,
// stalest first, at most batchSize rows. Returns how many rows were updated.
func (s *PlayerStatsService) RefreshAggregates(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	var rows []models.PlayerClubStatistic
	err := s.db.WithContext(ctx).
		Where("shots_recorded > 0").
		Order("updated_at ASC").
		Limit(batchSize).
		Find(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load statistics batch: %w", err)
	}

	updated := 0
	touched := make(map[uint]struct{})
	for i := range rows {
		if !RecomputeAggregates(&rows[i]) {
			continue
		}
		if err := s.db.WithContext(ctx).Save(&rows[i]).Error; err != nil {
			return updated, fmt.Errorf("failed to save recomputed statistic: %w", err)
		}
		updated++
		touched[rows[i].PlayerProfileID] = struct{}{}
	}

	s.invalidateProfiles(ctx, touched)
	return updated, nil
}

func (s *PlayerStatsService) invalidateProfiles(ctx context.Context, profileIDs map[uint]struct{}) {
	if len(profileIDs) == 0 || !s.cache.Enabled() {
		return
	}

	ids := make([]uint, 0, len(profileIDs))
	for id := range profileIDs {
		ids = append(ids, id)
	}

	var profiles []models.PlayerProfile
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		s.logger.WithError(err).Warn("failed to resolve profiles for cache invalidation")
		return
	}

	keys := make([]string, 0, len(profiles))
	for i := range profiles {
		keys = append(keys, PlayerClubsCacheKey(profiles[i].UserID))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.WithError(err).Warn("club statistics cache invalidation failed")
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
