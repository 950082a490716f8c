package nflverse

import (
	"context"
	"fmt"

	"github.com/fortuna/gridiron/internal/identity"
	"github.com/fortuna/gridiron/internal/scoring"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
	"github.com/sirupsen/logrus"
)

// Ingester pulls nflverse release assets into the warehouse.
type Ingester struct {
	client     *Client
	playRepo   *repository.PlayRepository
	weeklyRepo *repository.WeeklyStatsRepository
	refRepo    *repository.ReferenceRepository
	logger     *logrus.Logger
}

// NewIngester creates an ingester over the given database. An empty baseURL
// uses the public nflverse releases.
func NewIngester(db *store.Database, baseURL string, logger *logrus.Logger) *Ingester {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Ingester{
		client:     NewClient(baseURL, logger),
		playRepo:   repository.NewPlayRepository(db),
		weeklyRepo: repository.NewWeeklyStatsRepository(db),
		refRepo:    repository.NewReferenceRepository(db),
		logger:     logger,
	}
}

// IngestPlays downloads the season play-by-play and upserts it into the
// bronze layer. An empty weeks filter loads the whole season. Returns the
// number of rows written.
func (i *Ingester) IngestPlays(ctx context.Context, season int, weeks []int) (int, error) {
	r, err := i.client.FetchPlayByPlay(ctx, season)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	plays, err := ParsePlays(r, season)
	if err != nil {
		return 0, err
	}

	if len(weeks) > 0 {
		keep := make(map[int]bool, len(weeks))
		for _, w := range weeks {
			keep[w] = true
		}
		filtered := plays[:0]
		for _, p := range plays {
			if keep[p.Week] {
				filtered = append(filtered, p)
			}
		}
		plays = filtered
	}

	written, err := i.playRepo.UpsertBatch(ctx, plays)
	if err != nil {
		return written, fmt.Errorf("upsert plays: %w", err)
	}

	i.logger.WithFields(logrus.Fields{
		"season": season,
		"plays":  written,
	}).Info("✓ play-by-play ingested")
	return written, nil
}

// IngestWeekly downloads weekly player stats for one week (week 0 loads the
// whole season), enriches them with snap counts, derives fantasy scores, and
// upserts both tables. Returns the number of player-weeks written.
func (i *Ingester) IngestWeekly(ctx context.Context, season, week int) (int, error) {
	r, err := i.client.FetchPlayerStats(ctx, season)
	if err != nil {
		return 0, err
	}
	stats, err := ParseWeeklyStats(r, season, week)
	r.Close()
	if err != nil {
		return 0, err
	}

	if len(stats) == 0 {
		i.logger.WithFields(logrus.Fields{"season": season, "week": week}).
			Warn("no weekly stats available yet")
		return 0, nil
	}

	if err := i.enrichSnaps(ctx, season, stats); err != nil {
		// Snap counts lag the stats release; proceed without them.
		i.logger.WithError(err).Warn("snap counts unavailable, continuing without snap shares")
	}

	written := 0
	for _, s := range stats {
		if err := i.weeklyRepo.UpsertPlayerWeekStat(ctx, s); err != nil {
			return written, fmt.Errorf("upsert stats for %s week %d: %w", s.PlayerID, s.Week, err)
		}

		score := scoreFor(s)
		if err := i.weeklyRepo.UpsertPlayerScore(ctx, score); err != nil {
			return written, fmt.Errorf("upsert score for %s week %d: %w", s.PlayerID, s.Week, err)
		}
		written++
	}

	i.logger.WithFields(logrus.Fields{
		"season":       season,
		"week":         week,
		"player_weeks": written,
	}).Info("✓ weekly stats ingested")
	return written, nil
}

// IngestReference loads schedules, depth charts, and roster identity
// mappings for a season.
func (i *Ingester) IngestReference(ctx context.Context, season int) error {
	if err := i.ingestSchedules(ctx, season); err != nil {
		return err
	}
	if err := i.ingestDepthCharts(ctx, season); err != nil {
		return err
	}
	return i.ingestRosters(ctx, season)
}

func (i *Ingester) ingestSchedules(ctx context.Context, season int) error {
	r, err := i.client.FetchSchedules(ctx)
	if err != nil {
		return err
	}
	games, err := ParseSchedules(r, season)
	r.Close()
	if err != nil {
		return err
	}

	for _, g := range games {
		if err := i.refRepo.UpsertSchedule(ctx, g); err != nil {
			return fmt.Errorf("upsert schedule %s: %w", g.GameID, err)
		}
	}
	i.logger.WithField("games", len(games)).Info("✓ schedule ingested")
	return nil
}

func (i *Ingester) ingestDepthCharts(ctx context.Context, season int) error {
	r, err := i.client.FetchDepthCharts(ctx, season)
	if err != nil {
		return err
	}
	slots, err := ParseDepthCharts(r, season)
	r.Close()
	if err != nil {
		return err
	}

	for _, d := range slots {
		if err := i.refRepo.UpsertDepthChartSlot(ctx, d); err != nil {
			return fmt.Errorf("upsert depth chart slot: %w", err)
		}
	}
	i.logger.WithField("slots", len(slots)).Info("✓ depth charts ingested")
	return nil
}

func (i *Ingester) ingestRosters(ctx context.Context, season int) error {
	r, err := i.client.FetchRosters(ctx, season)
	if err != nil {
		return err
	}
	mappings, err := ParseRosters(r, season)
	r.Close()
	if err != nil {
		return err
	}

	for _, m := range mappings {
		if err := i.refRepo.UpsertIdentityMapping(ctx, m); err != nil {
			return fmt.Errorf("upsert identity mapping %s: %w", m.CanonicalID, err)
		}
	}
	i.logger.WithField("mappings", len(mappings)).Info("✓ identity map ingested")
	return nil
}

type snapKey struct {
	week int
	name string
	team string
}

// enrichSnaps joins snap counts onto weekly stats by (week, normalized name,
// team). Snap counts carry PFR ids rather than gsis ids, so name+team is the
// only usable join key.
func (i *Ingester) enrichSnaps(ctx context.Context, season int, stats []*store.PlayerWeekStat) error {
	r, err := i.client.FetchSnapCounts(ctx, season)
	if err != nil {
		return err
	}
	snaps, err := ParseSnapCounts(r, season)
	r.Close()
	if err != nil {
		return err
	}

	byKey := make(map[snapKey]SnapCount, len(snaps))
	for _, s := range snaps {
		byKey[snapKey{week: s.Week, name: identity.NormalizeName(s.Player), team: s.Team}] = s
	}

	matched := 0
	for _, s := range stats {
		sc, ok := byKey[snapKey{week: s.Week, name: identity.NormalizeName(s.PlayerName), team: s.Team}]
		if !ok {
			continue
		}
		s.Snaps.Int32 = int32(sc.Offense)
		s.Snaps.Valid = true
		s.SnapShare.Float64 = sc.OffensePct
		s.SnapShare.Valid = true
		matched++
	}

	i.logger.WithFields(logrus.Fields{
		"matched": matched,
		"total":   len(stats),
	}).Debug("snap counts joined")
	return nil
}

// scoreFor derives both scoring-rule totals from a weekly stat line.
func scoreFor(s *store.PlayerWeekStat) *store.PlayerScore {
	line := scoring.Stats{
		Receptions:     s.Receptions,
		ReceivingYards: s.ReceivingYards,
		ReceivingTDs:   s.ReceivingTDs,
		RushingYards:   s.RushingYards,
		RushingTDs:     s.RushingTDs,
		PassingYards:   s.PassingYards,
		PassingTDs:     s.PassingTDs,
		Interceptions:  s.Interceptions,
		FumblesLost:    s.FumblesLost,
	}

	return &store.PlayerScore{
		Season:     s.Season,
		Week:       s.Week,
		PlayerID:   s.PlayerID,
		PlayerName: s.PlayerName,
		Team:       s.Team,
		Position:   s.Position,
		PointsPPR:  scoring.PPR(line),
		PointsHalf: scoring.HalfPPR(line),
	}
}
