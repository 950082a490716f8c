package pfr

import (
	"context"
	"fmt"

	"github.com/fortuna/gridiron/internal/identity"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
	"github.com/sirupsen/logrus"
)

// Ingester scrapes PFR depth charts, resolves player names against the
// identity map, and upserts the slots.
type Ingester struct {
	client  *Client
	refRepo *repository.ReferenceRepository
	logger  *logrus.Logger
}

// NewIngester creates a depth-chart ingester. An empty baseURL uses the
// live site.
func NewIngester(db *store.Database, baseURL string, logger *logrus.Logger) *Ingester {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Ingester{
		client:  NewClient(baseURL),
		refRepo: repository.NewReferenceRepository(db),
		logger:  logger,
	}
}

// IngestDepthCharts scrapes the given teams' depth charts for one week,
// resolving names to canonical ids where the identity map allows. Slots with
// unresolvable names are still stored by name so the chart stays complete.
// Returns the number of slots written.
func (i *Ingester) IngestDepthCharts(ctx context.Context, season, week int, teams []string) (int, error) {
	mappings, err := i.refRepo.GetIdentityMappings(ctx)
	if err != nil {
		return 0, fmt.Errorf("load identity map: %w", err)
	}
	resolver := identity.NewResolver(mappings, i.logger)

	written := 0
	for _, team := range teams {
		slots, err := i.client.FetchDepthChart(ctx, team, season, week)
		if err != nil {
			return written, fmt.Errorf("fetch %s depth chart: %w", team, err)
		}

		for _, slot := range slots {
			if id, ok := resolver.Resolve(identity.SourceRow{
				FullName:  slot.PlayerName,
				Team:      slot.Team,
				DepthRank: slot.Rank,
			}); ok {
				slot.PlayerID.String = id
				slot.PlayerID.Valid = true
			}

			if err := i.refRepo.UpsertDepthChartSlot(ctx, slot); err != nil {
				return written, fmt.Errorf("upsert %s %s slot %d: %w", slot.Team, slot.Position, slot.Rank, err)
			}
			written++
		}
	}

	if dropped := resolver.UnmatchedRows(); len(dropped) > 0 {
		i.logger.WithField("unmatched", len(dropped)).Warn("depth chart names without identity mappings")
	}

	i.logger.WithFields(logrus.Fields{
		"teams": len(teams),
		"slots": written,
	}).Info("✓ depth charts scraped")
	return written, nil
}

// AllTeams returns every team abbreviation the scraper knows.
func AllTeams() []string {
	teams := make([]string, 0, len(pfrCodes))
	for abbr := range pfrCodes {
		teams = append(teams, abbr)
	}
	return teams
}
