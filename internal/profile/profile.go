/*
Package profile serves stored user goals and preferences with a small
read-through cache, and hydrates analysis contexts that arrive without them.
*/
package profile

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"pulselog/internal/analysis"
	"pulselog/internal/database"
)

const (
	cacheSize = 1024
	cacheTTL  = 5 * time.Minute
)

// Service reads user profiles through an expiring LRU cache. Profiles change
// rarely; a short TTL keeps the analyze path from hitting Postgres per request.
type Service struct {
	q     *database.Queries
	cache *expirable.LRU[string, database.UserProfile]
}

func NewService(q *database.Queries) *Service {
	return &Service{
		q:     q,
		cache: expirable.NewLRU[string, database.UserProfile](cacheSize, nil, cacheTTL),
	}
}

// Get returns a user's stored profile, from cache when fresh.
func (s *Service) Get(ctx context.Context, userID string) (database.UserProfile, error) {
	if p, ok := s.cache.Get(userID); ok {
		return p, nil
	}
	p, err := s.q.GetUserProfile(ctx, userID)
	if err != nil {
		return p, err
	}
	s.cache.Add(userID, p)
	return p, nil
}

// Invalidate drops a user's cached profile after an update.
func (s *Service) Invalidate(userID string) {
	s.cache.Remove(userID)
}

// Hydrate fills goals and preferences on an analysis context from the stored
// profile when the caller omitted them. Best effort: a missing profile leaves
// the context unchanged.
func (s *Service) Hydrate(ctx context.Context, ac *analysis.Context) {
	if len(ac.UserGoals) > 0 && ac.UserPreferences != nil {
		return
	}
	p, err := s.Get(ctx, ac.UserID)
	if err != nil {
		log.Debug().Err(err).Str("user_id", ac.UserID).Msg("No stored profile for context hydration")
		return
	}
	if len(ac.UserGoals) == 0 {
		ac.UserGoals = p.Goals
	}
	if ac.UserPreferences == nil && (p.FitnessLevel != "" || len(p.PreferredActivities) > 0 || len(p.HealthConditions) > 0) {
		ac.UserPreferences = &analysis.UserPreferences{
			FitnessLevel:        p.FitnessLevel,
			PreferredActivities: p.PreferredActivities,
			HealthConditions:    p.HealthConditions,
		}
	}
}
