/*
Package user implements the read-back surface for persisted analysis
results: activity history, stored profiles and the aggregate overview used
for app hydration.
*/
package user

import (
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"pulselog/internal/database"
	"pulselog/internal/profile"
	"pulselog/internal/utility"
)

var (
	queries  *database.Queries
	profiles *profile.Service
)

// InitUserPackage prepares the package for operation by configuring database
// queries and the profile cache.
func InitUserPackage(dbpool *pgxpool.Pool) {
	queries = database.New(dbpool)
	profiles = profile.NewService(queries)
	log.Info().Msg("User package initialized.")
}

// Profiles exposes the shared profile service for the analyze gateway.
func Profiles() *profile.Service { return profiles }

/* =================================================================================
							DTOs (Data Transfer Objects)
=================================================================================*/

// UpdateProfileRequest captures goal and preference updates.
type UpdateProfileRequest struct {
	Goals               []string `json:"goals"`
	FitnessLevel        string   `json:"fitness_level"`
	PreferredActivities []string `json:"preferred_activities"`
	HealthConditions    []string `json:"health_conditions"`
}

// OverviewResponse is the aggregate object for initial app hydration.
type OverviewResponse struct {
	UserID           string                    `json:"user_id"`
	Profile          *database.UserProfile     `json:"profile,omitempty"`
	RecentActivities []database.ActivityRecord `json:"recent_activities"`
}

/* =================================================================================
									HANDLERS
=================================================================================*/

// GetActivitiesHandler lists the caller's most recent activity records.
func GetActivitiesHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	limit := int32(50)
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = int32(n)
		}
	}

	records, err := queries.ListActivities(ctx, userID, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list activities")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load activities"})
	}
	if records == nil {
		records = []database.ActivityRecord{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"activities": records, "count": len(records)})
}

// GetActivityHandler returns one activity record owned by the caller.
func GetActivityHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	record, err := queries.GetActivity(ctx, userID, c.Param("activity_id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Activity not found"})
	}

	return c.JSON(http.StatusOK, record)
}

// DeleteActivityHandler removes one activity record owned by the caller.
func DeleteActivityHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	if err := queries.DeleteActivity(ctx, userID, c.Param("activity_id")); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Activity not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Activity deleted"})
}

// GetProfileHandler returns the caller's stored goals and preferences.
func GetProfileHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	p, err := profiles.Get(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Profile not found"})
	}

	return c.JSON(http.StatusOK, p)
}

// UpsertProfileHandler creates or replaces the caller's stored preferences.
func UpsertProfileHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	p := database.UserProfile{
		UserID:              userID,
		Goals:               req.Goals,
		FitnessLevel:        req.FitnessLevel,
		PreferredActivities: req.PreferredActivities,
		HealthConditions:    req.HealthConditions,
	}
	if err := queries.UpsertUserProfile(ctx, p); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to upsert profile")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save profile"})
	}
	profiles.Invalidate(userID)

	return c.JSON(http.StatusOK, p)
}

// GetOverviewHandler aggregates the profile and recent activity history in
// one response. The two reads are independent, so they run concurrently.
func GetOverviewHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	resp := OverviewResponse{UserID: userID, RecentActivities: []database.ActivityRecord{}}

	g, grpCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := profiles.Get(grpCtx, userID)
		if err == nil {
			resp.Profile = &p
		} else {
			// Missing profile is fine; the overview still carries history.
			log.Debug().Err(err).Str("user_id", userID).Msg("No profile for overview")
		}
		return nil
	})

	g.Go(func() error {
		records, err := queries.ListActivities(grpCtx, userID, 20)
		if err != nil {
			return err
		}
		if records != nil {
			resp.RecentActivities = records
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to build overview")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load user data"})
	}

	return c.JSON(http.StatusOK, resp)
}
