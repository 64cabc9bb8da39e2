package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries holds the hand-written SQL the service runs against Postgres:
// activity record persistence plus user profile reads.
type Queries struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

// ActivityRecord is one persisted analysis result.
type ActivityRecord struct {
	ActivityID   pgtype.UUID        `json:"activity_id"`
	UserID       string             `json:"user_id"`
	AnalysisType string             `json:"analysis_type"`
	ActivityType string             `json:"activity_type"`
	Result       json.RawMessage    `json:"result"`
	LoggedAt     string             `json:"logged_at"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

// UserProfile carries the stored goals and preferences used to hydrate an
// analysis context when the caller omits them.
type UserProfile struct {
	UserID              string   `json:"user_id"`
	Goals               []string `json:"goals"`
	FitnessLevel        string   `json:"fitness_level"`
	PreferredActivities []string `json:"preferred_activities"`
	HealthConditions    []string `json:"health_conditions"`
}

type SaveActivityParams struct {
	UserID       string
	AnalysisType string
	ActivityType string
	Result       json.RawMessage
	LoggedAt     string
}

// SaveActivity inserts a finished analysis result and returns its ID.
func (q *Queries) SaveActivity(ctx context.Context, arg SaveActivityParams) (pgtype.UUID, error) {
	var id pgtype.UUID
	err := q.pool.QueryRow(ctx,
		`INSERT INTO user_activities (user_id, analysis_type, activity_type, result, logged_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING activity_id`,
		arg.UserID, arg.AnalysisType, arg.ActivityType, arg.Result, arg.LoggedAt,
	).Scan(&id)
	if err != nil {
		return id, fmt.Errorf("save activity: %w", err)
	}
	return id, nil
}

// ListActivities returns a user's most recent activity records.
func (q *Queries) ListActivities(ctx context.Context, userID string, limit int32) ([]ActivityRecord, error) {
	rows, err := q.pool.Query(ctx,
		`SELECT activity_id, user_id, analysis_type, activity_type, result, logged_at, created_at
		 FROM user_activities
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var records []ActivityRecord
	for rows.Next() {
		var r ActivityRecord
		if err := rows.Scan(&r.ActivityID, &r.UserID, &r.AnalysisType, &r.ActivityType, &r.Result, &r.LoggedAt, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetActivity fetches a single record scoped to its owner.
func (q *Queries) GetActivity(ctx context.Context, userID, activityID string) (ActivityRecord, error) {
	var r ActivityRecord
	err := q.pool.QueryRow(ctx,
		`SELECT activity_id, user_id, analysis_type, activity_type, result, logged_at, created_at
		 FROM user_activities
		 WHERE user_id = $1 AND activity_id = $2`,
		userID, activityID,
	).Scan(&r.ActivityID, &r.UserID, &r.AnalysisType, &r.ActivityType, &r.Result, &r.LoggedAt, &r.CreatedAt)
	if err != nil {
		return r, fmt.Errorf("get activity: %w", err)
	}
	return r, nil
}

// DeleteActivity removes a record scoped to its owner. ErrNoRows when the
// record does not exist or belongs to someone else.
func (q *Queries) DeleteActivity(ctx context.Context, userID, activityID string) error {
	tag, err := q.pool.Exec(ctx,
		`DELETE FROM user_activities WHERE user_id = $1 AND activity_id = $2`,
		userID, activityID,
	)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetUserProfile fetches the stored goals and preferences for a user.
func (q *Queries) GetUserProfile(ctx context.Context, userID string) (UserProfile, error) {
	p := UserProfile{UserID: userID}
	err := q.pool.QueryRow(ctx,
		`SELECT goals, fitness_level, preferred_activities, health_conditions
		 FROM user_profiles
		 WHERE user_id = $1`,
		userID,
	).Scan(&p.Goals, &p.FitnessLevel, &p.PreferredActivities, &p.HealthConditions)
	if err != nil {
		return p, fmt.Errorf("get user profile: %w", err)
	}
	return p, nil
}

// UpsertUserProfile creates or replaces a user's stored preferences.
func (q *Queries) UpsertUserProfile(ctx context.Context, p UserProfile) error {
	_, err := q.pool.Exec(ctx,
		`INSERT INTO user_profiles (user_id, goals, fitness_level, preferred_activities, health_conditions)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
			goals = EXCLUDED.goals,
			fitness_level = EXCLUDED.fitness_level,
			preferred_activities = EXCLUDED.preferred_activities,
			health_conditions = EXCLUDED.health_conditions`,
		p.UserID, p.Goals, p.FitnessLevel, p.PreferredActivities, p.HealthConditions,
	)
	if err != nil {
		return fmt.Errorf("upsert user profile: %w", err)
	}
	return nil
}
