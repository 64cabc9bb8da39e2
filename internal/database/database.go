package database

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	_ "github.com/joho/godotenv/autoload"
)

// Service represents a service that interacts with the database.
type Service interface {
	// Health returns a map of health status information.
	Health() map[string]string

	// Close terminates the database connection pool.
	Close()

	// Pool exposes the underlying connection pool.
	Pool() *pgxpool.Pool

	Queries() *Queries
}

type service struct {
	dbpool *pgxpool.Pool
	q      *Queries
}

var (
	database   = os.Getenv("PULSELOG_DB_DATABASE")
	password   = os.Getenv("PULSELOG_DB_PASSWORD")
	username   = os.Getenv("PULSELOG_DB_USERNAME")
	port       = os.Getenv("PULSELOG_DB_PORT")
	host       = os.Getenv("PULSELOG_DB_HOST")
	schema     = os.Getenv("PULSELOG_DB_SCHEMA")
	dbInstance *service
)

func NewService() Service {
	// Reuse connection
	if dbInstance != nil {
		return dbInstance
	}
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s", username, password, host, port, database, schema)

	dbpool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to create connection pool")
	}

	dbInstance = &service{
		dbpool: dbpool,
		q:      New(dbpool),
	}
	return dbInstance
}

func (s *service) Pool() *pgxpool.Pool { return s.dbpool }

func (s *service) Queries() *Queries { return s.q }

// Health checks the health of the database connection.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.dbpool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Error().Err(err).Msg("Database health check failed")
		return stats
	}

	poolStats := s.dbpool.Stat()
	stats["status"] = "up"
	stats["total_conns"] = strconv.Itoa(int(poolStats.TotalConns()))
	stats["idle_conns"] = strconv.Itoa(int(poolStats.IdleConns()))
	stats["acquired_conns"] = strconv.Itoa(int(poolStats.AcquiredConns()))
	stats["max_conns"] = strconv.Itoa(int(poolStats.MaxConns()))
	stats["acquire_count"] = strconv.FormatInt(poolStats.AcquireCount(), 10)
	stats["acquire_duration_ms"] = strconv.FormatInt(poolStats.AcquireDuration().Milliseconds(), 10)

	if poolStats.AcquiredConns() > (poolStats.MaxConns() * 8 / 10) { // 80% capacity
		stats["message"] = "The database connection pool is experiencing heavy load."
	}

	return stats
}

// Close closes the database connection pool.
func (s *service) Close() {
	log.Info().Str("database", database).Msg("Disconnected from database")
	s.dbpool.Close()
}
