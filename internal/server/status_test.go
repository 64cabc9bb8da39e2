package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulselog/internal/database"
	"pulselog/internal/utility"
)

// stubDB satisfies database.Service without a Postgres connection.
type stubDB struct{}

func (stubDB) Health() map[string]string  { return map[string]string{"status": "up"} }
func (stubDB) Close()                     {}
func (stubDB) Pool() *pgxpool.Pool        { return nil }
func (stubDB) Queries() *database.Queries { return nil }

func TestStatusHandler(t *testing.T) {
	s := &Server{db: stubDB{}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, s.statusHandler(e.NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"analysesTotal"`)
	assert.Contains(t, rec.Body.String(), `"status":"up"`)
}

func TestStatusWebsocketLifecycle(t *testing.T) {
	s := &Server{db: stubDB{}}

	e := echo.New()
	e.GET("/status/ws", s.statusWebsocketHandler)
	srv := httptest.NewServer(e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/status/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Equal(t, 1, utility.StatusClientCount())

	// A broadcast frame reaches the connected client.
	utility.BroadcastStatus([]byte(`{"analysesTotal":0}`))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(frame), "analysesTotal")

	// Closing the client unregisters it server-side.
	require.NoError(t, conn.Close())
	deadline := time.Now().Add(2 * time.Second)
	for utility.StatusClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 0, utility.StatusClientCount())
}
