package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"pulselog/internal/database"
	"pulselog/internal/utility"
)

/* =================================================================================
								OPERATIONAL STATUS
=================================================================================*/

var (
	analysesTotal  atomic.Int64
	analysesFailed atomic.Int64
	serverStarted  = time.Now()
)

func recordAnalysisSuccess() { analysesTotal.Add(1) }

func recordAnalysisFailure() {
	analysesTotal.Add(1)
	analysesFailed.Add(1)
}

// StatusPayload is what GET /status returns and what the websocket feed pushes.
type StatusPayload struct {
	Timestamp       string            `json:"timestamp"`
	UptimeSeconds   int64             `json:"uptimeSeconds"`
	AnalysesTotal   int64             `json:"analysesTotal"`
	AnalysesFailed  int64             `json:"analysesFailed"`
	StatusListeners int               `json:"statusListeners"`
	CPUPercent      float64           `json:"cpuPercent"`
	MemoryPercent   float64           `json:"memoryPercent"`
	Database        map[string]string `json:"database"`
}

func buildStatusPayload(db database.Service) StatusPayload {
	payload := StatusPayload{
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds:   int64(time.Since(serverStarted).Seconds()),
		AnalysesTotal:   analysesTotal.Load(),
		AnalysesFailed:  analysesFailed.Load(),
		StatusListeners: utility.StatusClientCount(),
		Database:        db.Health(),
	}

	if percentages, err := cpu.Percent(0, false); err == nil && len(percentages) > 0 {
		payload.CPUPercent = percentages[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		payload.MemoryPercent = vm.UsedPercent
	}

	return payload
}

// statusHandler handles GET /status.
func (s *Server) statusHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, buildStatusPayload(s.db))
}

// statusWebsocketHandler handles GET /status/ws. The connection only receives
// broadcast frames; anything the client writes is discarded.
func (s *Server) statusWebsocketHandler(c echo.Context) error {
	conn, err := utility.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade status websocket")
		return err
	}

	defer conn.Close()

	clientID := uuid.NewString()
	utility.RegisterStatusClient(clientID, conn)
	defer utility.UnregisterStatusClient(clientID)

	// Keep the read pump running so close frames are processed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// StartStatusBroadcaster pushes the status payload to connected websocket
// clients on a fixed interval. Runs until the process exits.
func StartStatusBroadcaster(db database.Service) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if utility.StatusClientCount() == 0 {
			continue
		}
		frame, err := json.Marshal(buildStatusPayload(db))
		if err != nil {
			log.Error().Err(err).Msg("Failed to encode status payload")
			continue
		}
		utility.BroadcastStatus(frame)
	}
}
