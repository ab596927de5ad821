package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mrab54/gridiron-dynasty/internal/playoffs"
	"github.com/mrab54/gridiron-dynasty/internal/standings"
)

// HealthResponse is the liveness probe response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version,omitempty"`
}

// ReadyResponse is the readiness probe response.
type ReadyResponse struct {
	Ready  bool                   `json:"ready"`
	Checks map[string]interface{} `json:"checks"`
}

// AdvanceResponse mirrors the Driver API's advance_day/advance_week return
// shape (spec §6).
type AdvanceResponse struct {
	GamesPlayed     int    `json:"games_played"`
	NumTrades       int    `json:"num_trades,omitempty"`
	CurrentPhase    string `json:"current_phase"`
	CurrentDate     string `json:"current_date"`
	PhaseTransition string `json:"phase_transition,omitempty"`
}

// StandingsResponse wraps a standings listing for one dynasty/season.
type StandingsResponse struct {
	Standings []standings.Standing `json:"standings"`
}

// PlayoffBracketResponse wraps the current playoff bracket by round.
type PlayoffBracketResponse struct {
	CurrentRound string                        `json:"current_round"`
	Brackets     map[playoffs.Round][]playoffs.Matchup `json:"brackets"`
}

// handleHealth handles the liveness probe.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
	})
}

// handleReady handles the readiness probe.
func (s *Server) handleReady(c *fiber.Ctx) error {
	checks := make(map[string]interface{})
	ready := true

	if err := s.db.Ping(c.Context()); err != nil {
		checks["database"] = false
		ready = false
	} else {
		checks["database"] = true
	}

	status := fiber.StatusOK
	if !ready {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(ReadyResponse{
		Ready:  ready,
		Checks: checks,
	})
}

// handleAdvanceDay advances one dynasty's Season Cycle Controller by a
// single day.
func (s *Server) handleAdvanceDay(c *fiber.Ctx) error {
	dynastyID := c.Params("dynastyId")

	controller, err := s.registry.Get(dynastyID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	res, err := controller.AdvanceDay(c.Context())
	if err != nil {
		log.Error().Err(err).Str("dynasty_id", dynastyID).Msg("advance_day failed")
		return fiber.NewError(fiber.StatusInternalServerError, "advance_day failed: "+err.Error())
	}

	return c.JSON(AdvanceResponse{
		GamesPlayed:     res.GamesPlayed,
		NumTrades:       res.NumTrades,
		CurrentPhase:    string(res.CurrentPhase),
		CurrentDate:     res.CurrentDate.String(),
		PhaseTransition: res.PhaseTransition,
	})
}

// handleAdvanceWeek advances one dynasty's Season Cycle Controller by seven
// days.
func (s *Server) handleAdvanceWeek(c *fiber.Ctx) error {
	dynastyID := c.Params("dynastyId")

	controller, err := s.registry.Get(dynastyID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	res, err := controller.AdvanceWeek(c.Context())
	if err != nil {
		log.Error().Err(err).Str("dynasty_id", dynastyID).Msg("advance_week failed")
		return fiber.NewError(fiber.StatusInternalServerError, "advance_week failed: "+err.Error())
	}

	return c.JSON(AdvanceResponse{
		GamesPlayed:     res.GamesPlayed,
		NumTrades:       res.NumTrades,
		CurrentPhase:    string(res.CurrentPhase),
		CurrentDate:     res.CurrentDate.String(),
		PhaseTransition: res.PhaseTransition,
	})
}

// handleStandings returns current standings for a dynasty, optionally
// filtered by conference and/or division query params.
func (s *Server) handleStandings(c *fiber.Ctx) error {
	dynastyID := c.Params("dynastyId")

	controller, err := s.registry.Get(dynastyID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	conference := c.Query("conference")
	division := c.Query("division")

	standingsList, err := controller.GetCurrentStandings(c.Context(), conference, division)
	if err != nil {
		log.Error().Err(err).Str("dynasty_id", dynastyID).Msg("get_current_standings failed")
		return fiber.NewError(fiber.StatusInternalServerError, "get_current_standings failed: "+err.Error())
	}

	return c.JSON(StandingsResponse{Standings: standingsList})
}

// handlePlayoffBracket returns the current playoff bracket for a dynasty.
func (s *Server) handlePlayoffBracket(c *fiber.Ctx) error {
	dynastyID := c.Params("dynastyId")

	controller, err := s.registry.Get(dynastyID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	brackets, currentRound, err := controller.GetPlayoffBracket()
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(PlayoffBracketResponse{
		CurrentRound: string(currentRound),
		Brackets:     brackets,
	})
}
