package simulator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// HTTPSimulator calls an external FULL-mode physics engine over HTTP. Modeled
// directly on the teacher's Sleeper client: resty with retry/backoff plus a
// token-bucket rate limiter, swapped here for a single POST endpoint instead
// of a REST resource tree.
type HTTPSimulator struct {
	client      *resty.Client
	baseURL     string
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewHTTPSimulator builds an HTTPSimulator. requestsPerSecond governs the
// rate limiter's token refill; burst caps how many requests can fire back to
// back before throttling kicks in.
func NewHTTPSimulator(baseURL string, timeout time.Duration, retryAttempts int, retryDelay time.Duration, requestsPerSecond float64, burst int, logger zerolog.Logger) *HTTPSimulator {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retryAttempts).
		SetRetryWaitTime(retryDelay).
		SetRetryMaxWaitTime(retryDelay * 10).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return r.StatusCode() >= 500 || r.StatusCode() == http.StatusTooManyRequests
		})

	return &HTTPSimulator{
		client:      client,
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		logger:      logger.With().Str("component", "simulator.http").Logger(),
	}
}

type simulateRequest struct {
	DynastyID  string `json:"dynasty_id"`
	Season     int    `json:"season"`
	Week       int    `json:"week"`
	SeasonType string `json:"season_type"`
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	Playoff    bool   `json:"playoff"`
}

type simulateResponse struct {
	HomeScore       int            `json:"home_score"`
	AwayScore       int            `json:"away_score"`
	WinnerTeamID    string         `json:"winner_id"`
	TotalPlays      int            `json:"total_plays"`
	OvertimePeriods int            `json:"overtime_periods"`
	TeamGameStats   map[string]any `json:"team_game_stats"`
	PlayerGameStats map[string]any `json:"player_game_stats"`
}

func (s *HTTPSimulator) SimulateGame(ctx context.Context, p Params) (Result, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return Result{}, &ErrSimulation{Err: fmt.Errorf("rate limiter: %w", err)}
	}

	req := simulateRequest{
		DynastyID:  p.DynastyID,
		Season:     p.Season,
		Week:       p.Week,
		SeasonType: string(p.SeasonType),
		HomeTeamID: p.HomeTeamID,
		AwayTeamID: p.AwayTeamID,
		Playoff:    p.Playoff,
	}

	var body simulateResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetBody(req).
		SetResult(&body).
		Post(s.baseURL + "/simulate")
	if err != nil {
		s.logger.Error().Err(err).Str("home", p.HomeTeamID).Str("away", p.AwayTeamID).Msg("simulation request failed")
		return Result{}, &ErrSimulation{Err: fmt.Errorf("request failed: %w", err)}
	}
	if resp.StatusCode() != http.StatusOK {
		s.logger.Error().Int("status", resp.StatusCode()).Str("body", string(resp.Body())).Msg("simulation engine returned non-200")
		return Result{}, &ErrSimulation{Err: fmt.Errorf("engine returned status %d", resp.StatusCode())}
	}

	if p.Playoff && body.HomeScore == body.AwayScore {
		return Result{}, &ErrSimulation{Err: errUndecidedPlayoffGame}
	}

	return Result{
		HomeScore:       body.HomeScore,
		AwayScore:       body.AwayScore,
		WinnerTeamID:    body.WinnerTeamID,
		TotalPlays:      body.TotalPlays,
		OvertimePeriods: body.OvertimePeriods,
		TeamGameStats:   body.TeamGameStats,
		PlayerGameStats: body.PlayerGameStats,
	}, nil
}
