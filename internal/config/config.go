package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"

	"github.com/omarshaarawi/lineupcoach/internal/lineup"
	"github.com/omarshaarawi/lineupcoach/internal/models"
	"github.com/omarshaarawi/lineupcoach/internal/projection"
)

type Config struct {
	TelegramBot TelegramBot
	ESPNAPI     ESPNAPI
	Projections Projections
	Lineup      Lineup
	Server      Server
	Log         Log
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID" required:"true"`
}

type ESPNAPI struct {
	Year     string `envconfig:"YEAR" required:"true"`
	LeagueID string `envconfig:"LEAGUE_ID" required:"true"`
	TeamID   int    `envconfig:"TEAM_ID" default:"1"`
	SWID     string `envconfig:"SWID" required:"true"`
	ESPNS2   string `envconfig:"ESPN_S2" required:"true"`
	BaseURL  string `envconfig:"ESPN_BASE_URL" default:"https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"`
}

type Projections struct {
	Mode           projection.Mode `envconfig:"PROJECTION_MODE" default:"espn+fantasypros"`
	NameMatch      string          `envconfig:"NAME_MATCH" default:"first-token"`
	FantasyProsURL string          `envconfig:"FANTASYPROS_URL" default:"https://www.fantasypros.com/nfl/projections"`
	CacheTTL       time.Duration   `envconfig:"CACHE_TTL" default:"30m"`
}

type Lineup struct {
	SlotSpec        string  `envconfig:"LINEUP_SLOTS" default:"QB:1,RB:2,WR:2,TE:1,FLEX:1,D/ST:1,K:1"`
	WaiverThreshold float64 `envconfig:"WAIVER_THRESHOLD" default:"2.0"`
	PerformanceLog  string  `envconfig:"PERFORMANCE_LOG" default:"performance_log.csv"`
	ReportCron      string  `envconfig:"LINEUP_CRON" default:"30 9 * * 0"`
	Timezone        string  `envconfig:"SCHEDULE_TZ" default:"America/Chicago"`

	Slots models.SlotRequirements `ignored:"true"`
}

type Server struct {
	Addr string `envconfig:"HTTP_ADDR" default:":8080"`
}

type Log struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.ESPNAPI.SWID == "" || c.ESPNAPI.ESPNS2 == "" {
		return fmt.Errorf("missing ESPN credentials: SWID and ESPN_S2 must be set")
	}

	slots, err := lineup.ParseSlots(c.Lineup.SlotSpec)
	if err != nil {
		return fmt.Errorf("LINEUP_SLOTS: %w", err)
	}
	c.Lineup.Slots = slots

	if _, err := cron.ParseStandard(c.Lineup.ReportCron); err != nil {
		return fmt.Errorf("LINEUP_CRON: %w", err)
	}
	if _, err := time.LoadLocation(c.Lineup.Timezone); err != nil {
		return fmt.Errorf("SCHEDULE_TZ: %w", err)
	}
	if c.ESPNAPI.TeamID < 1 {
		return fmt.Errorf("TEAM_ID must be at least 1, got %d", c.ESPNAPI.TeamID)
	}
	if c.Lineup.WaiverThreshold < 0 {
		return fmt.Errorf("WAIVER_THRESHOLD must not be negative")
	}
	return nil
}
