package nbaetl

import "time"

// Row is a fixed-arity tuple in its table's declared column order.
type Row interface {
	Values() []any
}

// nullable unwraps optional fields so drivers see a typed value or NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// Team is a row of dim_teams.
type Team struct {
	TeamID    int64  `parquet:"team_id" json:"team_id"`
	Name      string `parquet:"team_name" json:"team_name"`
	City      string `parquet:"team_city" json:"team_city"`
	Tricode   string `parquet:"team_tricode" json:"team_tricode"`
	Slug      string `parquet:"team_slug" json:"team_slug"`
	IsDefunct bool   `parquet:"is_defunct" json:"is_defunct"`
}

func (t Team) Values() []any {
	return []any{t.TeamID, t.Name, t.City, t.Tricode, t.Slug, t.IsDefunct}
}

// Player is a row of dim_players.
type Player struct {
	PlayerID            int64      `parquet:"player_id" json:"player_id"`
	FirstName           string     `parquet:"first_name" json:"first_name"`
	LastName            string     `parquet:"last_name" json:"last_name"`
	Slug                string     `parquet:"player_slug" json:"player_slug"`
	Position            *string    `parquet:"position" json:"position,omitempty"`
	Height              *string    `parquet:"height" json:"height,omitempty"`
	Weight              *string    `parquet:"weight" json:"weight,omitempty"`
	Birthdate           *time.Time `parquet:"birthdate" json:"birthdate,omitempty"`
	Country             *string    `parquet:"country" json:"country,omitempty"`
	DraftYear           *int64     `parquet:"draft_year" json:"draft_year,omitempty"`
	DraftRound          *int64     `parquet:"draft_round" json:"draft_round,omitempty"`
	DraftNumber         *int64     `parquet:"draft_number" json:"draft_number,omitempty"`
	LastAffiliation     *string    `parquet:"last_affiliation" json:"last_affiliation,omitempty"`
	LastAffiliationType *string    `parquet:"last_affiliation_type" json:"last_affiliation_type,omitempty"`
}

func (p Player) Values() []any {
	return []any{
		p.PlayerID, p.FirstName, p.LastName, p.Slug,
		nullable(p.Position), nullable(p.Height), nullable(p.Weight), nullable(p.Birthdate),
		nullable(p.Country), nullable(p.DraftYear), nullable(p.DraftRound), nullable(p.DraftNumber),
		nullable(p.LastAffiliation), nullable(p.LastAffiliationType),
	}
}

// Arena is a row of dim_arenas. ArenaID is derived upstream from name, city and state.
type Arena struct {
	ArenaID int64   `parquet:"arena_id" json:"arena_id"`
	Name    string  `parquet:"arena_name" json:"arena_name"`
	City    string  `parquet:"arena_city" json:"arena_city"`
	State   *string `parquet:"arena_state" json:"arena_state,omitempty"`
}

func (a Arena) Values() []any {
	return []any{a.ArenaID, a.Name, a.City, nullable(a.State)}
}

// Date is a row of dim_dates keyed by a YYYYMMDD integer.
type Date struct {
	DateID     int64     `parquet:"date_id" json:"date_id"`
	FullDate   time.Time `parquet:"full_date" json:"full_date"`
	Year       int64     `parquet:"year" json:"year"`
	Month      int64     `parquet:"month" json:"month"`
	DayOfWeek  int64     `parquet:"day_of_week" json:"day_of_week"`
	WeekNumber int64     `parquet:"week_number" json:"week_number"`
}

func (d Date) Values() []any {
	return []any{d.DateID, d.FullDate, d.Year, d.Month, d.DayOfWeek, d.WeekNumber}
}

// DateID returns the YYYYMMDD key for t.
func DateID(t time.Time) int64 {
	return int64(t.Year()*10000 + int(t.Month())*100 + t.Day())
}

// RosterEntry is a row of fact_player_roster.
type RosterEntry struct {
	PlayerID         int64   `parquet:"player_id" json:"player_id"`
	TeamID           int64   `parquet:"team_id" json:"team_id"`
	Season           string  `parquet:"season" json:"season"`
	RosterStatus     int64   `parquet:"roster_status" json:"roster_status"`
	FromYear         int64   `parquet:"from_year" json:"from_year"`
	ToYear           int64   `parquet:"to_year" json:"to_year"`
	IsTwoWay         *bool   `parquet:"is_two_way" json:"is_two_way,omitempty"`
	IsTenDay         *bool   `parquet:"is_ten_day" json:"is_ten_day,omitempty"`
	JerseyNum        *string `parquet:"jersey_num" json:"jersey_num,omitempty"`
	SeasonExperience *int64  `parquet:"season_experience" json:"season_experience,omitempty"`
}

func (r RosterEntry) Values() []any {
	return []any{
		r.PlayerID, r.TeamID, r.Season, r.RosterStatus, r.FromYear, r.ToYear,
		nullable(r.IsTwoWay), nullable(r.IsTenDay), nullable(r.JerseyNum), nullable(r.SeasonExperience),
	}
}

// Game is a row of fact_games. Scores are nil for games not yet played.
type Game struct {
	GameID           string    `parquet:"game_id" json:"game_id"`
	GameCode         string    `parquet:"game_code" json:"game_code"`
	GameDateID       int64     `parquet:"game_date_id" json:"game_date_id"`
	DatetimeEST      time.Time `parquet:"game_datetime_est" json:"game_datetime_est"`
	DatetimeUTC      time.Time `parquet:"game_datetime_utc" json:"game_datetime_utc"`
	SeasonType       string    `parquet:"season_type" json:"season_type"`
	Status           int64     `parquet:"game_status" json:"game_status"`
	StatusText       string    `parquet:"game_status_text" json:"game_status_text"`
	Sequence         int64     `parquet:"game_sequence" json:"game_sequence"`
	ArenaID          int64     `parquet:"arena_id" json:"arena_id"`
	HomeTeamID       int64     `parquet:"home_team_id" json:"home_team_id"`
	AwayTeamID       int64     `parquet:"away_team_id" json:"away_team_id"`
	HomeScore        *int64    `parquet:"home_score" json:"home_score,omitempty"`
	AwayScore        *int64    `parquet:"away_score" json:"away_score,omitempty"`
	HomeWins         int64     `parquet:"home_wins" json:"home_wins"`
	HomeLosses       int64     `parquet:"home_losses" json:"home_losses"`
	HomeSeed         *int64    `parquet:"home_seed" json:"home_seed,omitempty"`
	AwayWins         int64     `parquet:"away_wins" json:"away_wins"`
	AwayLosses       int64     `parquet:"away_losses" json:"away_losses"`
	AwaySeed         *int64    `parquet:"away_seed" json:"away_seed,omitempty"`
	IsNeutral        bool      `parquet:"is_neutral" json:"is_neutral"`
	SeriesGameNumber *string   `parquet:"series_game_number" json:"series_game_number,omitempty"`
	SeriesText       *string   `parquet:"series_text" json:"series_text,omitempty"`
	SeriesConference *string   `parquet:"series_conference" json:"series_conference,omitempty"`
	GameLabel        *string   `parquet:"game_label" json:"game_label,omitempty"`
	GameSubtype      *string   `parquet:"game_subtype" json:"game_subtype,omitempty"`
}

func (g Game) Values() []any {
	return []any{
		g.GameID, g.GameCode, g.GameDateID, g.DatetimeEST, g.DatetimeUTC,
		g.SeasonType, g.Status, g.StatusText, g.Sequence,
		g.ArenaID, g.HomeTeamID, g.AwayTeamID,
		nullable(g.HomeScore), nullable(g.AwayScore),
		g.HomeWins, g.HomeLosses, nullable(g.HomeSeed),
		g.AwayWins, g.AwayLosses, nullable(g.AwaySeed),
		g.IsNeutral,
		nullable(g.SeriesGameNumber), nullable(g.SeriesText), nullable(g.SeriesConference),
		nullable(g.GameLabel), nullable(g.GameSubtype),
	}
}

// TeamGameStat is a row of fact_team_game_stats, one per team per game.
type TeamGameStat struct {
	GameID                 string   `parquet:"game_id" json:"game_id"`
	TeamID                 int64    `parquet:"team_id" json:"team_id"`
	IsHomeTeam             bool     `parquet:"is_home_team" json:"is_home_team"`
	Points                 int64    `parquet:"points" json:"points"`
	FieldGoalsMade         int64    `parquet:"field_goals_made" json:"field_goals_made"`
	FieldGoalsAttempted    int64    `parquet:"field_goals_attempted" json:"field_goals_attempted"`
	FieldGoalPct           *float64 `parquet:"field_goal_pct" json:"field_goal_pct,omitempty"`
	ThreePointersMade      int64    `parquet:"three_pointers_made" json:"three_pointers_made"`
	ThreePointersAttempted int64    `parquet:"three_pointers_attempted" json:"three_pointers_attempted"`
	ThreePointerPct        *float64 `parquet:"three_pointer_pct" json:"three_pointer_pct,omitempty"`
	FreeThrowsMade         int64    `parquet:"free_throws_made" json:"free_throws_made"`
	FreeThrowsAttempted    int64    `parquet:"free_throws_attempted" json:"free_throws_attempted"`
	FreeThrowPct           *float64 `parquet:"free_throw_pct" json:"free_throw_pct,omitempty"`
	ReboundsOffensive      int64    `parquet:"rebounds_offensive" json:"rebounds_offensive"`
	ReboundsDefensive      int64    `parquet:"rebounds_defensive" json:"rebounds_defensive"`
	ReboundsTeam           int64    `parquet:"rebounds_team" json:"rebounds_team"`
	ReboundsTotal          int64    `parquet:"rebounds_total" json:"rebounds_total"`
	Assists                int64    `parquet:"assists" json:"assists"`
	Turnovers              int64    `parquet:"turnovers" json:"turnovers"`
	Steals                 int64    `parquet:"steals" json:"steals"`
	Blocks                 int64    `parquet:"blocks" json:"blocks"`
	FoulsPersonal          int64    `parquet:"fouls_personal" json:"fouls_personal"`
	PointsInPaint          int64    `parquet:"points_in_paint" json:"points_in_paint"`
	PointsSecondChance     int64    `parquet:"points_second_chance" json:"points_second_chance"`
	PointsFastBreak        int64    `parquet:"points_fast_break" json:"points_fast_break"`
	PointsFromTurnovers    int64    `parquet:"points_from_turnovers" json:"points_from_turnovers"`
	FoulsDrawn             int64    `parquet:"fouls_drawn" json:"fouls_drawn"`
}

func (s TeamGameStat) Values() []any {
	return []any{
		s.GameID, s.TeamID, s.IsHomeTeam, s.Points,
		s.FieldGoalsMade, s.FieldGoalsAttempted, nullable(s.FieldGoalPct),
		s.ThreePointersMade, s.ThreePointersAttempted, nullable(s.ThreePointerPct),
		s.FreeThrowsMade, s.FreeThrowsAttempted, nullable(s.FreeThrowPct),
		s.ReboundsOffensive, s.ReboundsDefensive, s.ReboundsTeam, s.ReboundsTotal,
		s.Assists, s.Turnovers, s.Steals, s.Blocks, s.FoulsPersonal,
		s.PointsInPaint, s.PointsSecondChance, s.PointsFastBreak, s.PointsFromTurnovers,
		s.FoulsDrawn,
	}
}

// PlayerGameStat is a row of fact_player_game_stats. A player who appeared
// but did not play has nil numeric fields.
type PlayerGameStat struct {
	GameID                 string  `parquet:"game_id" json:"game_id"`
	PlayerID               int64   `parquet:"player_id" json:"player_id"`
	TeamID                 int64   `parquet:"team_id" json:"team_id"`
	JerseyNum              *string `parquet:"jersey_num" json:"jersey_num,omitempty"`
	Position               *string `parquet:"position" json:"position,omitempty"`
	Starter                bool    `parquet:"starter" json:"starter"`
	Minutes                *int64  `parquet:"minutes" json:"minutes,omitempty"`
	Points                 *int64  `parquet:"points" json:"points,omitempty"`
	FieldGoalsMade         *int64  `parquet:"field_goals_made" json:"field_goals_made,omitempty"`
	FieldGoalsAttempted    *int64  `parquet:"field_goals_attempted" json:"field_goals_attempted,omitempty"`
	ThreePointersMade      *int64  `parquet:"three_pointers_made" json:"three_pointers_made,omitempty"`
	ThreePointersAttempted *int64  `parquet:"three_pointers_attempted" json:"three_pointers_attempted,omitempty"`
	FreeThrowsMade         *int64  `parquet:"free_throws_made" json:"free_throws_made,omitempty"`
	FreeThrowsAttempted    *int64  `parquet:"free_throws_attempted" json:"free_throws_attempted,omitempty"`
	ReboundsOffensive      *int64  `parquet:"rebounds_offensive" json:"rebounds_offensive,omitempty"`
	ReboundsDefensive      *int64  `parquet:"rebounds_defensive" json:"rebounds_defensive,omitempty"`
	ReboundsTotal          *int64  `parquet:"rebounds_total" json:"rebounds_total,omitempty"`
	Assists                *int64  `parquet:"assists" json:"assists,omitempty"`
	Turnovers              *int64  `parquet:"turnovers" json:"turnovers,omitempty"`
	Steals                 *int64  `parquet:"steals" json:"steals,omitempty"`
	Blocks                 *int64  `parquet:"blocks" json:"blocks,omitempty"`
	FoulsPersonal          *int64  `parquet:"fouls_personal" json:"fouls_personal,omitempty"`
	PlusMinus              *int64  `parquet:"plus_minus" json:"plus_minus,omitempty"`
}

func (s PlayerGameStat) Values() []any {
	return []any{
		s.GameID, s.PlayerID, s.TeamID, nullable(s.JerseyNum), nullable(s.Position), s.Starter,
		nullable(s.Minutes), nullable(s.Points),
		nullable(s.FieldGoalsMade), nullable(s.FieldGoalsAttempted),
		nullable(s.ThreePointersMade), nullable(s.ThreePointersAttempted),
		nullable(s.FreeThrowsMade), nullable(s.FreeThrowsAttempted),
		nullable(s.ReboundsOffensive), nullable(s.ReboundsDefensive), nullable(s.ReboundsTotal),
		nullable(s.Assists), nullable(s.Turnovers), nullable(s.Steals), nullable(s.Blocks),
		nullable(s.FoulsPersonal), nullable(s.PlusMinus),
	}
}

// PlayByPlayEvent is a row of fact_play_by_play.
type PlayByPlayEvent struct {
	GameID            string    `parquet:"game_id" json:"game_id"`
	ActionNumber      int64     `parquet:"action_number" json:"action_number"`
	OrderNumber       int64     `parquet:"order_number" json:"order_number"`
	Period            int64     `parquet:"period" json:"period"`
	Clock             string    `parquet:"clock" json:"clock"`
	TimeActual        time.Time `parquet:"time_actual" json:"time_actual"`
	TeamID            *int64    `parquet:"team_id" json:"team_id,omitempty"`
	PlayerID          *int64    `parquet:"player_id" json:"player_id,omitempty"`
	ActionType        string    `parquet:"action_type" json:"action_type"`
	SubType           *string   `parquet:"sub_type" json:"sub_type,omitempty"`
	Descriptor        *string   `parquet:"descriptor" json:"descriptor,omitempty"`
	Qualifiers        *string   `parquet:"qualifiers" json:"qualifiers,omitempty"`
	XCoord            *float64  `parquet:"x_coord" json:"x_coord,omitempty"`
	YCoord            *float64  `parquet:"y_coord" json:"y_coord,omitempty"`
	Side              *string   `parquet:"side" json:"side,omitempty"`
	ShotDistance      *float64  `parquet:"shot_distance" json:"shot_distance,omitempty"`
	ShotResult        *string   `parquet:"shot_result" json:"shot_result,omitempty"`
	IsFieldGoal       bool      `parquet:"is_field_goal" json:"is_field_goal"`
	ScoreHome         int64     `parquet:"score_home" json:"score_home"`
	ScoreAway         int64     `parquet:"score_away" json:"score_away"`
	Possession        int64     `parquet:"possession" json:"possession"`
	Location          string    `parquet:"location" json:"location"`
	Description       string    `parquet:"description" json:"description"`
	AssistPersonID    *int64    `parquet:"assist_person_id" json:"assist_person_id,omitempty"`
	AssistTotal       *float64  `parquet:"assist_total" json:"assist_total,omitempty"`
	StealPersonID     *int64    `parquet:"steal_person_id" json:"steal_person_id,omitempty"`
	TurnoverTotal     *float64  `parquet:"turnover_total" json:"turnover_total,omitempty"`
	ReboundTotal      *float64  `parquet:"rebound_total" json:"rebound_total,omitempty"`
	FoulPersonalTotal *float64  `parquet:"foul_personal_total" json:"foul_personal_total,omitempty"`
	FoulDrawnPersonID *int64    `parquet:"foul_drawn_person_id" json:"foul_drawn_person_id,omitempty"`
}

func (e PlayByPlayEvent) Values() []any {
	return []any{
		e.GameID, e.ActionNumber, e.OrderNumber, e.Period, e.Clock, e.TimeActual,
		nullable(e.TeamID), nullable(e.PlayerID), e.ActionType,
		nullable(e.SubType), nullable(e.Descriptor), nullable(e.Qualifiers),
		nullable(e.XCoord), nullable(e.YCoord), nullable(e.Side),
		nullable(e.ShotDistance), nullable(e.ShotResult), e.IsFieldGoal,
		e.ScoreHome, e.ScoreAway, e.Possession, e.Location, e.Description,
		nullable(e.AssistPersonID), nullable(e.AssistTotal), nullable(e.StealPersonID),
		nullable(e.TurnoverTotal), nullable(e.ReboundTotal), nullable(e.FoulPersonalTotal),
		nullable(e.FoulDrawnPersonID),
	}
}

// GameLeader is a row of fact_game_leaders.
type GameLeader struct {
	GameID   string  `parquet:"game_id" json:"game_id"`
	TeamID   int64   `parquet:"team_id" json:"team_id"`
	PlayerID int64   `parquet:"player_id" json:"player_id"`
	StatType string  `parquet:"stat_type" json:"stat_type"`
	Value    float64 `parquet:"value" json:"value"`
}

func (l GameLeader) Values() []any {
	return []any{l.GameID, l.TeamID, l.PlayerID, l.StatType, l.Value}
}
