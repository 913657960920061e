package validation

import (
	"time"

	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// DateFloor is the earliest game datetime considered valid.
var DateFloor = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Env carries the run-time inputs of rule queries.
type Env struct {
	// Now anchors the upper bound of the game datetime rule.
	Now time.Time
}

// Rule is a static description of one data quality check. Query returns a
// statement whose every row is an offending row, ordered deterministically.
type Rule struct {
	Name     string
	Category nbaetl.Category
	Severity nbaetl.Severity

	// Finding describes offending rows, as in "Found 3 <Finding>".
	Finding string
	// PassMessage is reported when no row offends.
	PassMessage string

	// Columns names the values of each example row.
	Columns []string
	Query   func(env Env) (string, []any)
}

func static(sql string) func(Env) (string, []any) {
	return func(Env) (string, []any) { return sql, nil }
}

// Rules returns the default battery in report order.
func Rules() []Rule {
	return []Rule{
		{
			Name:        "duplicate_play_by_play",
			Category:    nbaetl.CategoryDuplicates,
			Severity:    nbaetl.SeverityError,
			Finding:     "play-by-play rows sharing (game_id, action_number)",
			PassMessage: "No duplicate play-by-play events",
			Columns:     []string{"game_id", "action_number", "order_number", "description"},
			Query: static(`
				SELECT s.game_id, s.action_number, s.order_number, s.description
				FROM fact_play_by_play s
				WHERE (SELECT COUNT(*) FROM fact_play_by_play d
				       WHERE d.game_id = s.game_id AND d.action_number = s.action_number) > 1
				ORDER BY s.game_id, s.action_number, s.order_number, s.description`),
		},
		{
			Name:        "duplicate_player_game_stats",
			Category:    nbaetl.CategoryDuplicates,
			Severity:    nbaetl.SeverityError,
			Finding:     "player game stat rows sharing (game_id, player_id)",
			PassMessage: "No duplicate player game stats",
			Columns:     []string{"game_id", "player_id", "team_id", "points"},
			Query: static(`
				SELECT s.game_id, s.player_id, s.team_id, s.points
				FROM fact_player_game_stats s
				WHERE (SELECT COUNT(*) FROM fact_player_game_stats d
				       WHERE d.game_id = s.game_id AND d.player_id = s.player_id) > 1
				ORDER BY s.game_id, s.player_id, s.team_id, s.points`),
		},
		{
			Name:        "duplicate_team_game_stats",
			Category:    nbaetl.CategoryDuplicates,
			Severity:    nbaetl.SeverityError,
			Finding:     "team game stat rows sharing (game_id, team_id)",
			PassMessage: "No duplicate team game stats",
			Columns:     []string{"game_id", "team_id", "points"},
			Query: static(`
				SELECT s.game_id, s.team_id, s.points
				FROM fact_team_game_stats s
				WHERE (SELECT COUNT(*) FROM fact_team_game_stats d
				       WHERE d.game_id = s.game_id AND d.team_id = s.team_id) > 1
				ORDER BY s.game_id, s.team_id, s.points`),
		},
		{
			Name:        "player_stats_unknown_player",
			Category:    nbaetl.CategoryReferentialIntegrity,
			Severity:    nbaetl.SeverityError,
			Finding:     "player game stat rows referencing unknown players",
			PassMessage: "All player stats reference valid players",
			Columns:     []string{"game_id", "player_id", "team_id"},
			Query: static(`
				SELECT s.game_id, s.player_id, s.team_id
				FROM fact_player_game_stats s
				WHERE NOT EXISTS (SELECT 1 FROM dim_players p WHERE p.player_id = s.player_id)
				ORDER BY s.game_id, s.player_id`),
		},
		{
			Name:        "games_unknown_team",
			Category:    nbaetl.CategoryReferentialIntegrity,
			Severity:    nbaetl.SeverityError,
			Finding:     "games referencing unknown home or away teams",
			PassMessage: "All games reference valid teams",
			Columns:     []string{"game_id", "home_team_id", "away_team_id"},
			Query: static(`
				SELECT g.game_id, g.home_team_id, g.away_team_id
				FROM fact_games g
				WHERE NOT EXISTS (SELECT 1 FROM dim_teams t WHERE t.team_id = g.home_team_id)
				   OR NOT EXISTS (SELECT 1 FROM dim_teams t WHERE t.team_id = g.away_team_id)
				ORDER BY g.game_id`),
		},
		{
			Name:        "team_stats_unknown_game",
			Category:    nbaetl.CategoryReferentialIntegrity,
			Severity:    nbaetl.SeverityError,
			Finding:     "team game stat rows referencing unknown games",
			PassMessage: "All team stats reference valid games",
			Columns:     []string{"game_id", "team_id"},
			Query: static(`
				SELECT s.game_id, s.team_id
				FROM fact_team_game_stats s
				WHERE NOT EXISTS (SELECT 1 FROM fact_games g WHERE g.game_id = s.game_id)
				ORDER BY s.game_id, s.team_id`),
		},
		{
			Name:        "games_unknown_arena",
			Category:    nbaetl.CategoryReferentialIntegrity,
			Severity:    nbaetl.SeverityError,
			Finding:     "games referencing unknown arenas",
			PassMessage: "All games reference valid arenas",
			Columns:     []string{"game_id", "arena_id"},
			Query: static(`
				SELECT g.game_id, g.arena_id
				FROM fact_games g
				WHERE NOT EXISTS (SELECT 1 FROM dim_arenas a WHERE a.arena_id = g.arena_id)
				ORDER BY g.game_id`),
		},
		{
			Name:        "games_missing_scores",
			Category:    nbaetl.CategoryMissingOrMalformed,
			Severity:    nbaetl.SeverityWarning,
			Finding:     "games with missing scores (may be future games)",
			PassMessage: "All games have scores",
			Columns:     []string{"game_id", "home_score", "away_score", "game_status_text"},
			Query: static(`
				SELECT game_id, home_score, away_score, game_status_text
				FROM fact_games
				WHERE home_score IS NULL OR away_score IS NULL
				ORDER BY game_id`),
		},
		{
			Name:        "negative_player_stats",
			Category:    nbaetl.CategoryMissingOrMalformed,
			Severity:    nbaetl.SeverityError,
			Finding:     "player game stat rows with negative counting stats",
			PassMessage: "No negative stats found",
			Columns:     []string{"game_id", "player_id", "minutes", "points", "rebounds_total", "assists"},
			Query: static(`
				SELECT game_id, player_id, minutes, points, rebounds_total, assists
				FROM fact_player_game_stats
				WHERE minutes < 0 OR points < 0
				   OR field_goals_made < 0 OR field_goals_attempted < 0
				   OR three_pointers_made < 0 OR three_pointers_attempted < 0
				   OR free_throws_made < 0 OR free_throws_attempted < 0
				   OR rebounds_offensive < 0 OR rebounds_defensive < 0 OR rebounds_total < 0
				   OR assists < 0 OR turnovers < 0 OR steals < 0 OR blocks < 0
				   OR fouls_personal < 0
				ORDER BY game_id, player_id`),
		},
		{
			Name:        "players_missing_names",
			Category:    nbaetl.CategoryMissingOrMalformed,
			Severity:    nbaetl.SeverityError,
			Finding:     "players with empty first or last names",
			PassMessage: "All players have names",
			Columns:     []string{"player_id", "first_name", "last_name"},
			Query: static(`
				SELECT player_id, first_name, last_name
				FROM dim_players
				WHERE first_name IS NULL OR TRIM(first_name) = ''
				   OR last_name IS NULL OR TRIM(last_name) = ''
				ORDER BY player_id`),
		},
		{
			Name:        "games_invalid_datetime",
			Category:    nbaetl.CategoryMissingOrMalformed,
			Severity:    nbaetl.SeverityError,
			Finding:     "games with missing or out-of-range datetimes",
			PassMessage: "All game dates are valid",
			Columns:     []string{"game_id", "game_datetime_est"},
			Query: func(env Env) (string, []any) {
				return `
				SELECT game_id, game_datetime_est
				FROM fact_games
				WHERE game_datetime_est IS NULL
				   OR game_datetime_est < ?
				   OR game_datetime_est > ?
				ORDER BY game_id`, []any{DateFloor, env.Now.UTC().AddDate(1, 0, 0)}
			},
		},
		{
			Name:        "team_stats_count_per_game",
			Category:    nbaetl.CategoryConsistency,
			Severity:    nbaetl.SeverityError,
			Finding:     "games without exactly two team stat rows",
			PassMessage: "All games have exactly 2 team stat records",
			Columns:     []string{"game_id", "team_count"},
			Query: static(`
				SELECT game_id, COUNT(*)
				FROM fact_team_game_stats
				GROUP BY game_id
				HAVING COUNT(*) <> 2
				ORDER BY game_id`),
		},
		{
			Name:        "game_score_mismatch",
			Category:    nbaetl.CategoryConsistency,
			Severity:    nbaetl.SeverityError,
			Finding:     "games whose scores differ from team stat points",
			PassMessage: "Game scores match team stats",
			Columns:     []string{"game_id", "home_score", "away_score", "home_points", "away_points"},
			Query: static(`
				SELECT g.game_id, g.home_score, g.away_score, hs.points, vs.points
				FROM fact_games g
				JOIN fact_team_game_stats hs ON hs.game_id = g.game_id AND hs.is_home_team
				JOIN fact_team_game_stats vs ON vs.game_id = g.game_id AND NOT vs.is_home_team
				WHERE g.home_score <> hs.points OR g.away_score <> vs.points
				ORDER BY g.game_id`),
		},
		{
			Name:        "pbp_final_score_mismatch",
			Category:    nbaetl.CategoryConsistency,
			Severity:    nbaetl.SeverityWarning,
			Finding:     "games whose play-by-play scores do not reach the final score",
			PassMessage: "Play-by-play scores match game finals",
			Columns:     []string{"game_id", "pbp_home", "pbp_away", "home_score", "away_score"},
			Query: static(`
				SELECT p.game_id, MAX(p.score_home), MAX(p.score_away), g.home_score, g.away_score
				FROM fact_play_by_play p
				JOIN fact_games g ON g.game_id = p.game_id
				GROUP BY p.game_id, g.home_score, g.away_score
				HAVING MAX(p.score_home) <> g.home_score OR MAX(p.score_away) <> g.away_score
				ORDER BY p.game_id`),
		},
		{
			Name:        "player_stats_not_on_roster",
			Category:    nbaetl.CategoryConsistency,
			Severity:    nbaetl.SeverityWarning,
			Finding:     "player game stat rows without a roster entry for that team (trades/signings)",
			PassMessage: "All players in games are on rosters",
			Columns:     []string{"game_id", "player_id", "team_id"},
			Query: static(`
				SELECT s.game_id, s.player_id, s.team_id
				FROM fact_player_game_stats s
				WHERE NOT EXISTS (
					SELECT 1 FROM fact_player_roster r
					WHERE r.player_id = s.player_id AND r.team_id = s.team_id)
				ORDER BY s.game_id, s.player_id`),
		},
	}
}

// ExtendedRules returns opt-in checks that are not part of the default battery.
func ExtendedRules() []Rule {
	return []Rule{
		{
			Name:        "team_rebounds_total_mismatch",
			Category:    nbaetl.CategoryConsistency,
			Severity:    nbaetl.SeverityWarning,
			Finding:     "team stat rows whose total rebounds differ from offensive + defensive + team",
			PassMessage: "Team rebound totals add up",
			Columns:     []string{"game_id", "team_id", "rebounds_offensive", "rebounds_defensive", "rebounds_team", "rebounds_total"},
			Query: static(`
				SELECT game_id, team_id, rebounds_offensive, rebounds_defensive, rebounds_team, rebounds_total
				FROM fact_team_game_stats
				WHERE rebounds_total <> rebounds_offensive + rebounds_defensive + rebounds_team
				ORDER BY game_id, team_id`),
		},
	}
}
