package schema

import "github.com/vvka-141/nbaetl/pkg/nbaetl"

func req(name string, t Type) Column { return Column{Name: name, Type: t, NotNull: true} }
func opt(name string, t Type) Column { return Column{Name: name, Type: t} }

func fk(column, refTable, refColumn string) ForeignKey {
	return ForeignKey{Columns: []string{column}, RefTable: refTable, RefColumns: []string{refColumn}}
}

func gameFK() ForeignKey   { return fk("game_id", nbaetl.TableGames, "game_id") }
func teamFK() ForeignKey   { return fk("team_id", nbaetl.TableTeams, "team_id") }
func playerFK() ForeignKey { return fk("player_id", nbaetl.TablePlayers, "player_id") }

var teams = Table{
	Name: nbaetl.TableTeams,
	Kind: Dimension,
	Columns: []Column{
		req("team_id", Integer),
		req("team_name", Text),
		req("team_city", Text),
		req("team_tricode", Text),
		req("team_slug", Text),
		req("is_defunct", Boolean),
	},
	PrimaryKey: []string{"team_id"},
	ReplaceKey: []string{"team_id"},
	Indexes:    []Index{{Name: "idx_teams_tricode", Columns: []string{"team_tricode"}}},
}

var players = Table{
	Name: nbaetl.TablePlayers,
	Kind: Dimension,
	Columns: []Column{
		req("player_id", Integer),
		req("first_name", Text),
		req("last_name", Text),
		req("player_slug", Text),
		opt("position", Text),
		opt("height", Text),
		opt("weight", Text),
		opt("birthdate", Date),
		opt("country", Text),
		opt("draft_year", Integer),
		opt("draft_round", Integer),
		opt("draft_number", Integer),
		opt("last_affiliation", Text),
		opt("last_affiliation_type", Text),
	},
	PrimaryKey: []string{"player_id"},
	ReplaceKey: []string{"player_id"},
	Indexes:    []Index{{Name: "idx_players_name", Columns: []string{"last_name", "first_name"}}},
}

var arenas = Table{
	Name: nbaetl.TableArenas,
	Kind: Dimension,
	Columns: []Column{
		req("arena_id", Integer),
		req("arena_name", Text),
		req("arena_city", Text),
		opt("arena_state", Text),
	},
	PrimaryKey: []string{"arena_id"},
	ReplaceKey: []string{"arena_id"},
}

var dates = Table{
	Name: nbaetl.TableDates,
	Kind: Dimension,
	Columns: []Column{
		req("date_id", Integer),
		req("full_date", Date),
		req("year", Integer),
		req("month", Integer),
		req("day_of_week", Integer),
		req("week_number", Integer),
	},
	PrimaryKey: []string{"date_id"},
	ReplaceKey: []string{"date_id"},
}

var roster = Table{
	Name: nbaetl.TableRoster,
	Kind: Fact,
	Columns: []Column{
		req("player_id", Integer),
		req("team_id", Integer),
		req("season", Text),
		req("roster_status", Integer),
		req("from_year", Integer),
		req("to_year", Integer),
		opt("is_two_way", Boolean),
		opt("is_ten_day", Boolean),
		opt("jersey_num", Text),
		opt("season_experience", Integer),
	},
	PrimaryKey:  []string{"player_id", "team_id", "season"},
	ReplaceKey:  []string{"player_id", "team_id", "season"},
	ForeignKeys: []ForeignKey{playerFK(), teamFK()},
	Indexes:     []Index{{Name: "idx_roster_team_season", Columns: []string{"team_id", "season"}}},
}

var games = Table{
	Name: nbaetl.TableGames,
	Kind: Fact,
	Columns: []Column{
		req("game_id", Text),
		req("game_code", Text),
		req("game_date_id", Integer),
		req("game_datetime_est", Timestamp),
		req("game_datetime_utc", Timestamp),
		req("season_type", Text),
		req("game_status", Integer),
		req("game_status_text", Text),
		req("game_sequence", Integer),
		req("arena_id", Integer),
		req("home_team_id", Integer),
		req("away_team_id", Integer),
		opt("home_score", Integer),
		opt("away_score", Integer),
		req("home_wins", Integer),
		req("home_losses", Integer),
		opt("home_seed", Integer),
		req("away_wins", Integer),
		req("away_losses", Integer),
		opt("away_seed", Integer),
		req("is_neutral", Boolean),
		opt("series_game_number", Text),
		opt("series_text", Text),
		opt("series_conference", Text),
		opt("game_label", Text),
		opt("game_subtype", Text),
	},
	PrimaryKey: []string{"game_id"},
	ReplaceKey: []string{"game_id"},
	ForeignKeys: []ForeignKey{
		fk("game_date_id", nbaetl.TableDates, "date_id"),
		fk("arena_id", nbaetl.TableArenas, "arena_id"),
		fk("home_team_id", nbaetl.TableTeams, "team_id"),
		fk("away_team_id", nbaetl.TableTeams, "team_id"),
	},
	Indexes: []Index{
		{Name: "idx_games_date", Columns: []string{"game_date_id"}},
		{Name: "idx_games_home_team", Columns: []string{"home_team_id", "game_date_id"}},
		{Name: "idx_games_away_team", Columns: []string{"away_team_id", "game_date_id"}},
	},
}

var teamStats = Table{
	Name: nbaetl.TableTeamStats,
	Kind: Fact,
	Columns: []Column{
		req("game_id", Text),
		req("team_id", Integer),
		req("is_home_team", Boolean),
		req("points", Integer),
		req("field_goals_made", Integer),
		req("field_goals_attempted", Integer),
		opt("field_goal_pct", Real),
		req("three_pointers_made", Integer),
		req("three_pointers_attempted", Integer),
		opt("three_pointer_pct", Real),
		req("free_throws_made", Integer),
		req("free_throws_attempted", Integer),
		opt("free_throw_pct", Real),
		req("rebounds_offensive", Integer),
		req("rebounds_defensive", Integer),
		req("rebounds_team", Integer),
		req("rebounds_total", Integer),
		req("assists", Integer),
		req("turnovers", Integer),
		req("steals", Integer),
		req("blocks", Integer),
		req("fouls_personal", Integer),
		req("points_in_paint", Integer),
		req("points_second_chance", Integer),
		req("points_fast_break", Integer),
		req("points_from_turnovers", Integer),
		req("fouls_drawn", Integer),
	},
	PrimaryKey:  []string{"game_id", "team_id"},
	ReplaceKey:  []string{"game_id"},
	ForeignKeys: []ForeignKey{gameFK(), teamFK()},
	Indexes:     []Index{{Name: "idx_team_stats_team", Columns: []string{"team_id"}}},
}

var playerStats = Table{
	Name: nbaetl.TablePlayerStats,
	Kind: Fact,
	Columns: []Column{
		req("game_id", Text),
		req("player_id", Integer),
		req("team_id", Integer),
		opt("jersey_num", Text),
		opt("position", Text),
		req("starter", Boolean),
		opt("minutes", Integer),
		opt("points", Integer),
		opt("field_goals_made", Integer),
		opt("field_goals_attempted", Integer),
		opt("three_pointers_made", Integer),
		opt("three_pointers_attempted", Integer),
		opt("free_throws_made", Integer),
		opt("free_throws_attempted", Integer),
		opt("rebounds_offensive", Integer),
		opt("rebounds_defensive", Integer),
		opt("rebounds_total", Integer),
		opt("assists", Integer),
		opt("turnovers", Integer),
		opt("steals", Integer),
		opt("blocks", Integer),
		opt("fouls_personal", Integer),
		opt("plus_minus", Integer),
	},
	PrimaryKey:  []string{"game_id", "player_id"},
	ReplaceKey:  []string{"game_id"},
	ForeignKeys: []ForeignKey{gameFK(), playerFK(), teamFK()},
	Indexes: []Index{
		{Name: "idx_player_stats_player", Columns: []string{"player_id"}},
		{Name: "idx_player_stats_team_player", Columns: []string{"team_id", "player_id"}},
	},
}

var playByPlay = Table{
	Name: nbaetl.TablePlayByPlay,
	Kind: Fact,
	Columns: []Column{
		req("game_id", Text),
		req("action_number", Integer),
		req("order_number", Integer),
		req("period", Integer),
		req("clock", Text),
		req("time_actual", Timestamp),
		opt("team_id", Integer),
		opt("player_id", Integer),
		req("action_type", Text),
		opt("sub_type", Text),
		opt("descriptor", Text),
		opt("qualifiers", Text),
		opt("x_coord", Real),
		opt("y_coord", Real),
		opt("side", Text),
		opt("shot_distance", Real),
		opt("shot_result", Text),
		req("is_field_goal", Boolean),
		req("score_home", Integer),
		req("score_away", Integer),
		req("possession", Integer),
		req("location", Text),
		req("description", Text),
		opt("assist_person_id", Integer),
		opt("assist_total", Real),
		opt("steal_person_id", Integer),
		opt("turnover_total", Real),
		opt("rebound_total", Real),
		opt("foul_personal_total", Real),
		opt("foul_drawn_person_id", Integer),
	},
	PrimaryKey:  []string{"game_id", "action_number"},
	ReplaceKey:  []string{"game_id"},
	ForeignKeys: []ForeignKey{gameFK(), teamFK(), playerFK()},
	Indexes: []Index{
		{Name: "idx_pbp_period", Columns: []string{"game_id", "period", "order_number"}},
		{Name: "idx_pbp_player", Columns: []string{"player_id"}},
	},
}

var leaders = Table{
	Name: nbaetl.TableLeaders,
	Kind: Fact,
	Columns: []Column{
		req("game_id", Text),
		req("team_id", Integer),
		req("player_id", Integer),
		req("stat_type", Text),
		req("value", Real),
	},
	PrimaryKey:  []string{"game_id", "team_id", "player_id", "stat_type"},
	ReplaceKey:  []string{"game_id"},
	ForeignKeys: []ForeignKey{gameFK(), teamFK(), playerFK()},
	Indexes:     []Index{{Name: "idx_leaders_player_stat", Columns: []string{"player_id", "stat_type"}}},
}

// Tables is every table in dependency order, parents first.
var Tables = []Table{
	teams, players, arenas, dates,
	roster,
	games,
	teamStats, playerStats, playByPlay, leaders,
}

// Lookup returns the table named name.
func Lookup(name string) (Table, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) Table {
	t, ok := Lookup(name)
	if !ok {
		panic("schema: unknown table " + name)
	}
	return t
}

// Dimensions returns the dimension tables in load order.
func Dimensions() []Table {
	return filter(Dimension)
}

// Facts returns the fact tables in load order.
func Facts() []Table {
	return filter(Fact)
}

func filter(kind Kind) []Table {
	var out []Table
	for _, t := range Tables {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}
