package nbaetl

// Table names of the star schema.
const (
	TableTeams       = "dim_teams"
	TablePlayers     = "dim_players"
	TableArenas      = "dim_arenas"
	TableDates       = "dim_dates"
	TableRoster      = "fact_player_roster"
	TableGames       = "fact_games"
	TableTeamStats   = "fact_team_game_stats"
	TablePlayerStats = "fact_player_game_stats"
	TablePlayByPlay  = "fact_play_by_play"
	TableLeaders     = "fact_game_leaders"
)

// Batch is one load unit handed over by the transform stage: four dimension
// collections and six fact collections, each in input order.
type Batch struct {
	Teams   []Team
	Players []Player
	Arenas  []Arena
	Dates   []Date

	Rosters     []RosterEntry
	Games       []Game
	TeamStats   []TeamGameStat
	PlayerStats []PlayerGameStat
	PlayByPlay  []PlayByPlayEvent
	Leaders     []GameLeader
}

func tuples[T Row](items []T) [][]any {
	if len(items) == 0 {
		return nil
	}
	out := make([][]any, len(items))
	for i, item := range items {
		out[i] = item.Values()
	}
	return out
}

// Rows returns the collection for table as column-ordered tuples.
// Unknown table names yield nil.
func (b *Batch) Rows(table string) [][]any {
	switch table {
	case TableTeams:
		return tuples(b.Teams)
	case TablePlayers:
		return tuples(b.Players)
	case TableArenas:
		return tuples(b.Arenas)
	case TableDates:
		return tuples(b.Dates)
	case TableRoster:
		return tuples(b.Rosters)
	case TableGames:
		return tuples(b.Games)
	case TableTeamStats:
		return tuples(b.TeamStats)
	case TablePlayerStats:
		return tuples(b.PlayerStats)
	case TablePlayByPlay:
		return tuples(b.PlayByPlay)
	case TableLeaders:
		return tuples(b.Leaders)
	default:
		return nil
	}
}

// Len returns the number of rows in the collection for table.
func (b *Batch) Len(table string) int {
	switch table {
	case TableTeams:
		return len(b.Teams)
	case TablePlayers:
		return len(b.Players)
	case TableArenas:
		return len(b.Arenas)
	case TableDates:
		return len(b.Dates)
	case TableRoster:
		return len(b.Rosters)
	case TableGames:
		return len(b.Games)
	case TableTeamStats:
		return len(b.TeamStats)
	case TablePlayerStats:
		return len(b.PlayerStats)
	case TablePlayByPlay:
		return len(b.PlayByPlay)
	case TableLeaders:
		return len(b.Leaders)
	default:
		return 0
	}
}

// GameIDs returns the distinct game ids referenced by any game-keyed fact
// collection, in first-seen order.
func (b *Batch) GameIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, g := range b.Games {
		add(g.GameID)
	}
	for _, s := range b.TeamStats {
		add(s.GameID)
	}
	for _, s := range b.PlayerStats {
		add(s.GameID)
	}
	for _, e := range b.PlayByPlay {
		add(e.GameID)
	}
	for _, l := range b.Leaders {
		add(l.GameID)
	}
	return ids
}

// FactRows returns the total number of fact rows in the batch.
func (b *Batch) FactRows() int {
	return len(b.Rosters) + len(b.Games) + len(b.TeamStats) +
		len(b.PlayerStats) + len(b.PlayByPlay) + len(b.Leaders)
}

// IsEmpty reports whether the batch carries no rows at all.
func (b *Batch) IsEmpty() bool {
	return b.FactRows() == 0 && len(b.Teams) == 0 && len(b.Players) == 0 &&
		len(b.Arenas) == 0 && len(b.Dates) == 0
}
