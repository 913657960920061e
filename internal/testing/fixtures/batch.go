// Package fixtures generates synthetic, well-formed batches for tests.
package fixtures

import (
	"fmt"
	"time"

	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

const (
	// FirstTeamID matches the real league's id range.
	FirstTeamID = 1610612737

	teamCount       = 30
	playersPerTeam  = 10
	startersPerTeam = 5
	gamesPerDay     = 15
)

// BatchBuilder provides a fluent API for building batches. Every generated
// batch satisfies all default validation rules; unplayed games only raise
// the missing-score warning.
//
// Example usage:
//
//	batch := fixtures.NewBatchBuilder().
//	    Games(84).
//	    PlayByPlayTotal(47797).
//	    Build()
type BatchBuilder struct {
	games     int
	unplayed  int
	pbpTotal  int
	firstGame int
	season    string
	start     time.Time
}

// NewBatchBuilder returns a builder for ten games with twenty events each.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		games:     10,
		pbpTotal:  200,
		firstGame: 1,
		season:    "2024-25",
		start:     time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC),
	}
}

// Games sets the number of played games.
func (b *BatchBuilder) Games(n int) *BatchBuilder {
	b.games = n
	return b
}

// UnplayedGames appends n scheduled games with no scores, stats or events.
func (b *BatchBuilder) UnplayedGames(n int) *BatchBuilder {
	b.unplayed = n
	return b
}

// PlayByPlayTotal sets the number of play-by-play events spread over the
// played games. Each played game gets at least two events.
func (b *BatchBuilder) PlayByPlayTotal(n int) *BatchBuilder {
	b.pbpTotal = n
	return b
}

// FirstGame sets the sequence number of the first game, so that successive
// builders can produce disjoint game ids.
func (b *BatchBuilder) FirstGame(n int) *BatchBuilder {
	b.firstGame = n
	return b
}

// Start sets the date of the first game.
func (b *BatchBuilder) Start(t time.Time) *BatchBuilder {
	b.start = t
	return b
}

// GameID returns the id the builder assigns to game sequence number n.
func GameID(n int) string {
	return fmt.Sprintf("00224%05d", n)
}

// TeamID returns the id of the i-th generated team.
func TeamID(i int) int64 {
	return int64(FirstTeamID + i%teamCount)
}

// PlayerID returns the id of the k-th player of the i-th team.
func PlayerID(team, k int) int64 {
	return int64(200000 + (team%teamCount)*100 + k)
}

// Build generates the batch.
func (b *BatchBuilder) Build() *nbaetl.Batch {
	batch := &nbaetl.Batch{}

	for i := 0; i < teamCount; i++ {
		batch.Teams = append(batch.Teams, nbaetl.Team{
			TeamID:  TeamID(i),
			Name:    fmt.Sprintf("Team %02d", i),
			City:    fmt.Sprintf("City %02d", i),
			Tricode: fmt.Sprintf("T%02d", i),
			Slug:    fmt.Sprintf("team-%02d", i),
		})
		state := "ST"
		batch.Arenas = append(batch.Arenas, nbaetl.Arena{
			ArenaID: int64(i + 1),
			Name:    fmt.Sprintf("Arena %02d", i),
			City:    fmt.Sprintf("City %02d", i),
			State:   &state,
		})
		for k := 0; k < playersPerTeam; k++ {
			pos := []string{"G", "F", "C"}[k%3]
			batch.Players = append(batch.Players, nbaetl.Player{
				PlayerID:  PlayerID(i, k),
				FirstName: fmt.Sprintf("First%d", k),
				LastName:  fmt.Sprintf("Last%02d%d", i, k),
				Slug:      fmt.Sprintf("player-%02d-%d", i, k),
				Position:  &pos,
			})
			exp := int64(k)
			batch.Rosters = append(batch.Rosters, nbaetl.RosterEntry{
				PlayerID:         PlayerID(i, k),
				TeamID:           TeamID(i),
				Season:           b.season,
				RosterStatus:     1,
				FromYear:         2024 - int64(k),
				ToYear:           2025,
				SeasonExperience: &exp,
			})
		}
	}

	total := b.games + b.unplayed
	dates := make(map[int64]bool)
	for g := 0; g < total; g++ {
		seq := b.firstGame + g
		day := b.start.AddDate(0, 0, (seq-1)/gamesPerDay)
		dateID := nbaetl.DateID(day)
		if !dates[dateID] {
			dates[dateID] = true
			_, week := day.ISOWeek()
			batch.Dates = append(batch.Dates, nbaetl.Date{
				DateID:     dateID,
				FullDate:   day,
				Year:       int64(day.Year()),
				Month:      int64(day.Month()),
				DayOfWeek:  int64(day.Weekday()),
				WeekNumber: int64(week),
			})
		}

		home, away := (2*seq)%teamCount, (2*seq+1)%teamCount
		est := day.Add(19*time.Hour + 30*time.Minute)
		game := nbaetl.Game{
			GameID:      GameID(seq),
			GameCode:    fmt.Sprintf("%s/T%02dT%02d", day.Format("20060102"), away, home),
			GameDateID:  dateID,
			DatetimeEST: est,
			DatetimeUTC: est.Add(4 * time.Hour),
			SeasonType:  "Regular Season",
			Status:      1,
			StatusText:  "7:30 pm ET",
			Sequence:    int64(seq%gamesPerDay + 1),
			ArenaID:     int64(home + 1),
			HomeTeamID:  TeamID(home),
			AwayTeamID:  TeamID(away),
		}

		if g < b.games {
			events := b.pbpTotal / max(1, b.games)
			if g < b.pbpTotal%max(1, b.games) {
				events++
			}
			b.played(batch, &game, home, away, max(2, events))
		}
		batch.Games = append(batch.Games, game)
	}
	return batch
}

func (b *BatchBuilder) played(batch *nbaetl.Batch, game *nbaetl.Game, home, away, events int) {
	game.Status = 3
	game.StatusText = "Final"

	var scores [2]int64
	for side, team := range []int{home, away} {
		var pts int64
		for k := 0; k < startersPerTeam; k++ {
			p := int64(10 + (k+side+len(game.GameID))%7*3)
			pts += p
			made := p / 2
			zero := int64(0)
			mins := int64(30 + k)
			reb := int64(k + 2)
			oreb := int64(1)
			dreb := reb - oreb
			ast, tov := int64(k), int64(1)
			attempts := made + 4
			pm := int64(0)
			batch.PlayerStats = append(batch.PlayerStats, nbaetl.PlayerGameStat{
				GameID:                 game.GameID,
				PlayerID:               PlayerID(team, k),
				TeamID:                 TeamID(team),
				Starter:                true,
				Minutes:                &mins,
				Points:                 &p,
				FieldGoalsMade:         &made,
				FieldGoalsAttempted:    &attempts,
				ThreePointersMade:      &zero,
				ThreePointersAttempted: &zero,
				FreeThrowsMade:         ptr(p - 2*made),
				FreeThrowsAttempted:    ptr(p - 2*made),
				ReboundsOffensive:      &oreb,
				ReboundsDefensive:      &dreb,
				ReboundsTotal:          &reb,
				Assists:                &ast,
				Turnovers:              &tov,
				Steals:                 &zero,
				Blocks:                 &zero,
				FoulsPersonal:          ptr(int64(2)),
				PlusMinus:              &pm,
			})
		}
		scores[side] = pts

		pct := 0.5
		batch.TeamStats = append(batch.TeamStats, nbaetl.TeamGameStat{
			GameID:              game.GameID,
			TeamID:              TeamID(team),
			IsHomeTeam:          side == 0,
			Points:              pts,
			FieldGoalsMade:      pts / 2,
			FieldGoalsAttempted: pts,
			FieldGoalPct:        &pct,
			FreeThrowsMade:      pts % 2,
			FreeThrowsAttempted: pts % 2,
			ReboundsOffensive:   5,
			ReboundsDefensive:   30,
			ReboundsTeam:        5,
			ReboundsTotal:       40,
			Assists:             20,
			Turnovers:           5,
			FoulsPersonal:       10,
			PointsInPaint:       pts / 2,
		})
		batch.Leaders = append(batch.Leaders, nbaetl.GameLeader{
			GameID:   game.GameID,
			TeamID:   TeamID(team),
			PlayerID: PlayerID(team, 0),
			StatType: "points",
			Value:    float64(pts),
		})
	}
	game.HomeScore, game.AwayScore = &scores[0], &scores[1]
	game.HomeWins, game.AwayLosses = 1, 1

	start := game.DatetimeUTC
	for i := 0; i < events; i++ {
		side := i % 2
		team := []int{home, away}[side]
		teamID, playerID := TeamID(team), PlayerID(team, i%startersPerTeam)
		last := int64(events - 1)
		desc := fmt.Sprintf("event %d", i+1)
		batch.PlayByPlay = append(batch.PlayByPlay, nbaetl.PlayByPlayEvent{
			GameID:       game.GameID,
			ActionNumber: int64(i + 1),
			OrderNumber:  int64(i+1) * 10000,
			Period:       int64(1 + 4*i/events),
			Clock:        fmt.Sprintf("PT%02dM00.00S", 11-(i%12)),
			TimeActual:   start.Add(time.Duration(i) * 10 * time.Second),
			TeamID:       &teamID,
			PlayerID:     &playerID,
			ActionType:   "2pt",
			IsFieldGoal:  true,
			ScoreHome:    scores[0] * int64(i) / last,
			ScoreAway:    scores[1] * int64(i) / last,
			Possession:   teamID,
			Location:     []string{"h", "v"}[side],
			Description:  desc,
		})
	}
}

func ptr[T any](v T) *T { return &v }
