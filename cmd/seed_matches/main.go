package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"goMatchServer/crypto"
	"goMatchServer/db"
	"goMatchServer/match"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env not found")
	}

	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("DATABASE_URL not set")
	}

	key, err := crypto.LoadSealKey()
	if err != nil {
		log.Fatalf("Seal key required for seeding: %v", err)
	}
	sealer, err := match.NewSealer(key)
	if err != nil {
		log.Fatalf("Failed to create sealer: %v", err)
	}

	// Init postgres
	if err := db.InitPostgres(); err != nil {
		log.Fatalf("Failed to init postgres: %v", err)
	}
	defer db.ClosePostgres()

	ctx := context.Background()

	fmt.Println("Seeding match history with test data...")

	for _, record := range sampleMatches() {
		verified, err := sealer.Verify(&record)
		if err != nil {
			log.Printf("Failed to seal %s: %v", record.ID, err)
			continue
		}

		// Delete existing
		db.PostgresPool.Exec(ctx, "DELETE FROM match_history WHERE match_id = $1", record.ID)

		if err := db.StoreVerifiedMatch(ctx, verified); err != nil {
			log.Printf("Failed to store %s: %v", record.ID, err)
			continue
		}
		fmt.Printf("  %s  %s %d-%d %s  proof=%s share=%s\n",
			record.ID, record.HomeTeamName, record.HomeScore,
			record.AwayScore, record.AwayTeamName, verified.Proof, verified.ShareCode)
	}

	fmt.Println("Done.")
}

func sampleMatches() []match.MatchRecord {
	return []match.MatchRecord{
		{
			ID:              "match-seed-001",
			HomeTeamName:    "Crimson United",
			AwayTeamName:    "Azure City",
			DurationMinutes: 90,
			HomeScore:       2,
			AwayScore:       1,
			ParticipantID:   "player-alice",
			Outcome:         match.OutcomeWin,
			Events: []match.MatchEvent{
				{Kind: match.EventShot, SimulatedTimeMs: 420000, Team: match.TeamHome, Actor: "Keane", Description: "Long-range effort saved"},
				{Kind: match.EventGoal, SimulatedTimeMs: 900000, Team: match.TeamHome, Actor: "Keane", Description: "Header from the corner"},
				{Kind: match.EventGoal, SimulatedTimeMs: 1800000, Team: match.TeamAway, Actor: "Moreno", Description: "Counter-attack finish"},
				{Kind: match.EventCard, SimulatedTimeMs: 2400000, Team: match.TeamAway, Actor: "Silva", Description: "Late challenge", Extra: map[string]string{"color": "yellow"}},
				{Kind: match.EventGoal, SimulatedTimeMs: 2700000, Team: match.TeamHome, Actor: "Adeyemi", Description: "Penalty, bottom left"},
			},
		},
		{
			ID:              "match-seed-002",
			HomeTeamName:    "Harbor Rovers",
			AwayTeamName:    "Summit FC",
			DurationMinutes: 90,
			HomeScore:       0,
			AwayScore:       0,
			ParticipantID:   "player-bob",
			Outcome:         match.OutcomeDraw,
			Events: []match.MatchEvent{
				{Kind: match.EventShot, SimulatedTimeMs: 1500000, Team: match.TeamAway, Actor: "Okafor", Description: "Curler off the post"},
				{Kind: match.EventSave, SimulatedTimeMs: 1500000, Team: match.TeamHome, Actor: "Virtanen", Description: "Tipped onto the bar"},
				{Kind: match.EventFoul, SimulatedTimeMs: 3300000, Team: match.TeamHome, Actor: "Dale", Description: "Shirt pull in midfield"},
			},
		},
		{
			ID:              "match-seed-003",
			HomeTeamName:    "Northgate",
			AwayTeamName:    "Riverside Wanderers",
			DurationMinutes: 120,
			HomeScore:       1,
			AwayScore:       3,
			ParticipantID:   "player-carol",
			Outcome:         match.OutcomeLoss,
			Events: []match.MatchEvent{
				{Kind: match.EventGoal, SimulatedTimeMs: 600000, Team: match.TeamAway, Actor: "Brandt", Description: "Free kick over the wall"},
				{Kind: match.EventGoal, SimulatedTimeMs: 2100000, Team: match.TeamHome, Actor: "Ito", Description: "Scramble in the box"},
				{Kind: match.EventCard, SimulatedTimeMs: 4500000, Team: match.TeamHome, Actor: "Ito", Description: "Second bookable offence", Extra: map[string]string{"color": "red"}},
				{Kind: match.EventGoal, SimulatedTimeMs: 5400000, Team: match.TeamAway, Actor: "Brandt", Description: "One-on-one finish"},
				{Kind: match.EventGoal, SimulatedTimeMs: 6900000, Team: match.TeamAway, Actor: "Costa", Description: "Tap-in at the far post"},
			},
		},
	}
}
