package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gamehubz/matchday/internal/gamehubz"
	"github.com/gamehubz/matchday/internal/schedule"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"github.com/vmihailenco/msgpack/v5"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	dummyPlayers := []gamehubz.Participant{
		{UserID: "player-1", Name: "Seeder Player A", FairPlayScore: 4.5},
		{UserID: "player-2", Name: "Seeder Player B", FairPlayScore: 4.1},
		{UserID: "player-3", Name: "Seeder Player C", FairPlayScore: 3.8},
		{UserID: "player-4", Name: "Seeder Player D", FairPlayScore: 4.9},
	}
	tournamentID := "seed-tournament"

	const batchSize = 100 // Insert 100 matches at a time
	const numMatches = 10000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*17) // 17 columns per match

	for i := 0; i < numMatches; i++ {
		matchTime := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		home := dummyPlayers[rand.Intn(2)]
		away := dummyPlayers[2+rand.Intn(2)]
		homeScore := rand.Intn(5)
		awayScore := rand.Intn(5)

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			tournamentID,
			"seed-hub",
			home.UserID,
			home.Name,
			home.FairPlayScore,
			away.UserID,
			away.Name,
			away.FairPlayScore,
			string(gamehubz.MatchStatusCompleted),
			matchTime.Format("2006-01-02T15:04:05"),
			matchTime.Unix(),
			homeScore,
			awayScore,
			string(gamehubz.StatusCompleted),
			nil, // schedule_notified_ts
			nil, // result_notified_ts
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			stmt := fmt.Sprintf(`
				INSERT INTO matches (id, tournament_id, hub_id, home_player_id, home_player_name, home_fair_play,
					away_player_id, away_player_name, away_fair_play, status, confirmed_time, start_time,
					home_score, away_score, processing_status, schedule_notified_ts, result_notified_ts)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*17)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	// One in-progress match with an editable availability grid so the
	// availability endpoints have something to work with out of the box.
	pendingID := uuid.NewString()
	_, err = db.Exec(`
		INSERT INTO matches (id, tournament_id, hub_id, home_player_id, home_player_name, home_fair_play,
			away_player_id, away_player_name, away_fair_play, status, start_time, processing_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		pendingID, tournamentID, "seed-hub",
		dummyPlayers[0].UserID, dummyPlayers[0].Name, dummyPlayers[0].FairPlayScore,
		dummyPlayers[2].UserID, dummyPlayers[2].Name, dummyPlayers[2].FairPlayScore,
		string(gamehubz.MatchStatusPendingAvailability), 0, string(gamehubz.StatusNew))
	if err != nil {
		log.Fatalf("Failed to insert pending match: %s", err)
	}

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	mySlots := []schedule.SlotKey{
		schedule.SlotKeyFor(tomorrow, 14),
		schedule.SlotKeyFor(tomorrow, 16),
	}
	opponentSlots := []schedule.SlotKey{
		schedule.SlotKeyFor(tomorrow, 16),
	}
	myBlob, _ := msgpack.Marshal(mySlots)
	opponentBlob, _ := msgpack.Marshal(opponentSlots)

	_, err = db.Exec(`
		INSERT INTO availability_grids (match_id, user_id, my_slots, opponent_slots, state, updated_at)
		VALUES (?, ?, ?, ?, ?, ?);`,
		pendingID, dummyPlayers[0].UserID, myBlob, opponentBlob, string(schedule.GridStateEditing), time.Now().Unix())
	if err != nil {
		log.Fatalf("Failed to insert availability grid: %s", err)
	}
	log.Info("Seeded pending match with availability grid", "matchID", pendingID)

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy matches.", "duration", duration)
}
