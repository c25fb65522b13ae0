package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	matchID      string
	userID       string
	tournamentID string
	week         int
	day          string
	hour         int
	homeScore    string
	awayScore    string
	dryRun       bool
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(availabilityCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(metricsCmd)

	for _, cmd := range []*cobra.Command{fetchCmd, processCmd, toggleCmd, submitCmd, reportCmd} {
		cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Do not persist or send anything")
	}

	availabilityCmd.Flags().StringVar(&matchID, "match", "", "The match ID")
	availabilityCmd.Flags().StringVar(&userID, "user", "", "The user ID (defaults to the configured one)")
	availabilityCmd.Flags().IntVar(&week, "week", 0, "Week offset for the day window")
	availabilityCmd.MarkFlagRequired("match")

	toggleCmd.Flags().StringVar(&matchID, "match", "", "The match ID")
	toggleCmd.Flags().StringVar(&userID, "user", "", "The user ID (defaults to the configured one)")
	toggleCmd.Flags().StringVar(&day, "day", "", "The day key, e.g. 2024-01-23")
	toggleCmd.Flags().IntVar(&hour, "hour", 0, "The slot hour, e.g. 14")
	toggleCmd.MarkFlagRequired("match")
	toggleCmd.MarkFlagRequired("day")
	toggleCmd.MarkFlagRequired("hour")

	submitCmd.Flags().StringVar(&matchID, "match", "", "The match ID")
	submitCmd.Flags().StringVar(&userID, "user", "", "The user ID (defaults to the configured one)")
	submitCmd.MarkFlagRequired("match")

	reportCmd.Flags().StringVar(&matchID, "match", "", "The match ID")
	reportCmd.Flags().StringVar(&tournamentID, "tournament", "", "The tournament ID (defaults to the configured one)")
	reportCmd.Flags().StringVar(&homeScore, "home", "", "The home player's score")
	reportCmd.Flags().StringVar(&awayScore, "away", "", "The away player's score")
	reportCmd.MarkFlagRequired("match")

	clearCmd.Flags().StringVar(&matchID, "match", "", "Clear only this match")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the matches in the local store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch tournament matches from GameHubz into the local store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches/fetch" + dryRunQuery())
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the match processing state machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/process" + dryRunQuery())
	},
}

var availabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "Show the availability grid for a match",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		params.Set("matchID", matchID)
		if userID != "" {
			params.Set("userID", userID)
		}
		if week != 0 {
			params.Set("week", strconv.Itoa(week))
		}
		return performGetRequest("/availability?" + params.Encode())
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle one availability slot for a match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/availability/toggle"+dryRunQuery(), map[string]any{
			"matchId": matchID,
			"userId":  userID,
			"day":     day,
			"hour":    hour,
		})
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the selected availability slots to GameHubz",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/availability/submit"+dryRunQuery(), map[string]any{
			"matchId": matchID,
			"userId":  userID,
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report the final result of a match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/report-result"+dryRunQuery(), map[string]any{
			"matchId":      matchID,
			"tournamentId": tournamentID,
			"homeScore":    homeScore,
			"awayScore":    awayScore,
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the local store, or a single match",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/clear"
		if matchID != "" {
			endpoint += "?matchID=" + url.QueryEscape(matchID)
		}
		return performGetRequest(endpoint)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func dryRunQuery() string {
	if dryRun {
		return "?dry_run=true"
	}
	return ""
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

func performPostRequest(endpoint string, payload map[string]any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
