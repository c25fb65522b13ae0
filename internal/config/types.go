package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	GameHubz      GameHubzConfig
	Slack         SlackConfig
	Turso         TursoConfig
	ProjectID     string
}

// GameHubzConfig holds everything needed to talk to the GameHubz backend.
type GameHubzConfig struct {
	BaseURL      string
	APIToken     string
	UserID       string
	TournamentID string
}
type SlackConfig struct {
	Token     string
	ChannelID string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
