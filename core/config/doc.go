// Package config provides configuration management for esg-matching.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file (loaded with godotenv). Defaults come from the `default`
// struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, shutdown timeout)
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: S3/MinIO credentials and the run report bucket
//   - Log: Logging level and format
//   - Matching: settings document location and the default policy
//
// Environment variables map to nested keys by replacing dots with underscores,
// e.g. DATABASE_DRIVER -> database.driver, MATCHING_SETTINGS -> matching.settings.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Matching.Settings)
package config
