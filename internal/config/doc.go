// Package config manages application configuration for the job board API.
//
// Configuration comes from environment variables. Load first applies a .env
// file from the working directory when one exists; variables already present
// in the environment are never overridden by it.
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: driver selection plus DSN or SurrealDB connection
//   - JWTConfig: token signing (RS256 key files or an HS256 secret)
//   - AuthConfig: password hashing cost
//   - CacheConfig: cache capacity, listing expiration, stats reporting
//   - JobsConfig: job posting rules
//   - RateLimitConfig: per-client request limits
//
// # Environment Variables
//
//	SERVER_PORT            - HTTP port (default: 8080)
//	SERVER_ENV             - development, production or test
//	DB_DRIVER              - sqlite (default), mysql or surrealdb
//	DB_DSN                 - connection string for sqlite and mysql
//	DB_HOST, DB_PORT       - SurrealDB endpoint
//	JWT_SECRET             - HS256 secret, at least 32 bytes
//	JWT_PRIVATE_KEY_PATH   - RS256 private key (required in production)
//	JWT_EXPIRATION_MINS    - token lifetime (default: 60)
//	CACHE_LISTING_SLIDING  - sliding expiration for cached jobs (default: 180s)
//	CACHE_LISTING_ABSOLUTE - absolute expiration for cached jobs (default: 30m)
//	CACHE_STATS_INTERVAL   - cache stats log period, 0 disables it
//	JOBS_ENFORCE_OWNERSHIP - only the posting employer may edit a job
//	RATE_LIMIT_ENABLED     - per-client rate limiting
//	LOG_LEVEL              - debug, info, warn or error
package config
