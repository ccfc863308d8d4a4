package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/forgo/jobboard/internal/config"
	"github.com/forgo/jobboard/internal/model"
	"github.com/forgo/jobboard/pkg/jwt"
)

func main() {
	// Signing settings default to the server's environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	jwtCfg := cfg.JWT.ToJWT()

	userID := flag.Int64("user", 1, "User ID for the token")
	username := flag.String("username", "dev-employer", "Username for the token")
	role := flag.String("role", string(model.UserRoleEmployer), "Role for the token (Employer or Applicant)")
	expMins := flag.Int("exp", 60*24*7, "Token expiration in minutes (default: 7 days)")
	outputJSON := flag.Bool("json", false, "Output as JSON")
	generateKeys := flag.Bool("generate-keys", false, "Write a new RSA key pair to JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH and exit")

	flag.Parse()

	if *generateKeys {
		if jwtCfg.PrivateKeyPath == "" || jwtCfg.PublicKeyPath == "" {
			fmt.Fprintln(os.Stderr, "JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH must both be set")
			os.Exit(1)
		}
		if err := jwt.GenerateKeyPair(jwtCfg.PrivateKeyPath, jwtCfg.PublicKeyPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating keys: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s and %s\n", jwtCfg.PrivateKeyPath, jwtCfg.PublicKeyPath)
		return
	}

	if !model.UserRole(*role).Valid() {
		fmt.Fprintf(os.Stderr, "Unknown role %q\n", *role)
		os.Exit(1)
	}

	jwtCfg.ExpirationMins = *expMins
	jwtService, err := jwt.NewService(jwtCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating JWT service: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nSet JWT_SECRET or JWT_PRIVATE_KEY_PATH, or run with -generate-keys\n")
		os.Exit(1)
	}

	token, err := jwtService.Sign(jwt.Claims{
		UserID:   *userID,
		Username: *username,
		Role:     *role,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output := map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   *expMins * 60,
			"user_id":      *userID,
			"username":     *username,
			"role":         *role,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
		return
	}

	expTime := time.Now().Add(time.Duration(*expMins) * time.Minute)
	fmt.Println("Token Generated")
	fmt.Println("===============")
	fmt.Printf("User ID:  %d\n", *userID)
	fmt.Printf("Username: %s\n", *username)
	fmt.Printf("Role:     %s\n", *role)
	fmt.Printf("Expires:  %s\n", expTime.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:%s/v1/jobs\n", token, cfg.Server.Port)
}
