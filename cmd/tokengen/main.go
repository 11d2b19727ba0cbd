// Command tokengen mints a service token for calling the citeguard API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "citeguard/internal/jwt_token"
	"citeguard/internal/platform/config"
)

func main() {
	subject := flag.String("subject", "", "token subject (required)")
	scope := flag.String("scope", "verify", "token scope")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.JWTSigningKey == "" {
		fmt.Fprintln(os.Stderr, "JWT_SIGNING_KEY is not set")
		os.Exit(1)
	}

	token, err := jwttoken.NewJWTService(cfg.JWTSigningKey, jwttoken.Issuer, jwttoken.Audience).
		GenerateServiceToken(*subject, *scope, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
