// Command token mints a bearer token for a user ID so the protected API
// can be exercised locally without the identity provider.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/nicolebling/CupCircle-sub000/internal/config"
	"github.com/nicolebling/CupCircle-sub000/pkg/utils"
)

func main() {
	userID := flag.String("user", "", "user id to mint a token for")
	flag.Parse()
	if *userID == "" {
		log.Fatal("usage: token -user <user-id>")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	token, err := utils.GenerateToken(*userID, cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	fmt.Println(token)
}
