// Command admintoken prints a signed bearer token for the configured service
// subject, ready to paste into an Authorization header.
package main

import (
	"fmt"
	"log"

	"github.com/patchwork-crafts/patchwork-backend/config"
	"github.com/patchwork-crafts/patchwork-backend/internal/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	codec := auth.NewTokenCodec(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	token, err := codec.Sign(auth.Credential{ID: cfg.UserService.ServiceID})
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}

	fmt.Println("Bearer " + token)
}
