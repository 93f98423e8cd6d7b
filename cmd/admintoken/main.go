package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/ougirez/popchart/internal/config"
	"github.com/ougirez/popchart/internal/pkg/utils"
)

// admintoken prints a token accepted by the /api/v1/admin routes.
func main() {
	configFile := pflag.StringP("config", "c", "", "path to the config file")
	ttl := pflag.Duration("ttl", time.Hour, "token lifetime, 0 for no expiry")
	pflag.Parse()

	token, err := mint(*configFile, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(token)
}

func mint(configFile string, ttl time.Duration) (string, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return "", err
	}
	if cfg.AdminSecret == "" {
		return "", errors.New("admin.secret is not configured")
	}

	return utils.GenerateAuthToken(&utils.AuthTokenWrapper{Secret: cfg.AdminSecret}, cfg.AdminSecret, ttl)
}
