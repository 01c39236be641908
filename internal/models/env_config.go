package models

import (
	"fmt"
	"os"
	"strconv"
)

type EnvConfig struct {
	DatabaseURL  string
	Port         string
	SessionKey   []byte
	SystemUserID int
	Debug        bool
}

func ReadEnvConfig() EnvConfig {
	debug := os.Getenv("MODBOARD_DEBUG") == "true"
	port := os.Getenv("MODBOARD_PORT")
	if port == "" {
		port = "23495"
	}
	systemUserID, err := strconv.Atoi(os.Getenv("MODBOARD_SYSTEM_USER_ID"))
	if err != nil {
		fmt.Println("Using default value for MODBOARD_SYSTEM_USER_ID")
		systemUserID = 1
	}
	return EnvConfig{
		DatabaseURL:  os.Getenv("MODBOARD_DATABASE_URL"),
		Port:         port,
		SessionKey:   []byte(os.Getenv("MODBOARD_SESSION_KEY")),
		SystemUserID: systemUserID,
		Debug:        debug,
	}
}
