package common

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file when present. Missing files are fine; real
// deployments set variables through the environment.
func LoadEnv() {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}
}
