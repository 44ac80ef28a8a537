package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.SetPrefix("lt/longevity-tools-go-api: ")
	log.SetFlags(0)

	// .env is optional — deployed environments inject real env vars.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	h := &Handler{
		db: getDBPool(),
		strapi: &strapiClient{
			baseURL: os.Getenv("STRAPI_URL"),
			token:   os.Getenv("STRAPI_TOKEN"),
		},
		content: newContentCache(cacheTTLFromEnv()),
	}

	// Periodic sweep only runs when a TTL is configured.
	h.content.startSweep()

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	fmt.Printf("Starting gin app on :%s...\n", port)
	router.Run(":" + port)
}

// cacheTTLFromEnv reads CACHE_TTL_MINUTES. Absent or invalid means no TTL —
// the webhook is then the only way cached content gets refreshed.
func cacheTTLFromEnv() time.Duration {
	raw := os.Getenv("CACHE_TTL_MINUTES")
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		log.Printf("ignoring invalid CACHE_TTL_MINUTES %q", raw)
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
