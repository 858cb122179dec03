// Package main SteelIntel API Server
//
//	@title			SteelIntel API
//	@version		1.0
//	@description	AI-powered knowledge retrieval for steel material specifications and oil & gas compliance
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	http://www.swagger.io/support
//	@contact.email	support@swagger.io
//
//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/
package main

import (
	"log"

	_ "steelintel/docs" // This imports the docs package to initialize swagger
	"steelintel/internal/config"
	"steelintel/internal/server"
)

func main() {
	cfg := config.Load()

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}

	log.Printf("Starting SteelIntel server on %s (%s mode)...", cfg.ListenAddr, cfg.Mode)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
