package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/anishkumar0507/hostelbackend/config"
	"github.com/anishkumar0507/hostelbackend/database"
	"github.com/anishkumar0507/hostelbackend/routes"
)

func main() {
	cfg := config.Load()

	// fail fast if the database is not up
	database.Connect(cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
