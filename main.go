package main

import (
	"fmt"
	"log"
	"os"

	"github.com/finquest/finquest_backend/middlewares"
	"github.com/finquest/finquest_backend/models"
	"github.com/finquest/finquest_backend/routers"
	"github.com/finquest/finquest_backend/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	err := util.DBConnectAndPopulateDBVar()
	if err != nil {
		fmt.Println(err.Error())
		log.Fatal("couldn't connect to the database")
	} else {
		fmt.Println("Connected to the database")
	}
	if err = util.CreateTableIfNotExists(); err != nil {
		log.Fatal("Couldn't create tables", err.Error())
	}
	fmt.Println("Tables Created")

	if err = models.NewAchievementStore(util.DB).InitDefaultAchievements(); err != nil {
		log.Fatal("Couldn't seed achievements", err.Error())
	}
	if err = models.NewRewardStore(util.DB).InitDefaultRewards(); err != nil {
		log.Fatal("Couldn't seed rewards", err.Error())
	}

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowCredentials: true,
	}))

	routers.SetupRoutes(app)
	app.Use(middlewares.NotFound)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Fatal(app.Listen(":" + port))
}
