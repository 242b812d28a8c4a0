package routers

import (
	"github.com/finquest/finquest_backend/controllers"
	"github.com/finquest/finquest_backend/middlewares"
	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App) {

	api := app.Group("/api")
	api.Get("/", controllers.Index)

	//Auth
	auth := api.Group("/auth")
	auth.Post("/users", controllers.CreateUser)
	auth.Post("/login", controllers.LoginUser)
	auth.Get("/users", middlewares.Protected(), controllers.GetUserDetails)

	questions := api.Group("/questions")
	questions.Post("/", middlewares.Protected(), controllers.CreateQuestion)
	questions.Get("/", middlewares.Protected(), controllers.GetQuestions)
	questions.Get("/:id", middlewares.Protected(), controllers.GetQuestionByID)
	questions.Put("/:id", middlewares.Protected(), controllers.EditQuestion)
	questions.Delete("/:id", middlewares.Protected(), controllers.DeleteQuestion)

	quiz := api.Group("/quiz")
	quiz.Post("/submit", middlewares.Protected(), controllers.SubmitQuiz)
	quiz.Get("/history", middlewares.Protected(), controllers.GetQuizHistory)

	challenges := api.Group("/challenges")
	challenges.Post("/", middlewares.Protected(), controllers.CreateChallenge)
	challenges.Put("/:id/accept", middlewares.Protected(), controllers.AcceptChallenge)
	challenges.Put("/:id/score", middlewares.Protected(), controllers.UpdateChallengeScore)
	challenges.Get("/user/:userId", middlewares.Protected(), controllers.GetUserChallenges)

	leaderboard := api.Group("/leaderboard")
	leaderboard.Post("/score", middlewares.Protected(), controllers.SubmitScore)
	leaderboard.Get("/points", middlewares.Protected(), controllers.GetPointsLeaderboard)
	leaderboard.Get("/:gameType", middlewares.Protected(), controllers.GetTopPlayers)
	leaderboard.Get("/:gameType/rank", middlewares.Protected(), controllers.GetUserRank)

	points := api.Group("/points")
	points.Get("/", middlewares.Protected(), controllers.GetUserPoints)
	points.Get("/history", middlewares.Protected(), controllers.GetPointsHistory)

	achievements := api.Group("/achievements")
	achievements.Get("/", middlewares.Protected(), controllers.GetUserAchievements)
	achievements.Put("/:id/progress", middlewares.Protected(), controllers.UpdateAchievementProgress)

	rewards := api.Group("/rewards")
	rewards.Get("/", middlewares.Protected(), controllers.GetRewards)
	rewards.Get("/owned", middlewares.Protected(), controllers.GetUserRewards)
	rewards.Post("/:id/purchase", middlewares.Protected(), controllers.PurchaseReward)
	rewards.Put("/:id/equip", middlewares.Protected(), controllers.ToggleRewardEquip)

	stats := api.Group("/stats")
	stats.Get("/", middlewares.Protected(), controllers.GetUserStats)
	stats.Post("/track", middlewares.Protected(), controllers.TrackStat)
}
