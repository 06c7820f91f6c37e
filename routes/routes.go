package routes

import (
	"journal-management-api/controllers"
	"journal-management-api/middleware"
	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Journal Management API is running",
				})
			})

			// Published articles are readable without an account
			public.GET("/articles", controllers.GetArticles)
			public.GET("/articles/:id", controllers.GetArticle)

			// Payment provider callbacks authenticate with a shared secret
			public.POST("/payments/webhook", controllers.PaymentWebhook)
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Submissions (authors work on their own, editorial roles see all)
			submissions := protected.Group("/submissions")
			{
				submissions.GET("", controllers.GetSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.POST("", controllers.CreateSubmission)
				submissions.PUT("/:id", controllers.UpdateSubmission)
				submissions.DELETE("/:id", controllers.DeleteSubmission)
				submissions.POST("/:id/submit", controllers.SubmitSubmission)
				submissions.POST("/:id/withdraw", controllers.WithdrawSubmission)
				submissions.GET("/:id/timeline", controllers.GetSubmissionTimeline)

				// Co-authors and reviewer exclusions
				submissions.POST("/:id/coauthors", controllers.AddCoauthor)
				submissions.GET("/:id/coauthors", controllers.GetCoauthors)
				submissions.DELETE("/:id/coauthors/:coauthor_id", controllers.RemoveCoauthor)
				submissions.POST("/:id/excluded-reviewers", controllers.AddExcludedReviewer)

				// Files
				submissions.POST("/:id/files", controllers.UploadSubmissionFile)
				submissions.GET("/:id/files", controllers.GetSubmissionFiles)
				submissions.GET("/:id/files/:file_id", controllers.DownloadSubmissionFile)
				submissions.DELETE("/:id/files/:file_id", controllers.DeleteSubmissionFile)

				// Revisions
				submissions.POST("/:id/revisions", controllers.SubmitRevision)
				submissions.GET("/:id/revisions", controllers.GetRevisions)

				// Payments
				submissions.POST("/:id/payments", controllers.InitiatePayment)
				submissions.GET("/:id/payments", controllers.GetSubmissionPayments)
			}

			// Reviewer workspace
			reviews := protected.Group("/reviews", middleware.RequireRole(models.RoleReviewer, models.RoleEditor, models.RoleAdmin))
			{
				reviews.GET("", controllers.GetMyReviews)
				reviews.POST("/:reviewId/respond", controllers.RespondToReview)
				reviews.POST("/:reviewId/submit", controllers.SubmitReview)
			}

			// Editorial workflow
			editor := protected.Group("/editor", middleware.RequireRole(models.RoleEditor, models.RoleAdmin))
			{
				editor.GET("/submissions", controllers.GetEditorSubmissions)
				editor.GET("/reviewers", controllers.GetReviewers)
				editor.GET("/dashboard", controllers.GetEditorDashboard)

				editor.POST("/submissions/:id/screen", controllers.ScreenSubmission)
				editor.POST("/submissions/:id/assign-reviewer", controllers.AssignReviewer)
				editor.GET("/submissions/:id/reviews", controllers.GetSubmissionReviews)
				editor.POST("/submissions/:id/decision", controllers.MakeDecision)
				editor.POST("/submissions/:id/revision-decision", controllers.RevisionDecision)

				editor.POST("/reviews/:reviewId/remind", controllers.SendReviewReminder)
				editor.PUT("/reviews/:reviewId/deadline", controllers.ExtendReviewDeadline)
				editor.DELETE("/reviews/:reviewId", controllers.RemoveReviewer)

				editor.POST("/payments/:paymentId/confirm", controllers.ConfirmPayment)
			}

			// Administration
			admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
			{
				admin.POST("/submissions/:id/publish", controllers.PublishSubmission)
				admin.POST("/submissions/:id/unpublish", controllers.UnpublishSubmission)

				admin.GET("/issues", controllers.GetIssues)
				admin.POST("/issues", controllers.CreateIssue)
				admin.PUT("/issues/:id", controllers.UpdateIssue)

				admin.GET("/settings", controllers.GetSystemSettings)
				admin.PUT("/settings", controllers.UpdateSystemSettings)

				admin.GET("/email-templates", controllers.GetEmailTemplates)
				admin.PUT("/email-templates/:id", controllers.UpdateEmailTemplate)
			}
		}
	}
}
