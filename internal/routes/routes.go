package routes

import (
	"net/http"

	"smartcare-backend/internal/handlers"
	"smartcare-backend/internal/middleware"
	"smartcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Deps berisi handler yang butuh service, dirakit di main.
type Deps struct {
	Orders   *handlers.OrderHandler
	Chat     *handlers.ChatHandler
	Topups   *handlers.TopupHandler
	Wallet   *handlers.WalletHandler
	Payments *handlers.PaymentHandler

	AdminEmail        string
	AdminPasswordHash string
}

func SetupRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		utils.APIResponse(c, http.StatusOK, true, "Server OK!", nil)
	})

	// Grouping API dengan Versi (v1)
	api := r.Group("/api/v1")
	{
		// 1. PUBLIC
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/admin/login", handlers.AdminLogin(d.AdminEmail, d.AdminPasswordHash))
		}
		api.POST("/payment/notification", d.Payments.HandleMidtransNotification)

		// Websocket: token lewat query, bukan header
		api.GET("/chat/ws", d.Chat.Subscribe)

		// 2. PROTECTED ROUTES (Harus Login / Punya Token)
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// Chat dipakai mitra & admin; akses room dicek per request
			chatGroup := protected.Group("/chat")
			{
				chatGroup.GET("/messages", d.Chat.GetMessages)
				chatGroup.POST("/messages", d.Chat.SendMessage)
				chatGroup.POST("/read", d.Chat.MarkRead)
				chatGroup.GET("/unread", d.Chat.GetUnread)
			}

			// Group Khusus Mitra
			partner := protected.Group("/partner")
			partner.Use(middleware.PartnerOnly())
			{
				partner.POST("/logout", handlers.Logout)
				partner.GET("/profile", handlers.GetPartnerProfile)
				partner.PUT("/profile", handlers.UpdatePartnerProfile)

				// 1. Liat Job
				partner.GET("/orders", d.Orders.GetFeeds)
				partner.GET("/orders/incoming", d.Orders.GetIncomingOrders)
				partner.GET("/orders/my-jobs", d.Orders.GetMyJobs)

				// 2. Ambil -> Mulai -> Selesai
				partner.POST("/orders/:id/accept", d.Orders.AcceptOrder)
				partner.POST("/orders/:id/start", d.Orders.StartOrder)
				partner.POST("/orders/:id/finish", d.Orders.FinishOrder)

				// 3. Invoice
				partner.GET("/orders/:id/invoice", d.Orders.DownloadInvoice)
				partner.GET("/orders/:id/invoice/qr", d.Orders.GetInvoiceQR)
				partner.POST("/orders/:id/invoice/send", d.Orders.SendInvoiceToChat)

				// 4. Saldo
				partner.POST("/topups", d.Topups.CreateTopup)
				partner.GET("/topups", d.Topups.GetMyTopups)
				partner.GET("/earnings", d.Wallet.GetEarnings)
				partner.GET("/earnings/export", d.Wallet.ExportEarnings)
				partner.GET("/wallet/transactions", d.Wallet.GetTransactions)
			}

			// Group Khusus Admin
			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.GET("/stats", handlers.GetDashboardStats)
				admin.GET("/partners/pending", handlers.GetPendingPartners)
				admin.POST("/partners/:id/verify", handlers.VerifyPartner)
				admin.POST("/orders", handlers.CreateOrder)
				admin.GET("/orders", handlers.GetAllOrders)
				admin.GET("/timers", d.Orders.GetRunningTimers)
				admin.GET("/topups", d.Topups.GetTopups)
				admin.POST("/topups/:id/resolve", d.Topups.ResolveTopup)
			}
		}
	}
}
