package routes

import (
	"marketing-crm/config"
	"marketing-crm/constants"
	accountController "marketing-crm/controllers/account"
	authController "marketing-crm/controllers/auth"
	campaignController "marketing-crm/controllers/campaign"
	contactController "marketing-crm/controllers/contact"
	dashboardController "marketing-crm/controllers/dashboard"
	leadController "marketing-crm/controllers/lead"
	"marketing-crm/controllers/server"
	subdealerController "marketing-crm/controllers/subdealer"
	userController "marketing-crm/controllers/user"
	gstClient "marketing-crm/httpServices/gst"
	"marketing-crm/httpServices/sms"
	"marketing-crm/logger"
	"marketing-crm/middleware"
	"marketing-crm/services"
	"marketing-crm/services/auth"
	"marketing-crm/services/dashboard"
	gstService "marketing-crm/services/gst"
	otpService "marketing-crm/services/otp"
	"marketing-crm/services/ratelimit"
	"marketing-crm/services/registration"
	"marketing-crm/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the connections the routes are built on.
type Deps struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client // nil when REDIS_URL is not set
	AsyncLogger *logger.AsyncLogger
}

func SetupRoutes(app *fiber.App, deps Deps) error {
	cfg := deps.Config
	db := deps.DB

	tokens := auth.NewTokenIssuer(cfg.JWTSecret)
	authService := auth.NewService(db, tokens, cfg.BcryptCost)
	perms := services.NewPermissionService()

	var store ratelimit.Store = ratelimit.NewGormStore(db)
	if deps.Redis != nil {
		store = ratelimit.NewRedisStore(deps.Redis)
	}
	limiter := ratelimit.NewLimiter(store)

	var registry gstService.Registry
	if cfg.GSTAPIKey != "" {
		registry = gstClient.NewClient(cfg.GSTAPIBaseURL, cfg.GSTAPIKey)
	} else {
		logger.Warning("GST_API_KEY not set, GST lookups return mock data")
	}

	var sender otpService.Sender
	if cfg.TwilioConfigured() {
		sender = sms.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	} else {
		logger.Warning("Twilio is not configured, OTP codes will not be delivered by SMS")
	}

	encryptor, err := utils.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		return err
	}

	otpSvc := otpService.NewService(db, sender, cfg.IsProduction(), cfg.BcryptCost)
	registrationSvc := registration.NewService(db, limiter, gstService.NewService(registry, cfg.IsProduction()), otpSvc, encryptor)

	healthCtrl := server.NewHealthController(db, deps.Redis)
	authCtrl := authController.NewAuthController(authService, cfg.IsProduction())
	subdealerCtrl := subdealerController.NewSubdealerController(db, registrationSvc, otpSvc)
	userCtrl := userController.NewUserController(db, authService)
	leadCtrl := leadController.NewLeadController(db, perms)
	contactCtrl := contactController.NewContactController(db, perms)
	accountCtrl := accountController.NewAccountController(db, perms)
	campaignCtrl := campaignController.NewCampaignController(db, perms)
	dashboardCtrl := dashboardController.NewDashboardController(dashboard.NewService(db))

	/*=============================================================================
	| Operational Routes
	===============================================================================*/
	app.Get("/health", healthCtrl.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(middleware.Prometheus())
	if deps.AsyncLogger != nil {
		app.Use(middleware.RequestLogger(deps.AsyncLogger))
	}

	// Registration and sign-in paths are served both with and without /api.
	for _, base := range []fiber.Router{app.Group("/api"), app} {
		/*=============================================================================
		| Public Routes
		===============================================================================*/
		subdealer := base.Group("/subdealer")
		subdealer.Post("/fetch-gst", subdealerCtrl.FetchGST)
		subdealer.Post("/generate-otp", subdealerCtrl.GenerateOTP)
		subdealer.Post("/verify-otp", subdealerCtrl.VerifyOTP)

		authGroup := base.Group("/auth")
		authGroup.Post("/login", authCtrl.Login)

		/*=============================================================================
		| Protected Routes
		===============================================================================*/
		authGroup.Get("/me", middleware.RequireAuthentication(tokens), authCtrl.Me)
		authGroup.Post("/logout", middleware.RequireAuthentication(tokens), authCtrl.LogOut)
	}

	api := app.Group("/api")

	/*=============================================================================
	| Dashboard Routes
	===============================================================================*/
	api.Get("/dashboard", middleware.RequirePermissions(tokens, constants.PermDashboardView), dashboardCtrl.Show)

	/*=============================================================================
	| Lead Routes
	===============================================================================*/
	leads := api.Group("/leads")
	leads.Get("/", middleware.RequirePermissions(tokens, constants.PermLeadsView), leadCtrl.Index)
	leads.Get("/:id", middleware.RequirePermissions(tokens, constants.PermLeadsView), leadCtrl.Show)
	leads.Post("/", middleware.RequirePermissions(tokens, constants.PermLeadsManage), leadCtrl.Store)
	leads.Put("/:id", middleware.RequirePermissions(tokens, constants.PermLeadsManage), leadCtrl.Update)
	leads.Delete("/:id", middleware.RequirePermissions(tokens, constants.PermLeadsManage), leadCtrl.Destroy)
	leads.Post("/:id/qualify", middleware.RequirePermissions(tokens, constants.PermLeadsManage), leadCtrl.Qualify)
	leads.Post("/:id/convert", middleware.RequirePermissions(
		tokens,
		constants.PermLeadsManage,
		constants.PermAccountsView,
		constants.PermContactsManage,
	), leadCtrl.Convert)

	/*=============================================================================
	| Contact Routes
	===============================================================================*/
	contacts := api.Group("/contacts")
	contacts.Get("/", middleware.RequirePermissions(tokens, constants.PermContactsView), contactCtrl.Index)
	contacts.Get("/:id", middleware.RequirePermissions(tokens, constants.PermContactsView), contactCtrl.Show)
	contacts.Post("/", middleware.RequirePermissions(tokens, constants.PermContactsManage), contactCtrl.Store)
	contacts.Put("/:id", middleware.RequirePermissions(tokens, constants.PermContactsManage), contactCtrl.Update)
	contacts.Delete("/:id", middleware.RequirePermissions(tokens, constants.PermContactsManage), contactCtrl.Destroy)

	/*=============================================================================
	| Account Routes
	===============================================================================*/
	accounts := api.Group("/accounts")
	accounts.Get("/", middleware.RequirePermissions(tokens, constants.PermAccountsView), accountCtrl.Index)
	accounts.Get("/:id", middleware.RequirePermissions(tokens, constants.PermAccountsView), accountCtrl.Show)
	accounts.Post("/", middleware.RequirePermissions(tokens, constants.PermAccountsManage), accountCtrl.Store)
	accounts.Put("/:id", middleware.RequirePermissions(tokens, constants.PermAccountsManage), accountCtrl.Update)
	accounts.Delete("/:id", middleware.RequirePermissions(tokens, constants.PermAccountsManage), accountCtrl.Destroy)

	/*=============================================================================
	| Campaign Routes
	===============================================================================*/
	campaigns := api.Group("/campaigns")
	campaigns.Get("/", middleware.RequirePermissions(tokens, constants.PermCampaignsView), campaignCtrl.Index)
	campaigns.Get("/:id", middleware.RequirePermissions(tokens, constants.PermCampaignsView), campaignCtrl.Show)
	campaigns.Post("/", middleware.RequirePermissions(tokens, constants.PermCampaignsManage), campaignCtrl.Store)
	campaigns.Put("/:id", middleware.RequirePermissions(tokens, constants.PermCampaignsManage), campaignCtrl.Update)
	campaigns.Delete("/:id", middleware.RequirePermissions(tokens, constants.PermCampaignsManage), campaignCtrl.Destroy)

	/*=============================================================================
	| Subdealer Admin Routes
	===============================================================================*/
	subdealers := api.Group("/subdealers", middleware.RequirePermissions(tokens, constants.PermSubdealersView))
	subdealers.Get("/", subdealerCtrl.Index)
	subdealers.Get("/:id", subdealerCtrl.Show)
	api.Get("/subdealer/otp-status/:phone", middleware.RequirePermissions(tokens, constants.PermSubdealersView), subdealerCtrl.OTPStatus)

	/*=============================================================================
	| User Management Routes
	===============================================================================*/
	users := api.Group("/users", middleware.RequirePermissions(tokens, constants.PermUsersManage))
	users.Get("/", userCtrl.Index)
	users.Post("/", userCtrl.Store)
	users.Put("/:id", userCtrl.Update)

	return nil
}
