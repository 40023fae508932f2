package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/gigboard/marketplace-core/internal/api/handler"
	"github.com/gigboard/marketplace-core/internal/api/middleware"
	"github.com/gigboard/marketplace-core/internal/core/domain"
	"github.com/gigboard/marketplace-core/internal/core/ports"
)

// Services bundles the core services the HTTP layer talks to.
type Services struct {
	Auth       ports.AuthService
	Onboarding ports.OnboardingService
	Ledger     ports.LedgerService
	Directory  ports.DirectoryService
	Settlement ports.SettlementService
}

// NewRouter builds and returns the Echo instance with all API routes registered.
// Ops routes (health, metrics, docs) are added by the infrastructure router.
func NewRouter(svc Services, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	authHandler := handler.NewAuthHandler(svc.Auth)
	onboardingHandler := handler.NewOnboardingHandler(svc.Onboarding)
	ledgerHandler := handler.NewLedgerHandler(svc.Ledger)
	directoryHandler := handler.NewDirectoryHandler(svc.Directory)
	settlementHandler := handler.NewSettlementHandler(svc.Settlement)
	auth := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	v1 := e.Group("/v1")

	// --- Public directory ---
	v1.GET("/directory/freelancers/:id", directoryHandler.Freelancer)
	v1.GET("/directory/clients/:id", directoryHandler.Client)

	// --- Authenticated user ---
	user := v1.Group("", auth)
	user.POST("/onboarding", onboardingHandler.Complete)
	user.GET("/me", onboardingHandler.Me)
	user.GET("/me/ledger", ledgerHandler.Mine)
	user.POST("/jobs", settlementHandler.PostJob)
	user.POST("/jobs/:id/proposals", settlementHandler.SubmitProposal)
	user.POST("/proposals/:id/hire", settlementHandler.AcceptHire)

	// --- Admin ---
	admin := v1.Group("/admin", auth, middleware.RBAC(domain.AccountRoleAdmin))
	admin.POST("/users/:id/ledger/credit", ledgerHandler.Credit)
	admin.POST("/users/:id/ledger/debit", ledgerHandler.Debit)
	admin.POST("/users/:id/directory/reconcile", directoryHandler.Reconcile)

	return e
}
