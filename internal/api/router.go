package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/petcare/clinic-api/internal/api/handler"
	"github.com/petcare/clinic-api/internal/api/middleware"
	"github.com/petcare/clinic-api/internal/core/authz"
	"github.com/petcare/clinic-api/internal/core/ports"
)

// Dependencies is everything the HTTP layer needs, assembled by main.
type Dependencies struct {
	Tokens   ports.TokenValidator
	Recorder middleware.DecisionRecorder

	Auth          ports.AuthService
	Pets          ports.PetService
	Vaccines      ports.VaccineService
	Consultations ports.ConsultationService
	Prescriptions ports.PrescriptionService

	Checks []handler.DependencyCheck
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Every protected route goes through the Access Guard for its operation.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(middleware.Metrics())

	guard := middleware.NewGuard(deps.Tokens, deps.Recorder)

	authHandler := handler.NewAuthHandler(deps.Auth)
	petHandler := handler.NewPetHandler(deps.Pets)
	vaccineHandler := handler.NewVaccineHandler(deps.Vaccines)
	consultationHandler := handler.NewConsultationHandler(deps.Consultations)
	prescriptionHandler := handler.NewPrescriptionHandler(deps.Prescriptions)

	// --- Accounts ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)
	e.GET("/auth/me", authHandler.Me, guard.For(authz.OpViewProfile))
	e.POST("/auth/password/reset", authHandler.ResetPassword, guard.For(authz.OpResetPassword))
	e.GET("/role-groups", authHandler.RoleGroups, guard.For(authz.OpListRoleGroups))
	e.POST("/veterinarians", authHandler.RegisterVeterinarian, guard.For(authz.OpRegisterVeterinarian))
	e.GET("/veterinarians", authHandler.ListVeterinarians, guard.For(authz.OpListVeterinarians))

	// --- Pets ---
	e.GET("/pets/mine", petHandler.ListMine, guard.For(authz.OpListOwnPets))
	e.GET("/pets/:id", petHandler.Get, guard.For(authz.OpViewPet))
	e.PUT("/pets/:id", petHandler.Update, guard.For(authz.OpUpdatePet))
	e.GET("/pets/:id/consultations", consultationHandler.ListByPet, guard.For(authz.OpListPetConsultations))
	e.GET("/pets/:id/vaccines", vaccineHandler.ListByPet, guard.For(authz.OpListPetVaccines))
	e.GET("/pets/:id/prescriptions", prescriptionHandler.ListByPet, guard.For(authz.OpListPetPrescriptions))

	// --- Consultations ---
	e.POST("/consultations", consultationHandler.Create, guard.For(authz.OpCreateConsultation))
	e.GET("/consultations", consultationHandler.ListByDay, guard.For(authz.OpListConsultationsByDay))
	e.DELETE("/consultations/:id", consultationHandler.Delete, guard.For(authz.OpDeleteConsultation))

	// --- Vaccines ---
	e.POST("/vaccines", vaccineHandler.Create, guard.For(authz.OpCreateVaccine))
	e.GET("/vaccines/:id", vaccineHandler.Get, guard.For(authz.OpViewVaccine))
	e.PUT("/vaccines/:id", vaccineHandler.Update, guard.For(authz.OpUpdateVaccine))
	e.DELETE("/vaccines/:id", vaccineHandler.Delete, guard.For(authz.OpDeleteVaccine))

	// --- Prescriptions ---
	e.POST("/prescriptions", prescriptionHandler.Create, guard.For(authz.OpCreatePrescription))
	e.GET("/prescriptions/:id", prescriptionHandler.Get, guard.For(authz.OpViewPrescription))
	e.PUT("/prescriptions/:id", prescriptionHandler.Update, guard.For(authz.OpUpdatePrescription))
	e.PATCH("/prescriptions/:id/finalize", prescriptionHandler.Finalize, guard.For(authz.OpFinalizePrescription))
	e.DELETE("/prescriptions/:id", prescriptionHandler.Delete, guard.For(authz.OpDeletePrescription))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)           // liveness: is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness: are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
