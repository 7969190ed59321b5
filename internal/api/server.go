package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/docs"
	v1 "github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/handler/v1"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/config"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/flow"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/policy"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/service"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/session"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	services  *service.Factory
	sessions  *middleware.SessionLoader
	submitter *flow.Submitter
	gate      *flow.Gate
}

// NewServer wires the dashboard API. persisters decides where sessions live.
func NewServer(conf *config.AppConfig, persisters session.PersisterFactory) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	services := service.NewFactory(client.NewHTTPClient(conf.Upstream), conf.Upstream.BaseURL, time.Now)

	s := &Server{
		Config:    conf,
		Router:    engine,
		services:  services,
		sessions:  middleware.NewSessionLoader(persisters, services.Auth()),
		submitter: flow.NewSubmitter(),
		gate:      flow.NewGate(conf.Confirmation.TTL, time.Now),
	}

	s.MountMiddlewares()
	s.MountHandlers()

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.MaxMultipartMemory = s.Config.Upstream.MaxUploadMB << 20
}

func (s *Server) MountHandlers() {
	const basePath = "/api/v1"

	authHandler := v1.NewAuthHandler()
	dashboardHandler := v1.NewDashboardHandler(s.services)
	eventHandler := v1.NewEventHandler(s.services, s.submitter, s.gate)
	milestoneHandler := v1.NewMilestoneHandler(s.services, s.submitter, s.gate)
	progressHandler := v1.NewProgressHandler(s.services, s.submitter, s.gate, s.Config.Upstream.MaxUploadMB)
	assignmentHandler := v1.NewAssignmentHandler(s.services, s.submitter, s.gate)
	userHandler := v1.NewUserHandler(s.services, s.submitter, s.gate)
	confirmationHandler := v1.NewConfirmationHandler(s.services, s.submitter, s.gate)

	public := s.Router.Group(basePath, s.sessions.Load())
	{
		public.POST("/auth/login", authHandler.HandleLogin)
		public.POST("/auth/logout", authHandler.HandleLogout)
	}

	signedIn := public.Group("", middleware.RequireSession())
	{
		signedIn.GET("/me", authHandler.HandleMe)

		signedIn.GET("/dashboard", middleware.RequireView(policy.ViewDashboard), dashboardHandler.HandleOverview)
		signedIn.GET("/monitoring", middleware.RequireView(policy.ViewMonitoring), dashboardHandler.HandleMonitoring)
		signedIn.GET("/my-events", middleware.RequireView(policy.ViewMyEvents), dashboardHandler.HandleMyEvents)

		signedIn.POST("/confirmations/:confirmationID", confirmationHandler.HandleConfirm)
		signedIn.DELETE("/confirmations/:confirmationID", confirmationHandler.HandleCancel)
	}

	events := signedIn.Group("/events")
	{
		events.GET("", middleware.RequireView(policy.ViewEvents), eventHandler.HandleListEvents)
		events.POST("", middleware.RequireMutation(policy.KindEvent, policy.ActionCreate), eventHandler.HandleCreateEvent)
		events.GET("/:eventID", middleware.RequireView(policy.ViewEventDetail), eventHandler.HandleGetEvent)
		events.PUT("/:eventID", middleware.RequireMutation(policy.KindEvent, policy.ActionUpdate), eventHandler.HandleUpdateEvent)
		events.PUT("/:eventID/status", middleware.RequireMutation(policy.KindEvent, policy.ActionUpdate), eventHandler.HandleUpdateEventStatus)
		events.POST("/:eventID/delete", middleware.RequireMutation(policy.KindEvent, policy.ActionDelete), eventHandler.HandleDeleteEvent)

		events.GET("/:eventID/milestones", middleware.RequireView(policy.ViewEventDetail, policy.ViewMyEvents), milestoneHandler.HandleListMilestones)
		events.POST("/:eventID/milestones", middleware.RequireMutation(policy.KindMilestone, policy.ActionCreate), milestoneHandler.HandleCreateMilestone)

		events.GET("/:eventID/petugas", middleware.RequireView(policy.ViewEventDetail), assignmentHandler.HandleListAssignments)
		events.POST("/:eventID/petugas", middleware.RequireMutation(policy.KindAssignment, policy.ActionCreate), assignmentHandler.HandleAssign)
		events.POST("/:eventID/petugas/:petugasID/delete", middleware.RequireMutation(policy.KindAssignment, policy.ActionDelete), assignmentHandler.HandleUnassign)

		events.GET("/:eventID/progress", middleware.RequireView(policy.ViewEventDetail, policy.ViewMyEvents), progressHandler.HandleListProgress)
		events.POST("/:eventID/progress", middleware.RequireMutation(policy.KindProgressReport, policy.ActionCreate), progressHandler.HandleCreateProgress)
	}

	milestones := signedIn.Group("/milestones")
	{
		milestones.GET("/:milestoneID", middleware.RequireView(policy.ViewMilestoneDetail), milestoneHandler.HandleGetMilestone)
		milestones.PUT("/:milestoneID", middleware.RequireMutation(policy.KindMilestone, policy.ActionUpdate), milestoneHandler.HandleUpdateMilestone)
		milestones.POST("/:milestoneID/delete", middleware.RequireMutation(policy.KindMilestone, policy.ActionDelete), milestoneHandler.HandleDeleteMilestone)

		milestones.PUT("/:milestoneID/progress/:reportID", middleware.RequireMutation(policy.KindProgressReport, policy.ActionUpdate), progressHandler.HandleUpdateProgress)
		milestones.POST("/:milestoneID/progress/:reportID/delete", middleware.RequireMutation(policy.KindProgressReport, policy.ActionDelete), progressHandler.HandleDeleteProgress)
	}

	users := signedIn.Group("", middleware.RequireView(policy.ViewUsers))
	{
		users.GET("/users", userHandler.HandleListUsers)
		users.GET("/users/:userID", userHandler.HandleGetUser)
		users.POST("/users", middleware.RequireMutation(policy.KindUser, policy.ActionCreate), userHandler.HandleCreateUser)
		users.PUT("/users/:userID", middleware.RequireMutation(policy.KindUser, policy.ActionUpdate), userHandler.HandleUpdateUser)
		users.POST("/users/:userID/delete", middleware.RequireMutation(policy.KindUser, policy.ActionDelete), userHandler.HandleDeleteUser)
		users.GET("/petugas", middleware.RequireMutation(policy.KindAssignment, policy.ActionCreate), userHandler.HandleListPetugas)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Tender dashboard API"
	docs.SwaggerInfo.Description = "Role-based dashboard over the tender monitoring backend."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
