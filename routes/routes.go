package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/anishkumar0507/hostelbackend/config"
	"github.com/anishkumar0507/hostelbackend/database"
	"github.com/anishkumar0507/hostelbackend/handlers"
	"github.com/anishkumar0507/hostelbackend/middlewares"
	"github.com/anishkumar0507/hostelbackend/models"
	"github.com/anishkumar0507/hostelbackend/services"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config) {
	// ===== Services =====
	leaveSvc := services.NewLeaveService(database.DB)
	feeSvc := services.NewFeeService(database.DB)
	eeSvc := services.NewEntryExitService(database.DB)

	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg.JWTSecret)
	std := handlers.NewStudentHandler()
	par := handlers.NewParentHandler()
	lv := handlers.NewLeaveHandler(leaveSvc)
	fee := handlers.NewFeeHandler(feeSvc)
	ee := handlers.NewEntryExitHandler(eeSvc)
	cmp := handlers.NewComplaintHandler()
	loc := handlers.NewLocationHandler()
	chat := handlers.NewChatHandler()

	// ===== Public =====
	e.GET("/health", handlers.Health)
	e.POST("/auth/parents/register", auth.ParentRegister)
	e.GET("/auth/check-email", auth.CheckEmail)
	e.POST("/auth/parent/login", auth.ParentLogin)
	e.POST("/auth/student/login", auth.StudentLogin)
	e.POST("/auth/staff/login", auth.StaffLogin)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// ===== Student routes =====
	student := e.Group("/student", authMW, middlewares.RequireRole(models.RoleStudent))

	student.GET("/me", std.Me)

	student.POST("/leaves", lv.Submit)
	student.GET("/leaves", lv.ListMine)
	student.GET("/leaves/:id", lv.Get)
	student.POST("/leaves/:id/cancel", lv.Cancel)

	student.GET("/fees", fee.ListMine)
	student.GET("/fees/due", fee.MyDue)
	student.POST("/fees/settle", fee.SettleMine)

	student.POST("/entry", ee.MarkMyEntry)
	student.POST("/exit", ee.MarkMyExit)
	student.GET("/entry-exit", ee.ListMine)

	student.POST("/complaints", cmp.Create)
	student.GET("/complaints", cmp.ListMine)

	student.POST("/location", loc.Share)

	// ===== Parent routes =====
	parent := e.Group("/parent", authMW, middlewares.RequireRole(models.RoleParent))

	parent.GET("/children", par.Children)

	parent.GET("/leaves", lv.ListForChildren)
	parent.GET("/leaves/:id", lv.Get)
	parent.POST("/leaves/:id/approve", lv.ParentApprove)
	parent.POST("/leaves/:id/reject", lv.ParentReject)

	parent.GET("/children/:id/fees", fee.ListForChild)
	parent.POST("/children/:id/fees/settle", fee.SettleForChild)

	parent.GET("/children/:id/entry-exit", ee.ListForChild)
	parent.GET("/children/:id/location", loc.ForChild)

	parent.POST("/chat", chat.ParentSend)
	parent.GET("/chat", chat.ParentList)

	// ===== Warden routes =====
	warden := e.Group("/warden", authMW, middlewares.RequireRole(models.RoleWarden, models.RoleAdmin))

	warden.GET("/students", std.List)
	warden.GET("/students/:id", std.Get)
	warden.POST("/students", std.Create)
	warden.PUT("/students/:id", std.Update)
	warden.DELETE("/students/:id", std.Delete)
	warden.GET("/students/:id/location", loc.ForStudent)

	warden.GET("/parents", par.List)
	warden.POST("/parents", par.Create)
	warden.PUT("/parents/:id", par.Update)
	warden.DELETE("/parents/:id", par.Delete)
	warden.POST("/parents/:id/link", par.LinkChild)

	warden.GET("/leaves", lv.ListAll)
	warden.GET("/leaves/pending-count", lv.PendingCount)
	warden.GET("/leaves/:id", lv.Get)
	warden.POST("/leaves/:id/approve", lv.WardenApprove)
	warden.POST("/leaves/:id/reject", lv.WardenReject)

	warden.POST("/fees", fee.Create)
	warden.GET("/fees", fee.List)
	warden.DELETE("/fees/:id", fee.Delete)
	warden.POST("/fees/:id/mark-paid", fee.MarkPaid)
	warden.GET("/payments", fee.ListPayments)

	warden.POST("/entry-exit/:ref/entry", ee.MarkEntryFor)
	warden.POST("/entry-exit/:ref/exit", ee.MarkExitFor)
	warden.GET("/entry-exit", ee.List)

	warden.GET("/complaints", cmp.List)
	warden.POST("/complaints/:id/resolve", cmp.Resolve)

	warden.GET("/chat/:parentId", chat.WardenList)
	warden.POST("/chat/:parentId", chat.WardenSend)
}
