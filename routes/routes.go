package routes

import (
	"hotel-booking/constants"
	"hotel-booking/controllers/auth"
	"hotel-booking/controllers/booking"
	"hotel-booking/controllers/invoice"
	"hotel-booking/controllers/payment"
	"hotel-booking/controllers/room"
	"hotel-booking/controllers/waitlist"
	"hotel-booking/logger"
	"hotel-booking/middleware"
	invoiceService "hotel-booking/services/invoice"
	paymentService "hotel-booking/services/payment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)

	// One invoice and one payment service back both the admin routes and
	// the gateway callback.
	invoiceSvc := invoiceService.NewService(db)
	paymentSvc := paymentService.NewService(db)

	authController := auth.NewAuthController(db, asyncLogger)
	roomController := room.NewRoomController(db, asyncLogger)
	bookingController := booking.NewBookingController(db, asyncLogger)
	invoiceController := invoice.NewInvoiceController(db, asyncLogger, invoiceSvc, paymentSvc)
	paymentController := payment.NewPaymentController(db, asyncLogger, paymentSvc, invoiceSvc)
	waitlistController := waitlist.NewWaitlistController(db, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Post("/login", authController.Login)

	// Consumed by the marketing site: availability and booking summary reads.
	api.Get("/availability", roomController.GetAvailability)
	api.Get("/booking/code/:code/summary", bookingController.Summary)

	// External payment gateway success callback.
	api.Post("/payment/gateway-callback", paymentController.GatewayCallback)

	/*=============================================================================
	| Operator Routes
	===============================================================================*/
	api.Post("/register", middleware.RequirePermissions(
		constants.PermAdminFull,
	), authController.Register)

	/*=============================================================================
	| Inventory Routes
	===============================================================================*/
	roomGroup := api.Group("/rooms")

	roomGroup.Get("/types", middleware.RequireAnyPermission(), roomController.ListRoomTypes)

	roomGroup.Post("/types", middleware.RequirePermissions(
		constants.InventoryAdminPermissions...,
	), roomController.CreateRoomType)

	roomGroup.Put("/types/:id", middleware.RequirePermissions(
		constants.InventoryAdminPermissions...,
	), roomController.UpdateRoomType)

	roomGroup.Post("/units", middleware.RequirePermissions(
		constants.InventoryAdminPermissions...,
	), roomController.CreateRoomUnit)

	roomGroup.Put("/units/:id/status", middleware.RequirePermissions(
		constants.InventoryAdminPermissions...,
	), roomController.SetRoomUnitStatus)

	/*=============================================================================
	| Booking Routes
	===============================================================================*/
	bookingGroup := api.Group("/booking")

	bookingGroup.Post("/create", middleware.RequirePermissions(
		constants.BookingDeskPermissions...,
	), bookingController.Store)

	bookingGroup.Get("/", middleware.RequirePermissions(
		constants.BookingDeskPermissions...,
	), bookingController.Index)

	bookingGroup.Get("/:id", middleware.RequirePermissions(
		constants.BookingDeskPermissions...,
	), bookingController.Show)

	bookingGroup.Post("/:id/auto-assign", middleware.RequirePermissions(
		constants.BookingDeskPermissions...,
	), bookingController.AutoAssign)

	bookingGroup.Post("/:id/assign-unit", middleware.RequirePermissions(
		constants.BookingDeskPermissions...,
	), bookingController.ManualAssign)

	bookingGroup.Post("/:id/change-unit", middleware.RequirePermissions(
		constants.BookingDeskPermissions...,
	), bookingController.ChangeUnit)

	bookingGroup.Post("/:id/change-room-type", middleware.RequirePermissions(
		constants.BookingDeskPermissions...,
	), bookingController.ChangeRoomType)

	bookingGroup.Post("/:id/extend-stay", middleware.RequirePermissions(
		constants.BookingDeskPermissions...,
	), bookingController.ExtendStay)

	bookingGroup.Post("/:id/add-ons", middleware.RequirePermissions(
		constants.BookingDeskPermissions...,
	), bookingController.AddAddOn)

	bookingGroup.Post("/:id/cancel", middleware.RequirePermissions(
		constants.BookingDeskPermissions...,
	), bookingController.Cancel)

	/*=============================================================================
	| Invoice Routes
	===============================================================================*/
	invoiceGroup := api.Group("/invoice")

	invoiceGroup.Get("/booking/:bookingID", middleware.RequirePermissions(
		constants.LedgerPermissions...,
	), invoiceController.GetOrCreate)

	invoiceGroup.Post("/booking/:bookingID/sync", middleware.RequirePermissions(
		constants.LedgerPermissions...,
	), invoiceController.Resync)

	invoiceGroup.Get("/:id", middleware.RequirePermissions(
		constants.LedgerPermissions...,
	), invoiceController.Show)

	/*=============================================================================
	| Payment Routes
	===============================================================================*/
	paymentGroup := api.Group("/payment")

	paymentGroup.Post("/invoice/:invoiceID", middleware.RequirePermissions(
		constants.LedgerPermissions...,
	), paymentController.Record)

	paymentGroup.Get("/invoice/:invoiceID", middleware.RequirePermissions(
		constants.LedgerPermissions...,
	), paymentController.Index)

	paymentGroup.Post("/:id/void", middleware.RequirePermissions(
		constants.LedgerPermissions...,
	), paymentController.Void)

	/*=============================================================================
	| Waitlist Routes
	===============================================================================*/
	waitlistGroup := api.Group("/waitlist")

	waitlistGroup.Post("/", middleware.RequirePermissions(
		constants.BookingDeskPermissions...,
	), waitlistController.Add)

	waitlistGroup.Get("/room-type/:roomTypeID", middleware.RequirePermissions(
		constants.BookingDeskPermissions...,
	), waitlistController.Candidates)

	waitlistGroup.Post("/expire-sweep", middleware.RequirePermissions(
		constants.PermAdminFull,
	), waitlistController.ExpireSweep)
}
