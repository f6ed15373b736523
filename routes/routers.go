package routes

import (
	"net/http"

	"bookingtour/constants"
	"bookingtour/controllers"
	middlewares "bookingtour/middleware"
	"bookingtour/response"
	"bookingtour/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services các service đã khởi tạo, dùng để dựng controller
type Services struct {
	Tokens     *services.TokenService
	Auth       services.AuthServiceInterface
	Users      services.UserServiceInterface
	Vouchers   services.VoucherServiceInterface
	Tours      services.TourServiceInterface
	Bookings   services.BookingServiceInterface
	Payments   services.PaymentServiceInterface
	Statistics services.StatisticsServiceInterface
}

func SetupRoutes(router *gin.Engine, svc Services) {
	authController := controllers.NewAuthController(svc.Auth)
	userController := controllers.NewUserController(svc.Users)
	voucherController := controllers.NewVoucherController(svc.Vouchers)
	tourController := controllers.NewTourController(svc.Tours)
	bookingController := controllers.NewBookingController(svc.Bookings)
	paymentController := controllers.NewPaymentController(svc.Payments)
	statisticsController := controllers.NewStatisticsController(svc.Statistics)

	authed := middlewares.AuthMiddleware(svc.Tokens)
	admin := middlewares.AuthMiddleware(svc.Tokens, constants.RoleAdmin)
	staff := middlewares.AuthMiddleware(svc.Tokens, constants.RoleAdmin, constants.RoleStaff)
	staffRole := middlewares.RoleMiddleware(constants.RoleAdmin, constants.RoleStaff)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.NoRoute(response.NotFound)

	v1 := router.Group("/api/v1")

	v1.POST("/auth/login", authController.Login)
	v1.POST("/auth/google", authController.AuthGoogle)

	v1.GET("/profile", authed, userController.GetProfile)
	v1.GET("/users", admin, userController.GetUsers)
	v1.GET("/users/search", admin, userController.SearchUsers)
	v1.GET("/users/:id", admin, userController.GetUserByID)
	v1.POST("/users", admin, userController.CreateUser)
	v1.PUT("/users/:id", admin, userController.UpdateUser)
	v1.DELETE("/users/:id", admin, userController.DeleteUser)
	v1.PUT("/users/:id/activate", admin, userController.ActivateUser)
	v1.PUT("/users/:id/deactivate", admin, userController.DeactivateUser)
	v1.POST("/users/:id/roles", admin, userController.AssignRole)
	v1.DELETE("/users/:id/roles/:roleId", admin, userController.RevokeRole)
	v1.GET("/roles", admin, userController.GetRoles)
	v1.POST("/roles", admin, userController.CreateRole)

	v1.GET("/voucher", voucherController.GetVouchers)
	v1.GET("/voucher/active", voucherController.GetActiveVouchers)
	v1.GET("/voucher/code/:code", voucherController.GetVoucherByCode)
	v1.GET("/voucher/:id", voucherController.GetVoucher)
	v1.POST("/voucher", admin, voucherController.CreateVoucher)
	v1.PUT("/voucher/:id", admin, voucherController.UpdateVoucher)
	v1.DELETE("/voucher/:id", admin, voucherController.DeleteVoucher)
	v1.POST("/voucher/apply", voucherController.ApplyVoucher)
	v1.POST("/voucher/:id/use", authed, voucherController.UseVoucher)

	v1.GET("/tours", tourController.GetTours)
	v1.GET("/tours/search", middlewares.SessionMiddleware(), tourController.SearchTours)
	v1.DELETE("/tours/search", middlewares.SessionMiddleware(), tourController.ResetSearch)
	v1.GET("/tours/:id", tourController.GetTour)
	v1.POST("/tours", admin, tourController.CreateTour)
	v1.PUT("/tours/:id", admin, tourController.UpdateTour)
	v1.DELETE("/tours/:id", admin, tourController.DeleteTour)
	v1.POST("/tours/:id/images", admin, tourController.UploadTourImage)
	v1.GET("/tour-options", tourController.GetTourOptions)
	v1.POST("/tour-options", admin, tourController.CreateTourOption)

	bookings := v1.Group("/bookings", authed)
	bookings.GET("", bookingController.GetBookings)
	bookings.GET("/statistics", staffRole, bookingController.GetBookingStatistics)
	bookings.GET("/:id", bookingController.GetBooking)
	bookings.POST("", bookingController.CreateBooking)
	bookings.PUT("/:id", bookingController.UpdateBooking)
	bookings.DELETE("/:id", staffRole, bookingController.DeleteBooking)
	bookings.PUT("/:id/status", staffRole, bookingController.UpdateBookingStatus)
	bookings.PUT("/:id/payment-status", staffRole, bookingController.UpdatePaymentStatus)
	bookings.GET("/:id/options", bookingController.GetBookingOptions)
	bookings.GET("/:id/payments", bookingController.GetBookingPayments)

	payments := v1.Group("/payments", staff)
	payments.GET("", paymentController.GetPayments)
	payments.GET("/statistics", paymentController.GetPaymentStatistics)
	payments.GET("/by-method", paymentController.GetPaymentsByMethod)
	payments.GET("/recent", paymentController.GetRecentPayments)
	payments.GET("/booking/:bookingId", paymentController.GetPaymentsByBooking)
	payments.GET("/:id", paymentController.GetPayment)
	payments.POST("", paymentController.CreatePayment)
	payments.PUT("/:id", paymentController.UpdatePayment)
	payments.PATCH("/:id/status", paymentController.UpdatePaymentStatus)
	payments.DELETE("/:id", paymentController.DeletePayment)

	statistics := v1.Group("/statistics", staff)
	statistics.GET("/monthly-revenue", statisticsController.MonthlyRevenue)
	statistics.GET("/monthly-bookings-count", statisticsController.MonthlyBookingsCount)
	statistics.GET("/monthly-participants", statisticsController.MonthlyParticipants)
	statistics.GET("/active-tours-count", statisticsController.ActiveToursCount)
	statistics.GET("/top-revenue-tours", statisticsController.TopRevenueTours)
	statistics.GET("/tours-revenue", statisticsController.ToursRevenue)
	statistics.GET("/tours-bookings-count", statisticsController.ToursBookingsCount)
	statistics.GET("/recent-bookings", statisticsController.RecentBookings)
	statistics.GET("/overview", statisticsController.Overview)
}
