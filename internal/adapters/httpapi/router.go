package httpapi

import (
	"context"

	"travelhub/internal/adapters/httpapi/admin"
	"travelhub/internal/adapters/httpapi/middleware"
	"travelhub/internal/core/plan"
	planapp "travelhub/internal/core/plan/service"
	"travelhub/internal/core/post"
	postapp "travelhub/internal/core/post/service"
	"travelhub/internal/core/reservation"
	reservationapp "travelhub/internal/core/reservation/service"
	planPort "travelhub/internal/ports/plan"
	postPort "travelhub/internal/ports/post"
	userPort "travelhub/internal/ports/user"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserUseCase: اینترفیسِ لازم برای کنترلر/روتر (Inbound Port)
type UserUseCase interface {
	LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error)
	RegisterUser(ctx context.Context, username, password string, staff bool) (*userPort.UserDTO, error)
}

type PlanUseCase interface {
	CreatePlan(ctx context.Context, in planapp.CreatePlanInput) (*planPort.ItineraryDTO, error)
	AddDetail(ctx context.Context, in planapp.AddDetailInput) (*planPort.DetailDTO, error)
	GetItinerary(ctx context.Context, planID uint) (*planPort.ItineraryDTO, error)
	DeletePlan(ctx context.Context, planID uint) error
}

type PostUseCase interface {
	CreatePost(ctx context.Context, in postapp.CreatePostInput) (*postPort.PostDTO, error)
	ViewPost(ctx context.Context, postID uint) (*postPort.PostDTO, error)
	ListPosts(ctx context.Context, q postPort.ListQuery) ([]*postPort.PostDTO, error)
	LikePost(ctx context.Context, postID uint, userID string) error
	UnlikePost(ctx context.Context, postID uint, userID string) error
	AddComment(ctx context.Context, postID uint, userID string, parentID *uint, content string) (*postPort.CommentDTO, error)
	ListThread(ctx context.Context, postID uint, parentID *uint) ([]*postPort.CommentDTO, error)
	DeleteComment(ctx context.Context, commentID uint, userID string) error
}

type ReservationUseCase interface {
	CreateFlightReservation(ctx context.Context, in reservationapp.FlightReservationInput) (*reservation.Reservation, error)
	GetReservation(ctx context.Context, reservationID string) (*reservation.Reservation, error)
	ListReservations(ctx context.Context, userID string) ([]*reservation.Reservation, error)
	CancelReservation(ctx context.Context, reservationID string) error
	DeleteReservation(ctx context.Context, reservationID string) error
	StartPayment(ctx context.Context, userID, orderID string, amount decimal.Decimal) (*reservation.PaymentTransaction, error)
	GetPayment(ctx context.Context, paymentID string) (*reservation.PaymentTransaction, error)
	ConfirmPayment(ctx context.Context, paymentID, reservationID, paymentKey string) error
	FailPayment(ctx context.Context, paymentID, code, message string) error
}

// RegisterAdminModels mounts the reservation and trip models on the site.
func RegisterAdminModels(site *admin.Site) error {
	regs := []func(*admin.Site) error{
		func(s *admin.Site) error { return admin.Register[reservation.Reservation](s, "reservations") },
		func(s *admin.Site) error {
			return admin.Register[reservation.ReservationFlight](s, "reservation-flights")
		},
		func(s *admin.Site) error {
			return admin.Register[reservation.ReservationPassenger](s, "reservation-passengers")
		},
		func(s *admin.Site) error {
			return admin.Register[reservation.PaymentTransaction](s, "payment-transactions")
		},
		func(s *admin.Site) error { return admin.Register[plan.TravelPlan](s, "travel-plans") },
		func(s *admin.Site) error { return admin.Register[plan.PlanDetail](s, "plan-details") },
		func(s *admin.Site) error { return admin.Register[post.TravelPost](s, "travel-posts") },
		func(s *admin.Site) error { return admin.Register[post.PostLike](s, "post-likes") },
		func(s *admin.Site) error { return admin.Register[post.Comment](s, "comments") },
	}
	for _, reg := range regs {
		if err := reg(site); err != nil {
			return err
		}
	}
	return nil
}

// SetupRoutes: فقط روتینگ؛ UseCase و DB از بیرون تزریق می‌شوند
func SetupRoutes(
	db *gorm.DB,
	userUC UserUseCase,
	planUC PlanUseCase,
	postUC PostUseCase,
	reservationUC ReservationUseCase,
	jwtSecret []byte,
	logger *zap.Logger,
) (*gin.Engine, error) {
	r := gin.Default()
	uc := NewUserController(userUC)
	plc := NewPlanController(planUC, logger)
	pc := NewPostController(postUC, logger)
	rc := NewReservationController(reservationUC, logger)

	// مسیرهای ثبت‌نام و ورود بدون JWT Middleware
	r.POST("/register", uc.RegisterUser)
	r.POST("/login", uc.LoginUser)
	r.POST("/admin/login", uc.AdminLogin)

	api := r.Group("/api", middleware.JWTAuthMiddleware(jwtSecret))

	api.POST("/plans", plc.CreatePlan)
	api.GET("/plans/:id", plc.GetItinerary)
	api.POST("/plans/:id/details", plc.AddDetail)
	api.DELETE("/plans/:id", plc.DeletePlan)

	api.GET("/posts", pc.ListPosts)
	api.POST("/posts", pc.CreatePost)
	api.GET("/posts/:id", pc.ViewPost)
	api.POST("/posts/:id/like", pc.LikePost)
	api.DELETE("/posts/:id/like", pc.UnlikePost)
	api.GET("/posts/:id/comments", pc.ListThread)
	api.POST("/posts/:id/comments", pc.AddComment)
	api.DELETE("/comments/:id", pc.DeleteComment)

	api.GET("/reservations", rc.ListReservations)
	api.POST("/reservations/flights", rc.CreateFlightReservation)
	api.GET("/reservations/:id", rc.GetReservation)
	api.POST("/reservations/:id/cancel", rc.CancelReservation)
	api.DELETE("/reservations/:id", rc.DeleteReservation)
	api.POST("/payments", rc.StartPayment)
	api.POST("/payments/:id/confirm", rc.ConfirmPayment)
	api.POST("/payments/:id/fail", rc.FailPayment)

	group := r.Group("/admin", middleware.JWTAuthMiddleware(jwtSecret), middleware.RequireStaff())
	site := admin.NewSite(db, group, logger)
	if err := RegisterAdminModels(site); err != nil {
		return nil, err
	}
	return r, nil
}
