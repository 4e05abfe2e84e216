package api

import (
	"context"
	"io"
	"net/http"

	"github.com/SergeyKozhin/aquacare-backend/internal/business/subscriptions"
	"github.com/SergeyKozhin/aquacare-backend/internal/database"
	"github.com/SergeyKozhin/aquacare-backend/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Api struct {
	handler    http.Handler
	logger     *zap.SugaredLogger
	randSource io.Reader

	jwts          jwtManager
	refreshTokens refreshTokenRepository

	db            database.PGX
	users         userRepository
	fish          fishRepository
	eventsService eventsService
	subscriptions subscriptionManager
}

type jwtManager interface {
	CreateToken(id int64) (string, error)
	GetIdFromToken(token string) (int64, error)
}

type refreshTokenRepository interface {
	Add(ctx context.Context, session string, id int64) error
	Get(ctx context.Context, session string) (int64, error)
	Refresh(ctx context.Context, old, new string) error
	Delete(ctx context.Context, session string) error
}

type userRepository interface {
	CreateUser(ctx context.Context, q database.Queryable, user *model.UserCreate) (int64, error)
	GetUserByEmail(ctx context.Context, q database.Queryable, email string) (*model.User, error)
	GetUserByID(ctx context.Context, q database.Queryable, id int64) (*model.User, error)
}

type fishRepository interface {
	CreateFish(ctx context.Context, q database.Queryable, fish *model.FishCreate) (int64, error)
	GetFishByID(ctx context.Context, q database.Queryable, id, ownerID int64) (*model.Fish, error)
	GetFishByOwner(ctx context.Context, q database.Queryable, ownerID int64) ([]*model.Fish, error)
}

type eventsService interface {
	Create(ctx context.Context, ownerID int64, info *model.EventCreate) (*model.Event, error)
	GetEvent(ctx context.Context, ownerID, id int64) (*model.Event, error)
	GetEvents(ctx context.Context, filter model.EventsFilter) ([]*model.Event, error)
	Update(ctx context.Context, ownerID, id int64, upd *model.EventUpdate) (*model.Event, error)
	Delete(ctx context.Context, ownerID, id int64) error
	Complete(ctx context.Context, ownerID, id int64, notes string) (*model.Event, error)
	Stats(ctx context.Context, ownerID int64) (*model.StatsSnapshot, error)
}

type subscriptionManager interface {
	SubscribeAll(ctx context.Context, ownerID int64) *subscriptions.Subscription
	SubscribeByTarget(ctx context.Context, ownerID, fishID int64) *subscriptions.Subscription
	SubscribeToday(ctx context.Context, ownerID int64) *subscriptions.Subscription
	SubscribeOverdue(ctx context.Context, ownerID int64) *subscriptions.Subscription
	SubscribeFiltered(ctx context.Context, ownerID int64, filter model.EventsFilter) *subscriptions.Subscription
	SubscribeStats(ctx context.Context, ownerID int64) *subscriptions.Subscription
}

func NewApi(
	logger *zap.SugaredLogger,
	randSource io.Reader,
	jwts jwtManager,
	refreshTokens refreshTokenRepository,
	db database.PGX,
	users userRepository,
	fish fishRepository,
	eventsService eventsService,
	subscriptions subscriptionManager,
) (*Api, error) {
	a := &Api{
		logger:        logger,
		randSource:    randSource,
		jwts:          jwts,
		refreshTokens: refreshTokens,
		db:            db,
		users:         users,
		fish:          fish,
		eventsService: eventsService,
		subscriptions: subscriptions,
	}
	a.setupHandler()

	return a, nil
}

func (a *Api) setupHandler() {
	middleware.DefaultLogger = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.logger.Debugw(r.URL.RequestURI(),
				"addr", r.RemoteAddr,
				"protocol", r.Proto,
				"method", r.Method,
			)
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewMux()

	r.Use(middleware.Logger, middleware.Recoverer, middleware.StripSlashes)
	r.NotFound(a.notFoundResponse)
	r.MethodNotAllowed(a.methodNotAllowedResponse)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", a.signUpHandler)
		r.Post("/signin", a.signInHandler)
		r.Post("/refresh", a.refreshTokenHandler)
		r.Post("/logout", a.logoutUserHandler)
		r.With(a.auth).Get("/me", a.getMeHandler)
	})

	r.With(a.auth).Route("/fish", func(r chi.Router) {
		r.Post("/", a.createFishHandler)
		r.Get("/", a.getFishHandler)
		r.Get("/{fishID}", a.getFishByIDHandler)
	})

	r.With(a.auth).Route("/events", func(r chi.Router) {
		r.Post("/", a.createEventHandler)
		r.Get("/", a.getEventsHandler)
		r.Get("/today", a.getTodayEventsHandler)
		r.Get("/overdue", a.getOverdueEventsHandler)
		r.Get("/target/{fishID}", a.getTargetEventsHandler)
		r.Get("/filtered", a.getFilteredEventsHandler)
		r.Get("/stats", a.getStatsHandler)

		r.Route("/watch", func(r chi.Router) {
			r.Get("/", a.watchAllHandler)
			r.Get("/today", a.watchTodayHandler)
			r.Get("/overdue", a.watchOverdueHandler)
			r.Get("/target/{fishID}", a.watchTargetHandler)
			r.Get("/filtered", a.watchFilteredHandler)
			r.Get("/stats", a.watchStatsHandler)
		})

		r.Route("/{eventID}", func(r chi.Router) {
			r.Get("/", a.getEventHandler)
			r.Patch("/", a.updateEventHandler)
			r.Delete("/", a.deleteEventHandler)
			r.Post("/complete", a.completeEventHandler)
		})
	})

	a.handler = r
}

func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
