package app

import (
	"context"
	"errors"
	"time"

	"seminar-api/internal/config"
	"seminar-api/internal/database"
	dbpostgres "seminar-api/internal/database/postgres"
	"seminar-api/internal/infrastructure/cache"
	"seminar-api/internal/pkg/jwt"
	"seminar-api/internal/pkg/logger"
	"seminar-api/internal/repository"
	"seminar-api/internal/usecase"
	ucseminar "seminar-api/internal/usecase/seminar"
	ucsurvey "seminar-api/internal/usecase/survey"
	ucuser "seminar-api/internal/usecase/user"
	"seminar-api/internal/ws"
)

// Container holds the process-wide dependencies, built once at startup.
type Container struct {
	Config config.Config
	Logger *logger.Logger

	DB    database.DB
	Tx    database.Transactor
	Cache *cache.Redis
	Hub   *ws.Hub
	JWT   jwt.Service

	Users    *repository.PostgresUserRepository
	Seminars *repository.PostgresSeminarRepository
	Surveys  *repository.PostgresSurveyRepository

	AuthUC    *usecase.Auth
	UserUC    *ucuser.Service
	SeminarUC *ucseminar.Service
	SurveyUC  *ucsurvey.Service
}

func NewContainer(cfg config.Config, log *logger.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	return newContainer(cfg, log, db, cache.NewRedis(cfg.Redis, log)), nil
}

func newContainer(cfg config.Config, log *logger.Logger, db database.DB, redis *cache.Redis) *Container {
	if log == nil {
		log = logger.Nop()
	}

	c := &Container{
		Config: cfg,
		Logger: log,
		DB:     db,
		Tx:     database.NewTransactor(db),
		Cache:  redis,
		Hub:    ws.NewHub(log),
		JWT: jwt.NewHMACService(
			cfg.JWT.AccessSecret,
			cfg.JWT.RefreshSecret,
			cfg.JWT.AccessExpiresIn,
			cfg.JWT.RefreshExpiresIn,
		),
	}

	c.Users = repository.NewPostgresUserRepository(db)
	c.Seminars = repository.NewPostgresSeminarRepository(db)
	c.Surveys = repository.NewPostgresSurveyRepository(db)

	c.AuthUC = usecase.NewAuthUsecase(c.Tx, c.Users, c.JWT)
	c.SeminarUC = ucseminar.NewService(c.Tx, c.Seminars, c.Users, c.Cache, c.Hub, log)
	c.UserUC = ucuser.NewService(c.Tx, c.Users, c.SeminarUC)
	c.SurveyUC = ucsurvey.NewService(c.Surveys, c.Cache, log)

	return c
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
