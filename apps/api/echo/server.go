package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/submission"
	"github.com/trezcool/kazi/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Logger         core.Logger

		UserSvc       user.Service
		AssignmentSvc assignment.Service
		SubmissionSvc submission.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(ctx context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	srv := &server{
		opts: opts,
		app:  echo.New(),
	}
	srv.setup()
	return srv
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	s.app.Use(middleware.Recover())

	s.app.Debug = core.Conf.Debug
	s.app.HideBanner = true
	if core.Conf.Debug {
		s.app.Logger.SetLevel(glog.DEBUG)
	} else {
		s.app.Logger.SetLevel(glog.ERROR)
	}
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, func() { _ = s.app.Close() })

	// routes
	s.app.GET("/", home)
	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)
	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerAssignmentAPI(v1, jwt, s.opts)
	registerSubmissionAPI(v1, jwt, s.opts)
}

func (s *server) Start() error {
	s.opts.Logger.Info("api listening on " + s.opts.Address)
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"app": core.Conf.AppName, "build": core.Conf.Build})
}
