package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/submission"
	"github.com/trezcool/kazi/core/user"
)

type assignmentApi struct {
	svc    assignment.Service
	subSvc submission.Service
	usrSvc user.Service
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := assignmentApi{
		svc:    opts.AssignmentSvc,
		subSvc: opts.SubmissionSvc,
		usrSvc: opts.UserSvc,
	}

	ag := g.Group("/assignments", jwt)
	ag.GET("", api.query)
	ag.POST("", api.create, adminMiddleware())

	dg := ag.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())
	dg.GET("/stats", api.stats, adminMiddleware())
	dg.GET("/submissions", api.querySubmissions, adminMiddleware())
}

// query lists assignments for the authenticated user: students see the
// assignments visible to their class, admins see the ones they created.
func (api *assignmentApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var asgs []assignment.Assignment
	if claims.IsAdmin {
		asgs, err = api.svc.QueryByCreator(claims.Subject)
	} else {
		asgs, err = api.svc.VisibleToClass(claims.Class)
	}
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, asgs)
}

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	asg, err := api.svc.Create(usr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	asg, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	orig, err := api.svc.GetByID(id)
	if err != nil {
		return err
	}

	var data assignment.UpdateAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err = data.Validate(orig); err != nil {
		return err
	}

	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	asg, err := api.svc.Update(usr, id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(usr, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// stats returns completion statistics for an assignment over its class.
func (api *assignmentApi) stats(ctx echo.Context) error {
	asg, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	stats, err := api.subSvc.Stats(asg)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *assignmentApi) querySubmissions(ctx echo.Context) error {
	asg, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	subs, err := api.subSvc.ByAssignment(asg.ID)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, newSubmissionResponses(subs))
}
