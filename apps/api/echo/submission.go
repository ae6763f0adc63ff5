package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kazi/core/submission"
	"github.com/trezcool/kazi/core/user"
)

// statusDisplays maps a lifecycle status to its user-facing label. "submitted"
// reads as pending because the student's word still awaits an admin check.
var statusDisplays = map[submission.Status]string{
	submission.StatusNotSubmitted: "Not Submitted",
	submission.StatusSubmitted:    "Pending Confirmation",
	submission.StatusConfirmed:    "Submitted",
}

type (
	// SubmissionResponse decorates a submission with its display label.
	SubmissionResponse struct {
		ID                 string                        `json:"id"`
		AssignmentID       string                        `json:"assignmentId"`
		StudentID          string                        `json:"studentId"`
		Status             submission.Status             `json:"status"`
		StatusDisplay      string                        `json:"statusDisplay"`
		DriveLinkSubmitted null.String                   `json:"driveLinkSubmitted"`
		Notes              null.String                   `json:"notes"`
		ConfirmationSteps  []submission.ConfirmationStep `json:"confirmationSteps"`
		ConfirmedAt        null.Time                     `json:"confirmedAt"`
		LastUpdatedAt      time.Time                     `json:"lastUpdatedAt"`
	}

	submissionApi struct {
		svc    submission.Service
		usrSvc user.Service
	}
)

func newSubmissionResponse(sub submission.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:                 sub.ID,
		AssignmentID:       sub.AssignmentID,
		StudentID:          sub.StudentID,
		Status:             sub.Status,
		StatusDisplay:      statusDisplays[sub.Status],
		DriveLinkSubmitted: sub.DriveLinkSubmitted,
		Notes:              sub.Notes,
		ConfirmationSteps:  sub.ConfirmationSteps,
		ConfirmedAt:        sub.ConfirmedAt,
		LastUpdatedAt:      sub.LastUpdatedAt,
	}
}

func newSubmissionResponses(subs []submission.Submission) []SubmissionResponse {
	resp := make([]SubmissionResponse, len(subs))
	for i, sub := range subs {
		resp[i] = newSubmissionResponse(sub)
	}
	return resp
}

func registerSubmissionAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := submissionApi{
		svc:    opts.SubmissionSvc,
		usrSvc: opts.UserSvc,
	}

	sg := g.Group("/submissions", jwt, studentMiddleware())
	sg.GET("", api.query)

	// per-assignment lifecycle, student side
	ag := g.Group("/assignments/:id/submission", jwt, studentMiddleware())
	ag.GET("", api.retrieve)
	ag.POST("/declare", api.declare)
	ag.POST("/confirm", api.confirm)
}

// query lists the authenticated student's submissions.
func (api *submissionApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	subs, err := api.svc.ByStudent(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, newSubmissionResponses(subs))
}

// retrieve returns the student's submission for an assignment, materializing
// it on first access.
func (api *submissionApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	sub, err := api.svc.Ensure(usr, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newSubmissionResponse(sub))
}

func (api *submissionApi) declare(ctx echo.Context) error {
	var data submission.DeclareSubmission
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
	sub, err := api.svc.Declare(usr, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newSubmissionResponse(sub))
}

func (api *submissionApi) confirm(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	sub, err := api.svc.Confirm(usr, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newSubmissionResponse(sub))
}
