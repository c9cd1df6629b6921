package admin

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAdminRoutes mounts the six admin endpoints on the given
// router. The host is expected to put its own authentication middleware
// in front and to populate the acting admin via WithActor.
func RegisterAdminRoutes[T any](app router.Router[T], opts ...AdminControllerOption) {
	controller := NewAdminController(opts...)

	app.Post(controller.Routes.SetUserPassword, controller.SetUserPassword).
		SetName("my-admin.set-user-password.post")

	app.Post(controller.Routes.BanUser, controller.BanUser).
		SetName("my-admin.ban-user.post")

	app.Post(controller.Routes.UnbanUser, controller.UnbanUser).
		SetName("my-admin.unban-user.post")

	app.Post(controller.Routes.ListUserSessions, controller.ListUserSessions).
		SetName("my-admin.list-user-sessions.post")

	app.Post(controller.Routes.RevokeUserSession, controller.RevokeUserSession).
		SetName("my-admin.revoke-user-session.post")

	app.Post(controller.Routes.RevokeUserSessions, controller.RevokeUserSessions).
		SetName("my-admin.revoke-user-sessions.post")
}

type AdminControllerRoutes struct {
	SetUserPassword    string
	BanUser            string
	UnbanUser          string
	ListUserSessions   string
	RevokeUserSession  string
	RevokeUserSessions string
}

type AdminController struct {
	Debug  bool
	Logger Logger
	Admin  *Admin
	Routes *AdminControllerRoutes
}

type AdminControllerOption func(*AdminController) *AdminController

// WithControllerAdmin sets the admin surface the controller drives.
func WithControllerAdmin(a *Admin) AdminControllerOption {
	return func(c *AdminController) *AdminController {
		c.Admin = a
		return c
	}
}

// WithControllerLogger overrides the controller logger.
func WithControllerLogger(l Logger) AdminControllerOption {
	return func(c *AdminController) *AdminController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

// WithControllerDebug enables payload dumps on each request.
func WithControllerDebug(debug bool) AdminControllerOption {
	return func(c *AdminController) *AdminController {
		c.Debug = debug
		return c
	}
}

func NewAdminController(opts ...AdminControllerOption) *AdminController {
	c := &AdminController{
		Logger: defLogger{},
		Routes: &AdminControllerRoutes{
			SetUserPassword:    "/my-admin/set-user-password",
			BanUser:            "/my-admin/ban-user",
			UnbanUser:          "/my-admin/unban-user",
			ListUserSessions:   "/my-admin/list-user-sessions",
			RevokeUserSession:  "/my-admin/revoke-user-session",
			RevokeUserSessions: "/my-admin/revoke-user-sessions",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Admin == nil {
		panic("Missing Admin in admin controller...")
	}

	return c
}

// SetUserPasswordRequest payload
type SetUserPasswordRequest struct {
	UserID      string `form:"userId" json:"userId"`
	NewPassword string `form:"newPassword" json:"newPassword"`
}

// Validate will run validation rules
func (r SetUserPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.UserID,
			validation.Required,
			is.UUID,
		),
		validation.Field(
			&r.NewPassword,
			validation.Required,
			validation.Length(MinPasswordLength, MaxPasswordLength),
		),
	)
}

// BanUserRequest payload
type BanUserRequest struct {
	UserID       string `form:"userId" json:"userId"`
	BanReason    string `form:"banReason" json:"banReason"`
	BanExpiresIn int    `form:"banExpiresIn" json:"banExpiresIn"`
}

// Validate will run validation rules
func (r BanUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.UserID,
			validation.Required,
			is.UUID,
		),
		validation.Field(
			&r.BanExpiresIn,
			validation.Min(0),
		),
	)
}

// BanOptions translates the wire payload into state machine options.
func (r BanUserRequest) BanOptions() []BanOption {
	opts := []BanOption{}
	if r.BanReason != "" {
		opts = append(opts, WithBanReason(r.BanReason))
	}
	if r.BanExpiresIn > 0 {
		opts = append(opts, WithBanDuration(time.Duration(r.BanExpiresIn)*time.Second))
	}
	return opts
}

// UserIDRequest payload shared by unban/list/revoke-all
type UserIDRequest struct {
	UserID string `form:"userId" json:"userId"`
}

// Validate will run validation rules
func (r UserIDRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.UserID,
			validation.Required,
			is.UUID,
		),
	)
}

// RevokeSessionRequest payload
type RevokeSessionRequest struct {
	SessionToken string `form:"sessionToken" json:"sessionToken"`
}

// Validate will run validation rules
func (r RevokeSessionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.SessionToken,
			validation.Required,
		),
	)
}

func (c *AdminController) SetUserPassword(ctx router.Context) error {
	payload := new(SetUserPasswordRequest)

	if err := c.bind(ctx, payload); err != nil {
		return c.renderValidationError(ctx, err)
	}

	if err := c.Admin.SetUserPassword(ctx.Context(), payload.UserID, payload.NewPassword); err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, router.ViewContext{
		"success": true,
	})
}

func (c *AdminController) BanUser(ctx router.Context) error {
	payload := new(BanUserRequest)

	if err := c.bind(ctx, payload); err != nil {
		return c.renderValidationError(ctx, err)
	}

	account, err := c.Admin.BanUser(ctx.Context(), payload.UserID, payload.BanOptions()...)
	if err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, router.ViewContext{
		"user": account,
	})
}

func (c *AdminController) UnbanUser(ctx router.Context) error {
	payload := new(UserIDRequest)

	if err := c.bind(ctx, payload); err != nil {
		return c.renderValidationError(ctx, err)
	}

	account, err := c.Admin.UnbanUser(ctx.Context(), payload.UserID)
	if err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, router.ViewContext{
		"user": account,
	})
}

func (c *AdminController) ListUserSessions(ctx router.Context) error {
	payload := new(UserIDRequest)

	if err := c.bind(ctx, payload); err != nil {
		return c.renderValidationError(ctx, err)
	}

	records, err := c.Admin.ListUserSessions(ctx.Context(), payload.UserID)
	if err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, router.ViewContext{
		"sessions": records,
	})
}

func (c *AdminController) RevokeUserSession(ctx router.Context) error {
	payload := new(RevokeSessionRequest)

	if err := c.bind(ctx, payload); err != nil {
		return c.renderValidationError(ctx, err)
	}

	if err := c.Admin.RevokeUserSession(ctx.Context(), payload.SessionToken); err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, router.ViewContext{
		"success": true,
	})
}

func (c *AdminController) RevokeUserSessions(ctx router.Context) error {
	payload := new(UserIDRequest)

	if err := c.bind(ctx, payload); err != nil {
		return c.renderValidationError(ctx, err)
	}

	if err := c.Admin.RevokeUserSessions(ctx.Context(), payload.UserID); err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, router.ViewContext{
		"success": true,
	})
}

type validatable interface {
	Validate() error
}

func (c *AdminController) bind(ctx router.Context, payload validatable) error {
	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("admin payload bind: ", "error", err)
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if c.Debug {
		fmt.Println("======= ADMIN REQUEST ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	if err := payload.Validate(); err != nil {
		c.Logger.Error("admin payload validate: ", "error", err)
		return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest)
	}

	return nil
}

func (c *AdminController) renderValidationError(ctx router.Context, err error) error {
	status, body := errorResponse(err)
	return ctx.JSON(status, body)
}

func (c *AdminController) renderError(ctx router.Context, err error) error {
	c.Logger.Error("admin operation error: ", "error", err)
	status, body := errorResponse(err)
	return ctx.JSON(status, body)
}

// errorResponse maps an error to an HTTP status and JSON body. Rich
// errors carry their own code and stable message; anything else is a
// masked internal failure.
func errorResponse(err error) (int, router.ViewContext) {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	body := router.ViewContext{
		"error": richErr.Message,
	}
	if richErr.TextCode != "" {
		body["code"] = richErr.TextCode
	}

	return status, body
}
