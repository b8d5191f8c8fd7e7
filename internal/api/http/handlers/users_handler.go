package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/ticket-admin/internal/api/dto"
	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/present"
	"github.com/opsdesk/ticket-admin/internal/query"
	"github.com/opsdesk/ticket-admin/internal/service"
	apperrors "github.com/opsdesk/ticket-admin/pkg/util/errorutil"
)

// UsersHandler exposes the users admin page and session endpoints.
type UsersHandler struct {
	users *service.UserService
	auth  *service.AuthService
	tr    *i18n.Translator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, authService *service.AuthService, tr *i18n.Translator) *UsersHandler {
	return &UsersHandler{users: userService, auth: authService, tr: tr}
}

// Login handles POST /api/auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	session, err := h.auth.Login(c.UserContext(), req.Email, req.Password, c.IP())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user":   h.userResponse(*session.User, requestLocale(c, h.tr)),
			"tokens": dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// Logout handles POST /api/auth/logout.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	h.auth.Logout(c.UserContext())
	return c.SendStatus(http.StatusNoContent)
}

// List GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	res, err := h.users.List(c.UserContext(), service.UserListInput{
		Text:     c.Query("q"),
		Previous: previousPager(c),
		Page:     parseInt(c.Query("page"), 0),
		PageSize: parseInt(c.Query("page_size"), query.DefaultPageSize),
		Selected: parseList(c.Query("selected")),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.listResponse(res, requestLocale(c, h.tr))})
}

// Create POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.Create(c.UserContext(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	locale := requestLocale(c, h.tr)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CreateUserResponse{
		User:     h.userResponse(*user, locale),
		Password: req.Password,
		Message:  h.tr.T(locale, "users.created", i18n.Params{"name": user.Name}),
	}})
}

// GeneratePassword GET /api/users/generate-password.
func (h *UsersHandler) GeneratePassword(c *fiber.Ctx) error {
	password, err := h.users.GeneratePassword()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"password": password}})
}

// ResetPassword POST /api/users/:id/reset-password.
func (h *UsersHandler) ResetPassword(c *fiber.Ctx) error {
	user, password, err := h.users.ResetPassword(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	locale := requestLocale(c, h.tr)
	return c.JSON(fiber.Map{"data": dto.ResetPasswordResponse{
		User:     h.userResponse(*user, locale),
		Password: password,
		Message:  h.tr.T(locale, "users.passwordReset", i18n.Params{"name": user.Name}),
	}})
}

// BulkRole POST /api/users/bulk-role.
func (h *UsersHandler) BulkRole(c *fiber.Ctx) error {
	var req dto.BulkRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	changed, err := h.users.BulkChangeRole(c.UserContext(), req.IDs, req.Role)
	if err != nil {
		return err
	}
	locale := requestLocale(c, h.tr)
	out := make([]dto.UserResponse, 0, len(changed))
	for _, u := range changed {
		out = append(out, h.userResponse(u, locale))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"users": out,
		"message": h.tr.T(locale, "users.roleChanged", i18n.Params{
			"count": len(changed),
			"role":  h.tr.T(locale, "roles."+string(req.Role), nil),
		}),
	}})
}

// BulkDelete POST /api/users/bulk-delete.
func (h *UsersHandler) BulkDelete(c *fiber.Ctx) error {
	var req dto.BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = query.DefaultPageSize
	}
	view := service.UserListInput{Text: req.Query, Page: req.Page, PageSize: pageSize}
	if req.FilterKey != "" {
		view.Previous = query.Pager{
			FilterKey: req.FilterKey,
			State:     query.PageState{CurrentPage: req.Page, ItemsPerPage: pageSize},
		}
	}
	res, err := h.users.BulkDelete(c.UserContext(), req.IDs, view)
	if err != nil {
		return err
	}
	locale := requestLocale(c, h.tr)
	return c.JSON(fiber.Map{"data": fiber.Map{
		"deleted": len(res.Deleted),
		"message": h.tr.T(locale, "users.deleted", i18n.Params{"count": len(res.Deleted)}),
		"list":    h.listResponse(res.List, locale),
	}})
}

func (h *UsersHandler) listResponse(res *service.UserListResult, locale string) fiber.Map {
	items := make([]dto.UserResponse, 0, len(res.Page.Items))
	for _, u := range res.Page.Items {
		items = append(items, h.userResponse(u, locale))
	}
	return fiber.Map{
		"items":       items,
		"currentPage": res.Page.CurrentPage,
		"totalPages":  res.Page.TotalPages,
		"totalItems":  res.Page.TotalItems,
		"pageNumbers": res.PageNumbers,
		"pager":       res.Pager,
		"selected":    res.Selected,
	}
}

func (h *UsersHandler) userResponse(u domain.User, locale string) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		RoleLabel: h.tr.T(locale, "roles."+string(u.Role), nil),
		RoleBadge: present.RoleBadge(u.Role),
		Auth:      u.Auth,
		CreatedAt: present.FormatDateTime(u.CreatedAt, locale),
		UpdatedAt: present.FormatDateTime(u.UpdatedAt, locale),
	}
}
