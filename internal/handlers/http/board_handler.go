package http

import (
	"errors"
	"net/http"

	"inknet/internal/core/domain"
	"inknet/internal/core/ports"
	"inknet/internal/core/services"
	"inknet/internal/infrastructure/middleware"
	apperrors "inknet/pkg/errors"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	boardService ports.BoardService
	authService  services.AuthService
}

func NewBoardHandler(boardService ports.BoardService, authService services.AuthService) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		authService:  authService,
	}
}

func (h *BoardHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/boards")
	api.Use(middleware.AuthMiddleware(h.authService))
	{
		api.POST("", h.Create)
		api.GET("", h.List)
		api.GET("/:id", h.Get)
		api.DELETE("/:id", h.Delete)
		api.POST("/:id/share", h.Share)
		api.DELETE("/:id/share/:user_id", h.Unshare)
		api.PUT("/:id/visibility", h.SetVisibility)
	}
}

type CreateBoardRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=100"`
	Public bool   `json:"public"`
}

type ShareBoardRequest struct {
	UserID string `json:"user_id" binding:"required,max=64"`
	Level  string `json:"level" binding:"required"`
}

type VisibilityRequest struct {
	Public *bool `json:"public" binding:"required"`
}

func (h *BoardHandler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.Error(apperrors.NewUnauthorized("authentication required"))
		return
	}

	var req CreateBoardRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInput("invalid request format"))
		return
	}

	board, err := h.boardService.CreateBoard(c.Request.Context(), req.Name, identity.ID, req.Public)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, board)
}

func (h *BoardHandler) List(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.Error(apperrors.NewUnauthorized("authentication required"))
		return
	}

	boards, err := h.boardService.ListBoards(c.Request.Context(), identity.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if boards == nil {
		boards = []*domain.Board{}
	}

	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

func (h *BoardHandler) Get(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.Error(apperrors.NewUnauthorized("authentication required"))
		return
	}

	board, err := h.boardService.GetBoard(c.Request.Context(), domain.BoardID(c.Param("id")))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	// Same precedence as the hub's join path: the caller must at least be
	// able to view the board.
	if _, err := services.ResolveAccess(board, identity.ID); err != nil {
		c.Error(apperrors.NewForbidden("you do not have access to this board"))
		return
	}

	c.JSON(http.StatusOK, board)
}

func (h *BoardHandler) Delete(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.Error(apperrors.NewUnauthorized("authentication required"))
		return
	}

	err := h.boardService.DeleteBoard(c.Request.Context(), domain.BoardID(c.Param("id")), identity.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BoardHandler) Share(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.Error(apperrors.NewUnauthorized("authentication required"))
		return
	}

	var req ShareBoardRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInput("invalid request format"))
		return
	}

	collaborator := domain.Collaborator{
		UserID: domain.UserID(req.UserID),
		Level:  domain.AccessLevel(req.Level),
	}
	if !collaborator.Level.Valid() {
		c.Error(apperrors.NewInvalidInput("level must be view, edit or admin"))
		return
	}

	err := h.boardService.ShareBoard(c.Request.Context(), domain.BoardID(c.Param("id")), identity.ID, collaborator)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BoardHandler) Unshare(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.Error(apperrors.NewUnauthorized("authentication required"))
		return
	}

	err := h.boardService.UnshareBoard(c.Request.Context(),
		domain.BoardID(c.Param("id")),
		identity.ID,
		domain.UserID(c.Param("user_id")),
	)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BoardHandler) SetVisibility(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.Error(apperrors.NewUnauthorized("authentication required"))
		return
	}

	var req VisibilityRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInput("invalid request format"))
		return
	}

	err := h.boardService.SetVisibility(c.Request.Context(), domain.BoardID(c.Param("id")), identity.ID, *req.Public)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BoardHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrBoardNotFound):
		c.Error(apperrors.NewNotFound("board"))
	case errors.Is(err, domain.ErrUserNotFound):
		c.Error(apperrors.NewNotFound("collaborator"))
	case errors.Is(err, domain.ErrPermissionDenied), errors.Is(err, domain.ErrAccessDenied):
		c.Error(apperrors.NewForbidden("insufficient permissions"))
	case errors.Is(err, domain.ErrBoardExists):
		c.Error(apperrors.NewConflict("board already exists"))
	default:
		c.Error(apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, err.Error(), http.StatusBadRequest))
	}
}
