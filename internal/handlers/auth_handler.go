package handlers

import (
	"errors"
	"net/http"

	"zoovio-backend/internal/dto"
	"zoovio-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth service.AuthService
	log  *zap.Logger
}

func NewAuthHandler(auth service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// Register godoc
// @Summary Регистрация пользователя
// @Description Создаёт нового пользователя с ролью CUSTOMER и выдаёт access-токен
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Данные регистрации"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.BaseError "Неверные данные"
// @Failure 409 {object} dto.BaseError "Пользователь уже существует"
// @Failure 500 {object} dto.BaseError "Внутренняя ошибка"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid registration request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, dto.NewError(dto.CodeConflict, "user with this email already exists"))
			return
		}
		h.log.Error("Registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewError(dto.CodeInternalError, "internal error"))
		return
	}

	c.JSON(http.StatusCreated, authResponse(res))
}

// Login godoc
// @Summary Авторизация пользователя
// @Description Проверяет учётные данные и выдаёт access-токен
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Данные авторизации"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.BaseError "Неверные данные"
// @Failure 401 {object} dto.BaseError "Неверный email или пароль"
// @Failure 500 {object} dto.BaseError "Внутренняя ошибка"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, dto.NewError(dto.CodeUnauthorized, "invalid email or password"))
			return
		}
		h.log.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewError(dto.CodeInternalError, "internal error"))
		return
	}

	c.JSON(http.StatusOK, authResponse(res))
}

func authResponse(res *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		UserID:      res.UserID,
		Email:       res.Email,
		Name:        res.Name,
		Role:        string(res.Role),
		AccessToken: res.Token,
		ExpiresAt:   res.ExpiresAt,
	}
}
