package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/dto"
	"shorturl-go/internal/service"
	"shorturl-go/response"
)

// ShortURLHandler maps the HTTP surface onto the shortening and redirect
// services.
type ShortURLHandler struct {
	shortener *service.ShortenerService
	redirect  *service.RedirectService
}

func NewShortURLHandler(shortener *service.ShortenerService, redirect *service.RedirectService) *ShortURLHandler {
	return &ShortURLHandler{
		shortener: shortener,
		redirect:  redirect,
	}
}

// Create handles POST /shorturls.
func (h *ShortURLHandler) Create(c *gin.Context) {
	var req dto.CreateShortURLRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(bindError(req, err))
		return
	}

	resp, err := h.shortener.CreateShortURL(c.Request.Context(), req)
	if err != nil {
		zap.L().Warn("Short URL creation failed",
			zap.Error(err),
			zap.String("shortcode", req.Shortcode),
		)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response.OK(resp, "Short URL created"))
}

// Stats handles GET /shorturls/:shortcode.
func (h *ShortURLHandler) Stats(c *gin.Context) {
	shortcode := c.Param("shortcode")

	stats, err := h.redirect.GetStats(c.Request.Context(), shortcode)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(stats, "success"))
}

// RedirectFallback handles GET /<shortcode>. Registered as the gin NoRoute
// handler so the wildcard path cannot clash with the /shorturls routes.
func (h *ShortURLHandler) RedirectFallback(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		_ = c.Error(apperrors.NotFoundError())
		return
	}

	shortcode := strings.TrimPrefix(c.Request.URL.Path, "/")
	if shortcode == "" || strings.Contains(shortcode, "/") {
		_ = c.Error(apperrors.NotFoundError())
		return
	}

	source := c.Request.Referer()
	ip := c.ClientIP()

	originalURL, err := h.redirect.Resolve(c.Request.Context(), shortcode, source, ip)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Redirect(http.StatusFound, originalURL)
}

// bindError turns a binding failure into the right AppError: a type mismatch
// on validity (e.g. a JSON float) is an InvalidValidity, validator failures
// surface their field msg tag, anything else is the default 400.
func bindError(req dto.CreateShortURLRequest, err error) *apperrors.AppError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "validity" {
		return apperrors.InvalidValidityError()
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			field, ok := reflect.TypeOf(req).FieldByName(e.Field())
			if !ok {
				continue
			}
			if customMsg := field.Tag.Get("msg"); customMsg != "" {
				return apperrors.InvalidRequestError(customMsg)
			}
		}
	}

	return apperrors.InvalidRequestErrorDefault()
}
