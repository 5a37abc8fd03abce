package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskstream/backend/api/transport"
	"github.com/taskstream/backend/domain"
	"github.com/taskstream/backend/internal/infrastructure/prefs"
	"github.com/taskstream/backend/pkg/httpcontext"
)

type PreferenceHandler struct {
	baseHandler
	store           *prefs.Store
	darkModeDefault bool
}

func NewPreferenceHandler(store *prefs.Store, darkModeDefault bool, adapter *httpcontext.Adapter, logger *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		baseHandler:     newBaseHandler(adapter, logger),
		store:           store,
		darkModeDefault: darkModeDefault,
	}
}

// @Summary Read the theme flag
// @Tags preferences
// @Router /api/v1/preferences/theme [get]
func (h *PreferenceHandler) GetTheme(ctx *fasthttp.RequestCtx) {
	enabled, found, err := h.store.DarkMode()
	if err != nil {
		h.respondError(ctx, domain.WrapError(domain.ErrCodeInternal, "preference read failed", err))
		return
	}

	resp := transport.ThemeResponse{DarkMode: enabled, Source: "stored"}
	if !found {
		resp.DarkMode = h.darkModeDefault
		resp.Source = "default"
	}
	h.respondSuccess(ctx, http.StatusOK, resp)
}

// @Summary Persist the theme flag
// @Tags preferences
// @Router /api/v1/preferences/theme [put]
func (h *PreferenceHandler) SetTheme(ctx *fasthttp.RequestCtx) {
	var req transport.ThemeRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	if err := h.store.SetDarkMode(req.DarkMode); err != nil {
		h.respondError(ctx, domain.WrapError(domain.ErrCodeInternal, "preference write failed", err))
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.ThemeResponse{DarkMode: req.DarkMode, Source: "stored"})
}
