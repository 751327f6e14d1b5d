package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/cleared-dev/backoffice/internal/model"
	"github.com/cleared-dev/backoffice/internal/permissions"
)

var (
	errInvalidInput = errors.New("invalid input")
	errNotFound     = errors.New("not found")
)

type handler struct {
	store  PermissionStore
	logger *zap.Logger
}

type permissionsResponse struct {
	UserID      int64                    `json:"user_id"`
	Permissions []model.ModulePermission `json:"permissions"`
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, errInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, errNotFound):
		status, msg = http.StatusNotFound, err.Error()
	default:
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	respondMessage(w, r, status, msg)
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"service": "backoffice"})
}

func (h *handler) listModules(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalog(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, catalog.All())
}

func (h *handler) getPermissions(w http.ResponseWriter, r *http.Request) {
	userID, set, err := h.loadSet(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, permissionsResponse{UserID: userID, Permissions: set.List()})
}

// replacePermissions re-seeds the user's set from the request body.
func (h *handler) replacePermissions(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var body []model.ModulePermission
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		h.respondError(w, r, fmt.Errorf("%w: decoding permissions: %v", errInvalidInput, err))
		return
	}
	catalog, err := h.catalog(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	for _, p := range body {
		if !catalog.Grantable(p.ModuleID) {
			h.respondError(w, r, fmt.Errorf("%w: module %q cannot be granted", errInvalidInput, p.ModuleID))
			return
		}
	}
	h.save(w, r, "replace", userID, permissions.NewSet(body))
}

func (h *handler) setModule(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled *bool `json:"enabled"`
	}
	if err := render.DecodeJSON(r.Body, &body); err != nil || body.Enabled == nil {
		h.respondError(w, r, fmt.Errorf("%w: body must be {\"enabled\": bool}", errInvalidInput))
		return
	}
	userID, err := h.userID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	moduleID := chi.URLParam(r, "moduleID")
	if *body.Enabled {
		catalog, err := h.catalog(r)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		m, ok := catalog.Get(moduleID)
		if !ok {
			h.respondError(w, r, fmt.Errorf("%w: module %q", errNotFound, moduleID))
			return
		}
		if !m.Available {
			h.respondError(w, r, fmt.Errorf("%w: module %q is not available", errNotFound, moduleID))
			return
		}
	}
	enabled := *body.Enabled
	h.update(w, r, "set_module", userID, func(s permissions.Set) permissions.Set {
		return s.SetModule(moduleID, enabled)
	})
}

func (h *handler) setFlag(w http.ResponseWriter, r *http.Request) {
	flag, ok := permissions.ParseFlag(chi.URLParam(r, "flag"))
	if !ok || flag == permissions.FlagView {
		h.respondError(w, r, fmt.Errorf("%w: flag %q cannot be set", errInvalidInput, chi.URLParam(r, "flag")))
		return
	}
	var body struct {
		Value *bool `json:"value"`
	}
	if err := render.DecodeJSON(r.Body, &body); err != nil || body.Value == nil {
		h.respondError(w, r, fmt.Errorf("%w: body must be {\"value\": bool}", errInvalidInput))
		return
	}
	userID, err := h.userID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	moduleID, value := chi.URLParam(r, "moduleID"), *body.Value
	h.update(w, r, "set_flag", userID, func(s permissions.Set) permissions.Set {
		return s.SetFlag(moduleID, flag, value)
	})
}

func (h *handler) save(w http.ResponseWriter, r *http.Request, op string, userID int64, set permissions.Set) {
	perms := set.List()
	if err := h.store.SaveUserPermissions(r.Context(), userID, perms); err != nil {
		permissionWrites.WithLabelValues(op, "error").Inc()
		h.respondError(w, r, err)
		return
	}
	permissionWrites.WithLabelValues(op, "ok").Inc()
	respondJSON(w, r, http.StatusOK, permissionsResponse{UserID: userID, Permissions: perms})
}

// update applies change to the stored set atomically, so concurrent edits
// for the same user do not overwrite each other.
func (h *handler) update(w http.ResponseWriter, r *http.Request, op string, userID int64, change func(permissions.Set) permissions.Set) {
	perms, err := h.store.UpdateUserPermissions(r.Context(), userID, func(current []model.ModulePermission) []model.ModulePermission {
		return change(permissions.NewSet(current)).List()
	})
	if err != nil {
		permissionWrites.WithLabelValues(op, "error").Inc()
		h.respondError(w, r, err)
		return
	}
	permissionWrites.WithLabelValues(op, "ok").Inc()
	respondJSON(w, r, http.StatusOK, permissionsResponse{UserID: userID, Permissions: perms})
}

func (h *handler) userID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: user id %q", errInvalidInput, raw)
	}
	exists, err := h.store.UserExists(r.Context(), id)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("%w: user %d", errNotFound, id)
	}
	return id, nil
}

func (h *handler) loadSet(r *http.Request) (int64, permissions.Set, error) {
	userID, err := h.userID(r)
	if err != nil {
		return 0, permissions.Set{}, err
	}
	perms, err := h.store.UserPermissions(r.Context(), userID)
	if err != nil {
		return 0, permissions.Set{}, err
	}
	return userID, permissions.NewSet(perms), nil
}

func (h *handler) catalog(r *http.Request) (*permissions.Catalog, error) {
	modules, err := h.store.Modules(r.Context())
	if err != nil {
		return nil, err
	}
	return permissions.NewCatalog(modules), nil
}
