package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/atinyakov/plantcafe/internal/middleware"
	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/atinyakov/plantcafe/internal/service"
	"go.uber.org/zap"
)

const errBadTarget = "Expected exactly one of plant_id or cafe_id"

// LikeHandler serves the JSON like endpoints.
type LikeHandler struct {
	LikeService LikeService
	Log         *zap.Logger
}

type likeTarget struct {
	kind models.LikeKind
	id   int64
}

type likeRequest struct {
	PlantID *int64 `json:"plant_id"`
	CafeID  *int64 `json:"cafe_id"`
}

func (req likeRequest) target() (likeTarget, bool) {
	switch {
	case req.PlantID != nil && req.CafeID == nil && *req.PlantID > 0:
		return likeTarget{kind: models.LikePlant, id: *req.PlantID}, true
	case req.CafeID != nil && req.PlantID == nil && *req.CafeID > 0:
		return likeTarget{kind: models.LikeCafe, id: *req.CafeID}, true
	}
	return likeTarget{}, false
}

// Check handles GET /api/likes?plant_id=N or ?cafe_id=N.
func (h *LikeHandler) Check(w http.ResponseWriter, r *http.Request) {
	u := middleware.FromContext(r.Context()).User
	if u == nil {
		jsonError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	var req likeRequest
	q := r.URL.Query()
	for name, dst := range map[string]**int64{"plant_id": &req.PlantID, "cafe_id": &req.CafeID} {
		if !q.Has(name) {
			continue
		}
		id, err := strconv.ParseInt(q.Get(name), 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, errBadTarget)
			return
		}
		*dst = &id
	}
	t, ok := req.target()
	if !ok {
		jsonError(w, http.StatusBadRequest, errBadTarget)
		return
	}

	likes, err := h.LikeService.Likes(r.Context(), u.ID, t.kind, t.id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"likes": likes})
}

// Like handles POST /api/like.
func (h *LikeHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "liked", h.LikeService.Like)
}

// Unlike handles POST /api/unlike.
func (h *LikeHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "unliked", h.LikeService.Unlike)
}

type likeFunc func(ctx context.Context, userID int64, kind models.LikeKind, id int64) error

func (h *LikeHandler) mutate(w http.ResponseWriter, r *http.Request, verb string, fn likeFunc) {
	u := middleware.FromContext(r.Context()).User
	if u == nil {
		jsonError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	var req likeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	t, ok := req.target()
	if !ok {
		jsonError(w, http.StatusBadRequest, errBadTarget)
		return
	}

	if err := fn(r.Context(), u.ID, t.kind, t.id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{verb: t.id})
}

func (h *LikeHandler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "Not found")
		return
	}
	h.Log.Error("like request failed", zap.Error(err))
	jsonError(w, http.StatusInternalServerError, "Internal server error")
}
