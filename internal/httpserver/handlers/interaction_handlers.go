package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"talktracker/internal/auth"
	"talktracker/internal/models"
	"talktracker/internal/util"
)

type interactionReq struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	Person          string `json:"person"`
	InteractionType string `json:"interaction_type"`
	Context         string `json:"context"`
	Response        string `json:"response"`
	Reflection      string `json:"reflection"`
}

// validate normalizes the payload in place and returns a client-facing
// message when the payload is unusable.
func (req *interactionReq) validate() string {
	req.Person = util.Clip(req.Person, 100)
	req.Context = util.Clip(req.Context, 500)
	req.Response = util.Clip(req.Response, 500)
	req.Reflection = util.Clip(req.Reflection, 500)
	if req.Date == "" || req.Time == "" || req.Person == "" || req.InteractionType == "" {
		return "Date, time, person, and interaction type are required"
	}
	if !models.ValidInteractionType(req.InteractionType) {
		return "Invalid interaction type"
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return "Date must be YYYY-MM-DD"
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return "Time must be HH:MM"
	}
	return ""
}

func CreateInteraction(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req interactionReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		row := models.Interaction{
			UserID:          auth.UserID(r.Context()),
			Date:            req.Date,
			Time:            req.Time,
			Person:          req.Person,
			InteractionType: req.InteractionType,
			Context:         req.Context,
			Response:        req.Response,
			Reflection:      req.Reflection,
			CreatedAt:       time.Now(),
		}
		if err := db.Create(&row).Error; err != nil {
			lg.Errorw("interaction create failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		respondJSON(w, map[string]any{"success": true, "id": row.ID})
	}
}

func ListInteractions(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		if limit <= 0 {
			limit = 50
		}
		offset, _ := strconv.Atoi(q.Get("offset"))
		if offset < 0 {
			offset = 0
		}

		tx := db.Where("user_id = ?", auth.UserID(r.Context()))
		if search := q.Get("search"); search != "" {
			term := "%" + search + "%"
			tx = tx.Where(
				"(person LIKE ? OR context LIKE ? OR response LIKE ? OR reflection LIKE ?)",
				term, term, term, term,
			)
		}
		if t := q.Get("type"); t != "" {
			tx = tx.Where("interaction_type = ?", t)
		}
		if person := q.Get("person"); person != "" {
			tx = tx.Where("person LIKE ?", "%"+person+"%")
		}

		rows := []models.Interaction{}
		err := tx.Order("date desc, time desc").Limit(limit).Offset(offset).Find(&rows).Error
		if err != nil {
			lg.Errorw("interaction list failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		respondJSON(w, rows)
	}
}

func UpdateInteraction(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req interactionReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		res := db.Model(&models.Interaction{}).
			Where("id = ? AND user_id = ?", id, auth.UserID(r.Context())).
			Updates(map[string]any{
				"date":             req.Date,
				"time":             req.Time,
				"person":           req.Person,
				"interaction_type": req.InteractionType,
				"context":          req.Context,
				"response":         req.Response,
				"reflection":       req.Reflection,
			})
		if res.Error != nil {
			lg.Errorw("interaction update failed", "error", res.Error)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if res.RowsAffected == 0 {
			respondError(w, http.StatusNotFound, "Interaction not found")
			return
		}
		respondJSON(w, map[string]any{"success": true})
	}
}

func DeleteInteraction(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		res := db.Where("id = ? AND user_id = ?", id, auth.UserID(r.Context())).
			Delete(&models.Interaction{})
		if res.Error != nil {
			lg.Errorw("interaction delete failed", "error", res.Error)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if res.RowsAffected == 0 {
			respondError(w, http.StatusNotFound, "Interaction not found")
			return
		}
		respondJSON(w, map[string]any{"success": true})
	}
}
