package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	errorvalues "github.com/limbo/readtogether/internal/error_values"
	"github.com/limbo/readtogether/internal/service"
	"github.com/limbo/readtogether/pkg/datekey"
	"github.com/limbo/readtogether/pkg/entity"
	"github.com/limbo/readtogether/pkg/httputil"
)

type ToggleDayRequest struct {
	Completed *bool `json:"completed"`
}

type GetEntriesResponse struct {
	UserID  string                    `json:"uid"`
	GroupID string                    `json:"group_id"`
	From    string                    `json:"from"`
	To      string                    `json:"to"`
	Entries []entity.CompletionRecord `json:"entries"`
}

// writeServiceError maps service errors onto HTTP statuses and logs them
// under op.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	var validationErr *errorvalues.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logger.Info(op+" error: invalid input", zap.Error(err))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid "+validationErr.Field, err)
	case errors.Is(err, errorvalues.ErrNotGroupMember):
		logger.Info(op + " error: not a group member")
		httputil.WriteErrorResponse(w, http.StatusForbidden, "not a member of this group", nil)
	case errors.Is(err, errorvalues.ErrGroupNotFound):
		logger.Info(op + " error: unexist group")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "group doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrCompletionNotFound):
		logger.Info(op + " error: unexist record")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "completion record doesn't exist", nil)
	case errorvalues.IsFetchError(err):
		logger.Error(op+" error: store unavailable", zap.Error(err))
		httputil.WriteErrorResponse(w, http.StatusBadGateway, "completion store unavailable, retry later", nil)
	default:
		logger.Error(op+" error: service error", zap.Error(err))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during "+op, nil)
	}
}

// authorizeGroupRead lets only members see a group's calendar. It writes the
// error response itself and reports whether the handler may continue.
func (s *Server) authorizeGroupRead(ctx context.Context, w http.ResponseWriter, logger *zap.Logger, op, groupID string, r *http.Request) bool {
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error(op + " error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return false
	}
	if err = s.calendarService.EnsureMember(ctx, uid, groupID); err != nil {
		writeServiceError(w, logger, op, err)
		return false
	}
	return true
}

func (s *Server) GetWeek(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	groupID := chi.URLParam(r, "groupID")
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	if !s.authorizeGroupRead(ctx, w, logger, "weekly view", groupID, r) {
		return
	}
	view, err := s.calendarService.GetWeeklyView(ctx, groupID, r.URL.Query().Get("start"))
	if err != nil {
		writeServiceError(w, logger, "weekly view", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, view)
	logger.Debug("weekly view provided")
}

func (s *Server) GetMonth(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	groupID := chi.URLParam(r, "groupID")
	year, month, err := datekey.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeServiceError(w, logger, "monthly view", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	if !s.authorizeGroupRead(ctx, w, logger, "monthly view", groupID, r) {
		return
	}
	view, err := s.calendarService.GetMonthlyView(ctx, groupID, year, month)
	if err != nil {
		writeServiceError(w, logger, "monthly view", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, view)
	logger.Debug("monthly view provided")
}

func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get stats error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	stats, err := s.calendarService.GetUserStats(ctx, uid, chi.URLParam(r, "groupID"))
	if err != nil {
		writeServiceError(w, logger, "user stats", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, stats)
	logger.Debug("stats provided")
}

func (s *Server) GetEntries(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get entries error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	groupID := chi.URLParam(r, "groupID")
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	entries, err := s.calendarService.GetUserEntries(ctx, uid, groupID, from, to)
	if err != nil {
		writeServiceError(w, logger, "user entries", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetEntriesResponse{
		UserID:  uid,
		GroupID: groupID,
		From:    from,
		To:      to,
		Entries: entries,
	})
	logger.Debug("entries provided")
}

func (s *Server) ToggleDay(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("toggle day error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req ToggleDayRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Completed == nil {
		logger.Error("toggle day error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	record, err := s.calendarService.ToggleDay(ctx, service.ToggleDayRequest{
		UserID:    uid,
		GroupID:   chi.URLParam(r, "groupID"),
		Date:      chi.URLParam(r, "date"),
		Completed: *req.Completed,
	})
	if err != nil {
		writeServiceError(w, logger, "toggle day", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, record)
	logger.Info("day toggled", zap.String("date", record.Date), zap.Bool("completed", record.Completed))
}

func (s *Server) PurgeGroup(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	groupID := chi.URLParam(r, "groupID")
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*30)
	defer cancel()
	deleted, err := s.calendarService.PurgeGroup(ctx, groupID)
	if err != nil {
		writeServiceError(w, logger, "group purge", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"group_id": groupID,
		"deleted":  deleted,
	})
	logger.Info("group completions purged", zap.String("group_id", groupID), zap.Int64("deleted", deleted))
}
