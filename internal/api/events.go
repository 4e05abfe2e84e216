package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	businessevents "github.com/SergeyKozhin/aquacare-backend/internal/business/events"
	"github.com/SergeyKozhin/aquacare-backend/internal/model"
	"github.com/go-chi/chi/v5"
)

type eventRequest struct {
	TargetType  string    `json:"target_type"`
	FishID      *int64    `json:"fish_id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Notes       string    `json:"notes"`
	ScheduledAt *dateTime `json:"scheduled_at"`
	Priority    string    `json:"priority"`
	Recurrence  string    `json:"recurrence"`
}

func (a *Api) createEventHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	req := &eventRequest{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	info := &model.EventCreate{
		Target:      model.Target{Type: model.TargetType(req.TargetType)},
		Type:        model.TaskType(req.Type),
		Title:       req.Title,
		Description: req.Description,
		Notes:       req.Notes,
		Priority:    model.Priority(req.Priority),
		Recurrence:  model.Recurrence(req.Recurrence),
	}
	if req.FishID != nil {
		info.Target.FishID = *req.FishID
	}
	if req.ScheduledAt != nil {
		info.ScheduledAt = time.Time(*req.ScheduledAt)
	}

	event, err := a.eventsService.Create(r.Context(), ownerID, info)
	if err != nil {
		a.eventErrorResponse(w, r, err)
		return
	}

	resp, _ := mapToEventResp(event)
	if err := a.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateEventHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	req := &struct {
		TargetType  *string   `json:"target_type"`
		FishID      *int64    `json:"fish_id"`
		Type        *string   `json:"type"`
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		Notes       *string   `json:"notes"`
		ScheduledAt *dateTime `json:"scheduled_at"`
		Priority    *string   `json:"priority"`
		Recurrence  *string   `json:"recurrence"`
	}{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	upd := &model.EventUpdate{}
	if req.TargetType != nil || req.FishID != nil {
		target := model.Target{}
		if req.TargetType != nil {
			target.Type = model.TargetType(*req.TargetType)
		}
		if req.FishID != nil {
			target.FishID = *req.FishID
		}
		upd.Target = &target
	}
	if req.Type != nil {
		t := model.TaskType(*req.Type)
		upd.Type = &t
	}
	upd.Title = req.Title
	upd.Description = req.Description
	upd.Notes = req.Notes
	if req.ScheduledAt != nil {
		ts := time.Time(*req.ScheduledAt)
		upd.ScheduledAt = &ts
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		upd.Priority = &p
	}
	if req.Recurrence != nil {
		rec := model.Recurrence(*req.Recurrence)
		upd.Recurrence = &rec
	}

	event, err := a.eventsService.Update(r.Context(), ownerID, id, upd)
	if err != nil {
		a.eventErrorResponse(w, r, err)
		return
	}

	resp, _ := mapToEventResp(event)
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) deleteEventHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	if err := a.eventsService.Delete(r.Context(), ownerID, id); err != nil {
		a.eventErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) completeEventHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	req := &struct {
		Notes string `json:"notes"`
	}{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	event, err := a.eventsService.Complete(r.Context(), ownerID, id, req.Notes)
	if err != nil {
		a.eventErrorResponse(w, r, err)
		return
	}

	resp, _ := mapToEventResp(event)
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getEventHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	event, err := a.eventsService.GetEvent(r.Context(), ownerID, id)
	if err != nil {
		a.eventErrorResponse(w, r, err)
		return
	}

	resp, _ := mapToEventResp(event)
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getEventsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	a.listEvents(w, r, model.EventsFilter{OwnerID: ownerID})
}

func (a *Api) getTodayEventsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	a.listEvents(w, r, businessevents.TodayFilter(ownerID, time.Now()))
}

func (a *Api) getOverdueEventsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	a.listEvents(w, r, businessevents.OverdueFilter(ownerID, time.Now()))
}

func (a *Api) getTargetEventsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	fishID, err := strconv.ParseInt(chi.URLParam(r, "fishID"), 10, 64)
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	a.listEvents(w, r, model.EventsFilter{OwnerID: ownerID, FishID: fishID})
}

func (a *Api) getFilteredEventsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	filter, err := parseEventsQuery(r, ownerID)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	a.listEvents(w, r, *filter)
}

func (a *Api) getStatsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	stats, err := a.eventsService.Stats(r.Context(), ownerID)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get stats: %w", err))
		return
	}

	if err := a.writeJSON(w, http.StatusOK, mapToStatsResp(stats), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) listEvents(w http.ResponseWriter, r *http.Request, filter model.EventsFilter) {
	events, err := a.eventsService.GetEvents(r.Context(), filter)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get events: %w", err))
		return
	}

	resp, _ := mapSlice(events, mapToEventResp)
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

// parseEventsQuery reads the generic filter descriptor from the query string.
func parseEventsQuery(r *http.Request, ownerID int64) (*model.EventsFilter, error) {
	res := &model.EventsFilter{OwnerID: ownerID}
	query := r.URL.Query()

	if v := query.Get("type"); v != "" {
		res.Type = model.TaskType(v)
	}

	if v := query.Get("is_completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid is_completed: %v", v)
		}
		res.IsCompleted = &completed
	}

	if v := query.Get("priority"); v != "" {
		res.Priority = model.Priority(v)
	}

	if v := query.Get("fish_id"); v != "" {
		fishID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fish_id: %v", v)
		}
		res.FishID = fishID
	}

	if v := query.Get("date_from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid date_from: %v", v)
		}
		res.From = &from
	}

	if v := query.Get("date_to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid date_to: %v", v)
		}
		res.To = &to
	}

	if v := query.Get("sort"); v == "asc" {
		res.Sort = model.SortScheduledAsc
	}

	res.Limit = model.MaxFilterLimit
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return nil, fmt.Errorf("invalid limit: %v", v)
		}
		if limit < model.MaxFilterLimit {
			res.Limit = limit
		}
	}

	return res, nil
}

// eventErrorResponse maps the typed mutation errors onto HTTP statuses.
func (a *Api) eventErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	validationErr := &model.ValidationError{}

	switch {
	case errors.Is(err, model.ErrNoRecord):
		a.notFoundResponse(w, r)
	case errors.Is(err, model.ErrTargetNotFound):
		a.clientErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, model.ErrTargetRequired):
		a.clientErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, model.ErrAlreadyCompleted):
		a.conflictResponse(w, r, err.Error())
	case errors.As(err, &validationErr):
		a.failedValidationResponse(w, r, validationErr.Violations)
	default:
		a.serverErrorResponse(w, r, err)
	}
}
