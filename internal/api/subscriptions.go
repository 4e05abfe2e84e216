package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/SergeyKozhin/aquacare-backend/internal/business/subscriptions"
	"github.com/go-chi/chi/v5"
)

// Live channels are served as server-sent events: one initial payload, then
// one message per relevant change. The subscription is always released when
// the handler returns, whatever the exit path.

func (a *Api) watchAllHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	a.streamUpdates(w, r, a.subscriptions.SubscribeAll(r.Context(), ownerID))
}

func (a *Api) watchTodayHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	a.streamUpdates(w, r, a.subscriptions.SubscribeToday(r.Context(), ownerID))
}

func (a *Api) watchOverdueHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	a.streamUpdates(w, r, a.subscriptions.SubscribeOverdue(r.Context(), ownerID))
}

func (a *Api) watchTargetHandler(w http.ResponseWriter, r *http.Request) {
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

	a.streamUpdates(w, r, a.subscriptions.SubscribeByTarget(r.Context(), ownerID, fishID))
}

func (a *Api) watchFilteredHandler(w http.ResponseWriter, r *http.Request) {
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

	a.streamUpdates(w, r, a.subscriptions.SubscribeFiltered(r.Context(), ownerID, *filter))
}

func (a *Api) watchStatsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	a.streamUpdates(w, r, a.subscriptions.SubscribeStats(r.Context(), ownerID))
}

type updateResp struct {
	Initial bool         `json:"initial,omitempty"`
	Added   []*eventResp `json:"added,omitempty"`
	Changed []*eventResp `json:"changed,omitempty"`
	Removed []int64      `json:"removed,omitempty"`
	Stats   *statsResp   `json:"stats,omitempty"`
}

func mapToUpdateResp(update subscriptions.Update) (*updateResp, error) {
	added, err := mapSlice(update.Added, mapToEventResp)
	if err != nil {
		return nil, err
	}
	changed, err := mapSlice(update.Changed, mapToEventResp)
	if err != nil {
		return nil, err
	}

	resp := &updateResp{
		Initial: update.Initial,
		Added:   added,
		Changed: changed,
		Removed: update.Removed,
	}
	if update.Stats != nil {
		resp.Stats = mapToStatsResp(update.Stats)
	}

	return resp, nil
}

func (a *Api) streamUpdates(w http.ResponseWriter, r *http.Request, sub *subscriptions.Subscription) {
	defer sub.Stop()

	flusher, ok := w.(http.Flusher)
	if !ok {
		a.serverErrorResponse(w, r, errStreamingUnsupported)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case update, ok := <-sub.Updates():
			if !ok {
				return
			}

			resp, err := mapToUpdateResp(update)
			if err != nil {
				a.logError(r, err)
				return
			}

			if err := writeServerSentEvent(w, resp); err != nil {
				a.logError(r, err)
				return
			}
			flusher.Flush()
		}
	}
}

var errStreamingUnsupported = errors.New("response writer does not support streaming")

func writeServerSentEvent(w io.Writer, data interface{}) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", js); err != nil {
		return err
	}

	return nil
}
