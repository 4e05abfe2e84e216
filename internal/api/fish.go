package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/SergeyKozhin/aquacare-backend/internal/model"
	"github.com/SergeyKozhin/aquacare-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type fishResp struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func mapToFishResp(f *model.Fish) *fishResp {
	return &fishResp{
		ID:   f.ID,
		Name: f.Name,
	}
}

func (a *Api) createFishHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	req := &struct {
		Name string `json:"name"`
	}{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	name := strings.TrimSpace(req.Name)

	v := validator.New()
	v.Check(name != "", "name", "name must be provided")
	v.Check(len([]rune(name)) <= 100, "name", "name must be at most 100 characters")
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Messages())
		return
	}

	id, err := a.fish.CreateFish(r.Context(), a.db, &model.FishCreate{
		OwnerID: ownerID,
		Name:    name,
	})
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	resp := &fishResp{ID: id, Name: name}
	if err := a.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getFishHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	fish, err := a.fish.GetFishByOwner(r.Context(), a.db, ownerID)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]*fishResp, len(fish))
	for i, f := range fish {
		resp[i] = mapToFishResp(f)
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getFishByIDHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := a.callerID(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "fishID"), 10, 64)
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	fish, err := a.fish.GetFishByID(r.Context(), a.db, id, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	if err := a.writeJSON(w, http.StatusOK, mapToFishResp(fish), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}
