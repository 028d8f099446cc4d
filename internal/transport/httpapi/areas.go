package httpapi

import (
	"fmt"
	"net/http"

	domain "mrcfield/internal/domain/inspection"
	"mrcfield/internal/usecase/inspection"
)

func (h *Handler) addArea(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id := p.get("id")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var patch domain.AreaPatch
	version, err := decodeWrite(w, r, &patch)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	res, err := h.inspections.AddArea(r.Context(), inspection.AddAreaInput{
		InspectionID:    id,
		ExpectedVersion: version,
		Patch:           patch,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeChild(w, "Area added", res)
}

func (h *Handler) updateArea(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id, areaID := p.get("id"), p.get("areaID")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var patch domain.AreaPatch
	version, err := decodeWrite(w, r, &patch)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	h.saveAreaPatch(w, r, inspection.UpdateAreaInput{
		InspectionID:    id,
		AreaID:          areaID,
		ExpectedVersion: version,
		Patch:           patch,
	}, "Area updated")
}

type areaCommentsRequest struct {
	CommentsEdited string `json:"commentsEdited"`
	Approved       bool   `json:"approved"`
}

func (h *Handler) updateAreaComments(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id, areaID := p.get("id"), p.get("areaID")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var req areaCommentsRequest
	version, err := decodeWrite(w, r, &req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	h.saveAreaPatch(w, r, inspection.UpdateAreaInput{
		InspectionID:    id,
		AreaID:          areaID,
		ExpectedVersion: version,
		Patch: domain.AreaPatch{
			CommentsEdited:   domain.Some(req.CommentsEdited),
			CommentsApproved: domain.Some(req.Approved),
		},
	}, "Comments updated")
}

type areaDemolitionRequest struct {
	DemolitionDescEdited string                `json:"demolitionDescEdited"`
	Approved             bool                  `json:"approved"`
	DemolitionRequired   domain.Optional[bool] `json:"demolitionRequired"`
	DemolitionTime       domain.Optional[int]  `json:"demolitionTime"`
}

func (h *Handler) updateAreaDemolition(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id, areaID := p.get("id"), p.get("areaID")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var req areaDemolitionRequest
	version, err := decodeWrite(w, r, &req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	h.saveAreaPatch(w, r, inspection.UpdateAreaInput{
		InspectionID:    id,
		AreaID:          areaID,
		ExpectedVersion: version,
		Patch: domain.AreaPatch{
			DemolitionEdited:      domain.Some(req.DemolitionDescEdited),
			DemolitionApproved:    domain.Some(req.Approved),
			DemolitionRequired:    req.DemolitionRequired,
			DemolitionTimeMinutes: req.DemolitionTime,
		},
	}, "Demolition description updated")
}

func (h *Handler) saveAreaPatch(w http.ResponseWriter, r *http.Request, input inspection.UpdateAreaInput, message string) {
	insp, err := h.inspections.UpdateArea(r.Context(), input)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, message, insp)
}

func (h *Handler) deleteArea(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id, areaID := p.get("id"), p.get("areaID")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	version, err := decodeWrite(w, r, nil)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	insp, err := h.inspections.DeleteArea(r.Context(), inspection.ChildRef{
		InspectionID:    id,
		ChildID:         areaID,
		ExpectedVersion: version,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, "Area deleted", insp)
}

func (h *Handler) reorderAreas(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id := p.get("id")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var req struct {
		AreaIDs []string `json:"areaIds"`
	}
	version, err := decodeWrite(w, r, &req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	insp, err := h.inspections.ReorderAreas(r.Context(), inspection.ReorderInput{
		InspectionID:    id,
		ExpectedVersion: version,
		OrderedIDs:      req.AreaIDs,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, "Areas reordered", insp)
}

func (h *Handler) overrideDewPoint(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id, areaID := p.get("id"), p.get("areaID")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var req struct {
		DewPoint *float64 `json:"dewPoint"`
	}
	version, err := decodeWrite(w, r, &req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if req.DewPoint == nil {
		writeError(r.Context(), w, fmt.Errorf("%w: dewPoint is required", errBadRequest))
		return
	}

	insp, err := h.inspections.OverrideDewPoint(r.Context(), inspection.DewPointInput{
		InspectionID:    id,
		AreaID:          areaID,
		ExpectedVersion: version,
		Value:           *req.DewPoint,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, "Dew point overridden", insp)
}

func (h *Handler) revertDewPoint(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id, areaID := p.get("id"), p.get("areaID")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	version, err := decodeWrite(w, r, nil)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	insp, err := h.inspections.RevertDewPoint(r.Context(), inspection.ChildRef{
		InspectionID:    id,
		ChildID:         areaID,
		ExpectedVersion: version,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, "Dew point recalculated", insp)
}
