package httpapi

import (
	"context"
	"net/http"
	"strconv"

	domain "mrcfield/internal/domain/inspection"
	"mrcfield/internal/usecase/inspection"
)

type childResponse struct {
	ID         string             `json:"id"`
	Inspection *domain.Inspection `json:"inspection"`
}

type textResponse struct {
	Text       string             `json:"text"`
	Inspection *domain.Inspection `json:"inspection"`
}

// writeInspection echoes the new version as an ETag so clients can send it
// back in If-Match.
func writeInspection(w http.ResponseWriter, status int, message string, insp *domain.Inspection) {
	if insp != nil {
		w.Header().Set("ETag", strconv.Quote(strconv.FormatInt(insp.Version, 10)))
	}
	writeOK(w, status, message, insp)
}

func writeChild(w http.ResponseWriter, message string, res inspection.ChildResult) {
	if res.Inspection != nil {
		w.Header().Set("ETag", strconv.Quote(strconv.FormatInt(res.Inspection.Version, 10)))
	}
	writeOK(w, http.StatusCreated, message, childResponse{ID: res.ChildID, Inspection: res.Inspection})
}

func (h *Handler) listInspections(w http.ResponseWriter, r *http.Request) {
	input := inspection.ListInput{Status: r.URL.Query().Get("status")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(r.Context(), w, errBadRequest)
			return
		}
		input.Limit = limit
	}

	items, err := h.inspections.List(r.Context(), input)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, "", items)
}

func (h *Handler) getInspection(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id := p.get("id")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}

	insp, err := h.inspections.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, "", insp)
}

func (h *Handler) startInspection(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id := p.get("id")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	version, err := decodeWrite(w, r, nil)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	insp, err := h.inspections.Start(r.Context(), inspection.Ref{InspectionID: id, ExpectedVersion: version})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, "Inspection started", insp)
}

func patchSection[P any](w http.ResponseWriter, r *http.Request, update func(context.Context, inspection.PatchInput[P]) (*domain.Inspection, error), message string) {
	p := pathIDs{r: r}
	id := p.get("id")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var patch P
	version, err := decodeWrite(w, r, &patch)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	insp, err := update(r.Context(), inspection.PatchInput[P]{
		InspectionID:    id,
		ExpectedVersion: version,
		Patch:           patch,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, message, insp)
}

func (h *Handler) updateHeader(w http.ResponseWriter, r *http.Request) {
	patchSection(w, r, h.inspections.UpdateHeader, "Header updated")
}

func (h *Handler) updateProperty(w http.ResponseWriter, r *http.Request) {
	patchSection(w, r, h.inspections.UpdateProperty, "Property updated")
}

func (h *Handler) updateSubfloor(w http.ResponseWriter, r *http.Request) {
	patchSection(w, r, h.inspections.UpdateSubfloor, "Subfloor updated")
}

func (h *Handler) updateOutdoor(w http.ResponseWriter, r *http.Request) {
	patchSection(w, r, h.inspections.UpdateOutdoor, "Outdoor conditions updated")
}

func (h *Handler) updateWaste(w http.ResponseWriter, r *http.Request) {
	patchSection(w, r, h.inspections.UpdateWaste, "Waste disposal updated")
}

func (h *Handler) updateProcedure(w http.ResponseWriter, r *http.Request) {
	patchSection(w, r, h.inspections.UpdateProcedure, "Procedure updated")
}

func (h *Handler) updateSummary(w http.ResponseWriter, r *http.Request) {
	patchSection(w, r, h.inspections.UpdateSummary, "Summary updated")
}
