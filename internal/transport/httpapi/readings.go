package httpapi

import (
	"net/http"

	domain "mrcfield/internal/domain/inspection"
	"mrcfield/internal/usecase/inspection"
)

func (h *Handler) addMoistureReading(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id, areaID := p.get("id"), p.get("areaID")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	version, err := decodeWrite(w, r, &req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	res, err := h.inspections.AddMoistureReading(r.Context(), inspection.AddMoistureReadingInput{
		InspectionID:    id,
		AreaID:          areaID,
		ExpectedVersion: version,
		Title:           req.Title,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeChild(w, "Moisture reading added", res)
}

func (h *Handler) updateMoistureReading(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id, areaID, readingID := p.get("id"), p.get("areaID"), p.get("readingID")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var patch domain.MoistureReadingPatch
	version, err := decodeWrite(w, r, &patch)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	insp, err := h.inspections.UpdateMoistureReading(r.Context(), inspection.UpdateMoistureReadingInput{
		InspectionID:    id,
		AreaID:          areaID,
		ReadingID:       readingID,
		ExpectedVersion: version,
		Patch:           patch,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, "Moisture reading updated", insp)
}

func (h *Handler) deleteMoistureReading(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id, areaID, readingID := p.get("id"), p.get("areaID"), p.get("readingID")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	version, err := decodeWrite(w, r, nil)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	insp, err := h.inspections.DeleteMoistureReading(r.Context(), inspection.MoistureReadingRef{
		InspectionID:    id,
		AreaID:          areaID,
		ReadingID:       readingID,
		ExpectedVersion: version,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, "Moisture reading deleted", insp)
}

func (h *Handler) reorderMoistureReadings(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id, areaID := p.get("id"), p.get("areaID")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var req struct {
		ReadingIDs []string `json:"readingIds"`
	}
	version, err := decodeWrite(w, r, &req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	insp, err := h.inspections.ReorderMoistureReadings(r.Context(), inspection.ReorderMoistureReadingsInput{
		InspectionID:    id,
		AreaID:          areaID,
		ExpectedVersion: version,
		OrderedIDs:      req.ReadingIDs,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, "Moisture readings reordered", insp)
}

func (h *Handler) addSubfloorReading(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id := p.get("id")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var patch domain.SubfloorReadingPatch
	version, err := decodeWrite(w, r, &patch)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	res, err := h.inspections.AddSubfloorReading(r.Context(), inspection.AddSubfloorReadingInput{
		InspectionID:    id,
		ExpectedVersion: version,
		Patch:           patch,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeChild(w, "Subfloor reading added", res)
}

func (h *Handler) updateSubfloorReading(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id, readingID := p.get("id"), p.get("readingID")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var patch domain.SubfloorReadingPatch
	version, err := decodeWrite(w, r, &patch)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	insp, err := h.inspections.UpdateSubfloorReading(r.Context(), inspection.UpdateSubfloorReadingInput{
		InspectionID:    id,
		ReadingID:       readingID,
		ExpectedVersion: version,
		Patch:           patch,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, "Subfloor reading updated", insp)
}

func (h *Handler) deleteSubfloorReading(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id, readingID := p.get("id"), p.get("readingID")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	version, err := decodeWrite(w, r, nil)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	insp, err := h.inspections.DeleteSubfloorReading(r.Context(), inspection.ChildRef{
		InspectionID:    id,
		ChildID:         readingID,
		ExpectedVersion: version,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, "Subfloor reading deleted", insp)
}

func (h *Handler) reorderSubfloorReadings(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id := p.get("id")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var req struct {
		ReadingIDs []string `json:"readingIds"`
	}
	version, err := decodeWrite(w, r, &req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	insp, err := h.inspections.ReorderSubfloorReadings(r.Context(), inspection.ReorderInput{
		InspectionID:    id,
		ExpectedVersion: version,
		OrderedIDs:      req.ReadingIDs,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, "Subfloor readings reordered", insp)
}
