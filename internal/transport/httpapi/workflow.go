package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"mrcfield/internal/domain/costing"
	domain "mrcfield/internal/domain/inspection"
	"mrcfield/internal/usecase/inspection"
)

func (h *Handler) generateAreaComments(w http.ResponseWriter, r *http.Request) {
	h.generateAreaText(w, r, h.inspections.GenerateAreaComments)
}

func (h *Handler) generateDemolition(w http.ResponseWriter, r *http.Request) {
	h.generateAreaText(w, r, h.inspections.GenerateDemolitionDescription)
}

func (h *Handler) generateAreaText(
	w http.ResponseWriter,
	r *http.Request,
	generate func(context.Context, inspection.AreaTextRef) (inspection.TextResult, error),
) {
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

	res, err := generate(r.Context(), inspection.AreaTextRef{
		InspectionID:    id,
		AreaID:          areaID,
		ExpectedVersion: version,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeText(w, res)
}

func (h *Handler) generateCauseOfMould(w http.ResponseWriter, r *http.Request) {
	h.generateInspectionText(w, r, h.inspections.GenerateCauseOfMould)
}

func (h *Handler) generateSubfloorComments(w http.ResponseWriter, r *http.Request) {
	h.generateInspectionText(w, r, h.inspections.GenerateSubfloorComments)
}

func (h *Handler) generateInspectionText(
	w http.ResponseWriter,
	r *http.Request,
	generate func(context.Context, inspection.Ref) (inspection.TextResult, error),
) {
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

	res, err := generate(r.Context(), inspection.Ref{InspectionID: id, ExpectedVersion: version})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeText(w, res)
}

func writeText(w http.ResponseWriter, res inspection.TextResult) {
	if res.Inspection != nil {
		w.Header().Set("ETag", strconv.Quote(strconv.FormatInt(res.Inspection.Version, 10)))
	}
	writeOK(w, http.StatusOK, "Text generated", textResponse{Text: res.Text, Inspection: res.Inspection})
}

// calculateCost prices the posted figures without touching the stored inspection.
func (h *Handler) calculateCost(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	p.get("id")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	raw, err := readBody(w, r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	var input costing.CostInput
	if err := decodeJSON(raw, &input); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	breakdown, err := h.inspections.PreviewCost(r.Context(), input)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, "Cost calculated", breakdown)
}

func (h *Handler) costPreview(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id := p.get("id")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}

	breakdown, err := h.inspections.PreviewInspectionCost(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, "", breakdown)
}

type completeResponse struct {
	Inspection *domain.Inspection `json:"inspection"`
	Breakdown  costing.Breakdown  `json:"costBreakdown"`
	Warnings   []string           `json:"warnings,omitempty"`
}

func (h *Handler) completeInspection(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id := p.get("id")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var req struct {
		FinalCost *decimal.Decimal `json:"finalCost"`
	}
	version, err := decodeWrite(w, r, &req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	res, err := h.inspections.Complete(r.Context(), inspection.CompleteInput{
		InspectionID:      id,
		ExpectedVersion:   version,
		FinalCostOverride: req.FinalCost,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	out := completeResponse{Inspection: res.Inspection, Breakdown: res.Breakdown}
	if res.LeadUpdateError != nil {
		out.Warnings = append(out.Warnings, "lead status was not updated")
	}
	if res.EventError != nil {
		out.Warnings = append(out.Warnings, "completion event was not published")
	}
	w.Header().Set("ETag", strconv.Quote(strconv.FormatInt(res.Inspection.Version, 10)))
	writeOK(w, http.StatusOK, "Inspection completed", out)
}

func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id := p.get("id")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}

	insp, err := h.inspections.GetDraft(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, "", insp)
}

// syncDraft applies an offline draft. A baseVersion in the body wins over If-Match.
func (h *Handler) syncDraft(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id := p.get("id")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var draft inspection.DraftSync
	version, err := decodeWrite(w, r, &draft)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	draft.InspectionID = id
	if draft.BaseVersion == 0 {
		draft.BaseVersion = version
	}

	res, err := h.inspections.SyncDraft(r.Context(), draft)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	message := "Draft synced"
	if res.Replayed {
		message = "Draft already synced"
	}
	w.Header().Set("ETag", strconv.Quote(strconv.FormatInt(res.AppliedVersion, 10)))
	writeOK(w, http.StatusOK, message, res)
}

// exportReport renders into memory first so a failure still gets a JSON error.
func (h *Handler) exportReport(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id := p.get("id")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}

	var buf bytes.Buffer
	if err := h.inspections.ExportReport(r.Context(), id, &buf); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", h.inspections.ReportContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "inspection-"+id+".xlsx"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
