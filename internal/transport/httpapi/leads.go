package httpapi

import (
	"net/http"
	"time"

	"mrcfield/internal/usecase/inspection"
	"mrcfield/internal/usecase/lead"
)

type createLeadRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Suburb      string `json:"suburb"`
	Postcode    string `json:"postcode"`
	ServiceType string `json:"serviceType"`
	Notes       string `json:"notes"`
}

func (h *Handler) createLead(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	var req createLeadRequest
	if err := decodeJSON(raw, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	l, err := h.leads.CreateLead(r.Context(), lead.CreateLeadInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Suburb:      req.Suburb,
		Postcode:    req.Postcode,
		ServiceType: req.ServiceType,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusCreated, "Lead created", l)
}

func (h *Handler) getLead(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id := p.get("leadID")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}

	l, err := h.leads.GetLead(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeOK(w, http.StatusOK, "", l)
}

type convertLeadRequest struct {
	TechnicianID string     `json:"technicianId"`
	ScheduledAt  *time.Time `json:"scheduledAt"`
}

func (h *Handler) convertLead(w http.ResponseWriter, r *http.Request) {
	p := pathIDs{r: r}
	id := p.get("leadID")
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	raw, err := readBody(w, r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	var req convertLeadRequest
	if err := decodeJSON(raw, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	insp, err := h.inspections.ConvertLead(r.Context(), inspection.ConvertLeadInput{
		LeadID:       id,
		TechnicianID: req.TechnicianID,
		ScheduledAt:  req.ScheduledAt,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusCreated, "Inspection scheduled", insp)
}
