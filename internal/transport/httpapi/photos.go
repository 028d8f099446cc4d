package httpapi

import (
	"context"
	"net/http"

	domain "mrcfield/internal/domain/inspection"
	"mrcfield/internal/usecase/inspection"
)

type slotPhotoRequest struct {
	Slot string `json:"slot"`
	URL  string `json:"url"`
}

type photoRequest struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

func (h *Handler) setOutdoorPhoto(w http.ResponseWriter, r *http.Request) {
	h.setSlotPhoto(w, r, false, h.inspections.SetOutdoorPhoto)
}

func (h *Handler) setAreaPhoto(w http.ResponseWriter, r *http.Request) {
	h.setSlotPhoto(w, r, true, h.inspections.SetAreaPhoto)
}

func (h *Handler) setSlotPhoto(
	w http.ResponseWriter,
	r *http.Request,
	withArea bool,
	set func(context.Context, inspection.SlotPhotoInput) (*domain.Inspection, error),
) {
	p := pathIDs{r: r}
	input := inspection.SlotPhotoInput{InspectionID: p.get("id")}
	if withArea {
		input.AreaID = p.get("areaID")
	}
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var req slotPhotoRequest
	version, err := decodeWrite(w, r, &req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	input.ExpectedVersion = version
	input.Slot = req.Slot
	input.URL = req.URL

	insp, err := set(r.Context(), input)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeInspection(w, http.StatusOK, "Photo saved", insp)
}

func (h *Handler) addOutdoorDirectionPhoto(w http.ResponseWriter, r *http.Request) {
	h.addListPhoto(w, r, nil, h.inspections.AddOutdoorDirectionPhoto)
}

func (h *Handler) addSubfloorPhoto(w http.ResponseWriter, r *http.Request) {
	h.addListPhoto(w, r, nil, h.inspections.AddSubfloorPhoto)
}

func (h *Handler) addMoistureReadingPhoto(w http.ResponseWriter, r *http.Request) {
	h.addListPhoto(w, r, []string{"areaID", "readingID"}, h.inspections.AddMoistureReadingPhoto)
}

func (h *Handler) addSubfloorReadingPhoto(w http.ResponseWriter, r *http.Request) {
	h.addListPhoto(w, r, []string{"readingID"}, h.inspections.AddSubfloorReadingPhoto)
}

// addListPhoto appends to one of the ordered photo lists. params names the
// owner path parameters beyond the inspection id.
func (h *Handler) addListPhoto(
	w http.ResponseWriter,
	r *http.Request,
	params []string,
	add func(context.Context, inspection.PhotoInput) (inspection.ChildResult, error),
) {
	p := pathIDs{r: r}
	input := inspection.PhotoInput{InspectionID: p.get("id")}
	for _, name := range params {
		switch name {
		case "areaID":
			input.AreaID = p.get(name)
		case "readingID":
			input.ReadingID = p.get(name)
		}
	}
	if p.err != nil {
		writeError(r.Context(), w, p.err)
		return
	}
	var req photoRequest
	version, err := decodeWrite(w, r, &req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	input.ExpectedVersion = version
	input.URL = req.URL
	input.Caption = req.Caption

	res, err := add(r.Context(), input)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeChild(w, "Photo added", res)
}
