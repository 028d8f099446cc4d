// Package httpapi exposes the inspection and lead usecases as a JSON API.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/usecase/inspection"
	"mrcfield/internal/usecase/lead"
)

type Handler struct {
	inspections *inspection.Service
	leads       *lead.Service
}

func NewHandler(inspections *inspection.Service, leads *lead.Service) *Handler {
	return &Handler{inspections: inspections, leads: leads}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get(healthPath, func(w http.ResponseWriter, _ *http.Request) {
		writeOK(w, http.StatusOK, "ok", nil)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/schema/draft-sync", h.draftSyncSchema)
		r.Post("/leads", h.createLead)
		r.Get("/leads/{leadID}", h.getLead)
		r.Post("/leads/{leadID}/convert", h.convertLead)

		r.Get("/inspections", h.listInspections)
		r.Route("/inspections/{id}", func(r chi.Router) {
			r.Get("/", h.getInspection)
			r.Post("/start", h.startInspection)

			r.Put("/header", h.updateHeader)
			r.Put("/property", h.updateProperty)
			r.Put("/subfloor", h.updateSubfloor)
			r.Put("/outdoor", h.updateOutdoor)
			r.Put("/waste", h.updateWaste)
			r.Put("/procedure", h.updateProcedure)
			r.Put("/summary", h.updateSummary)

			r.Post("/areas", h.addArea)
			r.Put("/areas/reorder", h.reorderAreas)
			r.Put("/areas/{areaID}", h.updateArea)
			r.Delete("/areas/{areaID}", h.deleteArea)
			r.Put("/areas/{areaID}/comments", h.updateAreaComments)
			r.Put("/areas/{areaID}/demolition", h.updateAreaDemolition)
			r.Put("/areas/{areaID}/dew-point", h.overrideDewPoint)
			r.Delete("/areas/{areaID}/dew-point", h.revertDewPoint)
			r.Post("/areas/{areaID}/photos", h.setAreaPhoto)
			r.Post("/areas/{areaID}/generate-comments", h.generateAreaComments)
			r.Post("/areas/{areaID}/generate-demolition", h.generateDemolition)

			r.Post("/areas/{areaID}/readings", h.addMoistureReading)
			r.Put("/areas/{areaID}/readings/reorder", h.reorderMoistureReadings)
			r.Put("/areas/{areaID}/readings/{readingID}", h.updateMoistureReading)
			r.Delete("/areas/{areaID}/readings/{readingID}", h.deleteMoistureReading)
			r.Post("/areas/{areaID}/readings/{readingID}/photos", h.addMoistureReadingPhoto)

			r.Post("/subfloor/readings", h.addSubfloorReading)
			r.Put("/subfloor/readings/reorder", h.reorderSubfloorReadings)
			r.Put("/subfloor/readings/{readingID}", h.updateSubfloorReading)
			r.Delete("/subfloor/readings/{readingID}", h.deleteSubfloorReading)
			r.Post("/subfloor/readings/{readingID}/photos", h.addSubfloorReadingPhoto)
			r.Post("/subfloor/photos", h.addSubfloorPhoto)
			r.Post("/subfloor/generate-comments", h.generateSubfloorComments)

			r.Post("/outdoor/photos", h.setOutdoorPhoto)
			r.Post("/outdoor/direction-photos", h.addOutdoorDirectionPhoto)

			r.Post("/generate-cause-of-mould", h.generateCauseOfMould)

			r.Post("/calculate-cost", h.calculateCost)
			r.Get("/cost-preview", h.costPreview)
			r.Put("/complete", h.completeInspection)
			r.Get("/draft", h.getDraft)
			r.Post("/sync", h.syncDraft)
			r.Get("/report", h.exportReport)
		})
	})

	return r
}

const healthPath = "/healthz"

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithAttrs(r.Context(),
			slog.String("component", "transport.http"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		logServed := logging.Info
		if r.URL.Path == healthPath && ww.Status() < http.StatusInternalServerError {
			// liveness checks poll constantly
			logServed = logging.Debug
		}
		logServed(ctx, "request served",
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}
