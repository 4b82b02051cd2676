package places

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/bharat-guide/internal/api"
	"github.com/FACorreiaa/bharat-guide/internal/locale"
)

// Handler serves the static reference data presentation clients start from.
type Handler struct {
	logger *slog.Logger
	table  *locale.Table
}

func NewHandler(table *locale.Table, logger *slog.Logger) *Handler {
	return &Handler{table: table, logger: logger.With(slog.String("handler", "places"))}
}

// GetIconic lists the seed destinations.
func (h *Handler) GetIconic(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("PlacesHandler").Start(r.Context(), "GetIconic", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/places/iconic"),
	))
	defer span.End()

	list := Iconic()
	span.SetAttributes(attribute.Int("places.count", len(list)))
	span.SetStatus(codes.Ok, "Iconic places listed")
	api.WriteJSONResponse(w, r, http.StatusOK, list)
}

// GetLocales lists the supported languages and their phrase tables.
func (h *Handler) GetLocales(w http.ResponseWriter, r *http.Request) {
	type localeResponse struct {
		Code        string            `json:"code"`
		Label       string            `json:"label"`
		NativeLabel string            `json:"native_label"`
		Phrases     map[string]string `json:"phrases"`
	}

	out := make([]localeResponse, 0, len(locale.Languages))
	for _, l := range locale.Languages {
		out = append(out, localeResponse{
			Code:        string(l.Code),
			Label:       l.Label,
			NativeLabel: l.NativeLabel,
			Phrases:     h.table.Phrases(l.Code),
		})
	}
	h.logger.DebugContext(r.Context(), "Locales listed", slog.Int("count", len(out)))
	api.WriteJSONResponse(w, r, http.StatusOK, out)
}
