package engine

import (
	"net/http"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"

	"github.com/atlasgrid/enterprise-rag/internal/middleware"
)

type Handler struct {
	service        *Service
	graphAvailable bool
}

func NewHandler(service *Service, graphAvailable bool) *Handler {
	return &Handler{
		service:        service,
		graphAvailable: graphAvailable,
	}
}

// Chat handles POST /api/v1/chat
func (h *Handler) Chat(req *restful.Request, resp *restful.Response) {
	var queryRequest QueryRequest

	if err := req.ReadEntity(&queryRequest); err != nil {
		log.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	queryRequest.SetDefaults(h.service.TopK())
	if err := queryRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	log.Info().
		Str("query", queryRequest.Query).
		Int("top_k", queryRequest.TopK).
		Msg("Process chat query")

	ctx := req.Request.Context()

	queryResponse, err := h.service.Ask(ctx, queryRequest.Query, queryRequest.TopK)
	if err != nil {
		log.Error().Err(err).Msg("Failed to answer query")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, queryResponse)
}

// Health handles GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:         "ok",
		Version:        "1.0.0",
		GraphAvailable: h.graphAvailable,
	})
}
