package routing

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/emailkuy/emailkuy/internal/platform/request"
	"github.com/emailkuy/emailkuy/internal/platform/respond"
	"github.com/emailkuy/emailkuy/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the routing-rule endpoints. All of them sit behind the
// session gate; handlers can rely on a validated session in the context.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/zones", handler.listZones)
	router.Get("/routes", handler.listRules)
	router.Post("/routes", handler.createRule)
	router.Delete("/routes/{id}", handler.deleteRule)

	return router
}

func (handler *Handler) listZones(writer http.ResponseWriter, request *http.Request) {
	zones, err := handler.service.ListZones(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, zones)
}

func (handler *Handler) listRules(writer http.ResponseWriter, request *http.Request) {
	rules, err := handler.service.ListRules(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rules)
}

type createRuleRequest struct {
	ZoneID      string `json:"zone_id"`
	AliasPart   string `json:"alias_part"`
	Destination string `json:"destination"`
}

func (handler *Handler) createRule(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRuleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	rule, err := handler.service.CreateRule(request.Context(), CreateInput{
		ZoneID:      input.ZoneID,
		AliasPart:   input.AliasPart,
		Destination: input.Destination,
		CreatedBy:   claims.Username,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, rule)
}

func (handler *Handler) deleteRule(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	if err := handler.service.DeleteRule(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
