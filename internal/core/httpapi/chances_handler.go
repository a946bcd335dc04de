package httpapi

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/solatis/chancekeeper/internal/logger"
	"github.com/solatis/chancekeeper/internal/rules"
	"github.com/solatis/chancekeeper/internal/types"
)

// handlePutChance creates or replaces the chance at PUT /api/v1/chances/{name}.
// The body is the chance definition as JSON, or YAML when the Content-Type
// names yaml.
func (a *API) handlePutChance(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeInvalidJSON, "failed to read request body: "+err.Error())
		return
	}

	var chance *rules.Chance
	if isYAML(r.Header.Get("Content-Type")) {
		chance, err = rules.ParseChanceYAML(body)
	} else {
		chance, err = rules.ParseChance(body)
	}
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, codeInvalidChance, err.Error())
		return
	}

	stored, err := a.chances.Put(r.Context(), name, chance)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	resp, err := toChanceResponse(stored)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	log.Info().Str("chance", stored.Name).Int("cost", stored.Cost).Msg("chance stored")
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// handleGetChance returns the chance at GET /api/v1/chances/{name}.
func (a *API) handleGetChance(w http.ResponseWriter, r *http.Request) {
	stored, err := a.chances.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	resp, err := toChanceResponse(stored)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// handleListChances returns every stored chance at GET /api/v1/chances.
func (a *API) handleListChances(w http.ResponseWriter, r *http.Request) {
	all, err := a.chances.List(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	data := make([]ChanceResponse, 0, len(all))
	for _, sc := range all {
		resp, err := toChanceResponse(sc)
		if err != nil {
			a.writeServiceError(w, r, err)
			return
		}
		data = append(data, resp)
	}

	render.JSON(w, r, ListResponse{Data: data, Total: len(data)})
}

// handleDeleteChance removes the chance at DELETE /api/v1/chances/{name}.
func (a *API) handleDeleteChance(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := a.chances.Delete(r.Context(), name); err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info().Str("chance", name).Msg("chance deleted")
	render.NoContent(w, r)
}

// handleFactor evaluates the chance at POST /api/v1/chances/{name}/factor.
// The body is the evaluation context object; an empty body means an empty
// context.
func (a *API) handleFactor(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	evalCtx := types.Context{}
	if err := render.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &evalCtx); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, codeInvalidJSON, "context must be a JSON object: "+err.Error())
		return
	}

	result, err := a.chances.Evaluate(r.Context(), name, evalCtx)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	render.JSON(w, r, FactorResponse{
		Chance:  name,
		Factor:  result.Factor,
		Applied: result.Applied,
	})
}

// writeServiceError maps service errors to HTTP responses.
func (a *API) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidChanceName):
		writeError(w, r, http.StatusBadRequest, codeInvalidName, err.Error())
	case errors.Is(err, types.ErrChanceNotFound):
		writeError(w, r, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, types.ErrCoercionFailed):
		writeError(w, r, http.StatusUnprocessableEntity, codeInvalidContext, err.Error())
	case errors.Is(err, types.ErrStructural),
		errors.Is(err, types.ErrUnsupportedCondition),
		errors.Is(err, types.ErrTreeTooDeep),
		errors.Is(err, types.ErrTooManyModifiers),
		errors.Is(err, types.ErrSerialization):
		writeError(w, r, http.StatusUnprocessableEntity, codeInvalidChance, err.Error())
	default:
		logger.FromContext(r.Context()).Error().Err(err).Msg("chance service failure")
		writeError(w, r, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Code: code, Message: message})
}

func isYAML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.Contains(mediaType, "yaml")
}
