package mockapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/misfitdev/spotr-mcp/pkg/schema"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

type handler struct {
	backend spotr.Backend
}

// bind decodes the request body strictly into dst and checks its tags.
func bind(c *gin.Context, dst any) bool {
	raw, err := c.GetRawData()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "read body: "+err.Error())
		return false
	}
	if err := schema.Parse(raw, dst); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

func (h *handler) listMovements(c *gin.Context) {
	group := c.Query("muscle_group")
	if group == "" {
		lib, err := h.backend.FetchAllMovements(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"movements": lib})
		return
	}

	g, ok := spotr.ParseMuscleGroup(group)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "unknown muscle_group "+strconv.Quote(group))
		return
	}
	movements, err := h.backend.FetchMovementsByGroup(c.Request.Context(), g)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": spotr.MovementLibrary{g: movements}})
}

func (h *handler) searchMovements(c *gin.Context) {
	q := spotr.MovementQuery{
		Query:       c.Query("query"),
		MuscleGroup: c.Query("muscle_group"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "limit must be an integer")
			return
		}
		q.Limit = &limit
	}
	if err := schema.Validate(&q); err != nil {
		respondError(c, err)
		return
	}
	movements, err := h.backend.SearchMovements(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": movements})
}

func (h *handler) listPrograms(c *gin.Context) {
	programs, err := h.backend.FetchAllPrograms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"programs": programs})
}

func (h *handler) getProgram(c *gin.Context) {
	p, err := h.backend.FetchProgram(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) createProgram(c *gin.Context) {
	var in spotr.ProgramInput
	if !bind(c, &in) {
		return
	}
	p, err := h.backend.CreateProgram(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *handler) updateProgram(c *gin.Context) {
	var update spotr.ProgramUpdate
	if !bind(c, &update) {
		return
	}
	p, err := h.backend.UpdateProgram(c.Request.Context(), c.Param("id"), &update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) deleteProgram(c *gin.Context) {
	if err := h.backend.DeleteProgram(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listBlueprints(c *gin.Context) {
	blueprints, err := h.backend.FetchAllBlueprints(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blueprints": blueprints})
}

func (h *handler) getBlueprint(c *gin.Context) {
	bp, err := h.backend.FetchBlueprint(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bp)
}

func (h *handler) createBlueprint(c *gin.Context) {
	var in spotr.BlueprintInput
	if !bind(c, &in) {
		return
	}
	bp, err := h.backend.CreateBlueprint(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bp)
}

func (h *handler) createProgramFromBlueprint(c *gin.Context) {
	var in spotr.BlueprintProgramInput
	if !bind(c, &in) {
		return
	}
	p, err := h.backend.CreateProgramFromBlueprint(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *handler) getCoach(c *gin.Context) {
	h.document(c, h.backend.FetchCoach)
}

func (h *handler) getCoachStyle(c *gin.Context) {
	h.document(c, h.backend.FetchCoachStyle)
}

func (h *handler) getClient(c *gin.Context) {
	h.document(c, h.backend.FetchClient)
}

func (h *handler) document(c *gin.Context, fetch func(ctx context.Context, id string) (spotr.Document, error)) {
	doc, err := fetch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *handler) getClientProgress(c *gin.Context) {
	doc, err := h.backend.FetchClientProgress(c.Request.Context(), c.Param("id"), c.Param("programId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *handler) createAnalysis(c *gin.Context) {
	var in spotr.ProgressAnalysisInput
	if !bind(c, &in) {
		return
	}
	if in.ClientID != c.Param("id") || in.ProgramID != c.Param("programId") {
		abortWithError(c, http.StatusBadRequest, "client_id and program_id must match the request path")
		return
	}
	a, err := h.backend.CreateProgressAnalysis(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *handler) getAnalysis(c *gin.Context) {
	a, err := h.backend.FetchProgressAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *handler) createEvaluation(c *gin.Context) {
	var in spotr.EvaluationInput
	if !bind(c, &in) {
		return
	}
	e, err := h.backend.CreateEvaluation(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *handler) getEvaluation(c *gin.Context) {
	e, err := h.backend.FetchEvaluation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *handler) createShareLink(c *gin.Context) {
	var in spotr.ShareLinkInput
	if !bind(c, &in) {
		return
	}
	link, err := h.backend.CreateShareLink(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}
