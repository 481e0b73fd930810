package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/meshcompare/backend/internal/domain"
	"github.com/meshcompare/backend/internal/usecase"
)

const defaultMaxUploadBytes = 20 << 20

// CatalogStats reports the size of the catalog for the health endpoint
type CatalogStats interface {
	Counts() (suppliers, meshes int)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog        domain.CatalogRepository
	comparison     *usecase.ComparisonService
	extraction     *usecase.ExtractionService
	importer       *usecase.ImportService
	maxUploadBytes int64
}

// HandlerConfig holds transport limits
type HandlerConfig struct {
	MaxUploadBytes int64
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog domain.CatalogRepository,
	comparison *usecase.ComparisonService,
	extraction *usecase.ExtractionService,
	importer *usecase.ImportService,
	config HandlerConfig,
) *Handler {
	maxUpload := config.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	return &Handler{
		catalog:        catalog,
		comparison:     comparison,
		extraction:     extraction,
		importer:       importer,
		maxUploadBytes: maxUpload,
	}
}

// MeshView is a mesh together with its supplier; Supplier is null for
// meshes whose supplier was deleted
type MeshView struct {
	domain.Mesh
	Supplier *domain.Supplier `json:"supplier"`
	Family   string           `json:"family"`
}

// ImportBody is the payload of POST /imports. Kind, when set and Mode is
// empty, selects the default mode for that candidate kind.
type ImportBody struct {
	usecase.ImportRequest
	Kind domain.CandidateKind `json:"kind"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	resp := gin.H{
		"status":  "healthy",
		"service": "meshcompare-backend",
		"version": "1.0.0",
	}
	if stats, ok := h.catalog.(CatalogStats); ok {
		suppliers, meshes := stats.Counts()
		resp["suppliers"] = suppliers
		resp["meshes"] = meshes
	}
	c.JSON(http.StatusOK, resp)
}

// ListSuppliers handles GET /suppliers
func (h *Handler) ListSuppliers(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.ListSuppliers(c.Request.Context()))
}

// CreateSupplier handles POST /suppliers
func (h *Handler) CreateSupplier(c *gin.Context) {
	var req domain.Supplier
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	req.ID = ""

	sup, err := h.catalog.AddSupplier(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sup)
}

// UpdateSupplier handles PUT /suppliers/:id
func (h *Handler) UpdateSupplier(c *gin.Context) {
	var req domain.Supplier
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	req.ID = c.Param("id")

	sup, err := h.catalog.UpdateSupplier(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sup)
}

// DeleteSupplier handles DELETE /suppliers/:id
func (h *Handler) DeleteSupplier(c *gin.Context) {
	if err := h.catalog.DeleteSupplier(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMeshes handles GET /meshes, optionally filtered by ?supplierId=
func (h *Handler) ListMeshes(c *gin.Context) {
	ctx := c.Request.Context()

	var meshes []domain.Mesh
	if supplierID := c.Query("supplierId"); supplierID != "" {
		meshes = h.catalog.ListMeshesBySupplier(ctx, supplierID)
	} else {
		meshes = h.catalog.ListMeshes(ctx)
	}

	c.JSON(http.StatusOK, h.views(ctx, meshes))
}

// GroupMeshes handles GET /meshes/groups
func (h *Handler) GroupMeshes(c *gin.Context) {
	c.JSON(http.StatusOK, usecase.GroupMeshes(h.catalog.ListMeshes(c.Request.Context())))
}

// GetMesh handles GET /meshes/:id
func (h *Handler) GetMesh(c *gin.Context) {
	ctx := c.Request.Context()
	m, err := h.catalog.GetMesh(ctx, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.views(ctx, []domain.Mesh{m})[0])
}

// CreateMesh handles POST /meshes
func (h *Handler) CreateMesh(c *gin.Context) {
	var req domain.Mesh
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	req.ID = ""
	if req.Category == "" {
		req.Category = usecase.FamilyOf(req)
	}

	m, err := h.catalog.AddMesh(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// UpdateMesh handles PUT /meshes/:id
func (h *Handler) UpdateMesh(c *gin.Context) {
	var req domain.Mesh
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	req.ID = c.Param("id")

	ctx := c.Request.Context()
	applied, err := h.catalog.UpdateMesh(ctx, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !applied {
		h.writeError(c, domain.ErrMeshNotFound)
		return
	}

	m, err := h.catalog.GetMesh(ctx, req.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DeleteMesh handles DELETE /meshes/:id
func (h *Handler) DeleteMesh(c *gin.Context) {
	if !h.catalog.DeleteMesh(c.Request.Context(), c.Param("id")) {
		h.writeError(c, domain.ErrMeshNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// Compare handles POST /compare
func (h *Handler) Compare(c *gin.Context) {
	var req domain.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	criterion, err := usecase.ParseCriterion(string(req.Criterion))
	if err != nil {
		h.writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	meshes := make([]domain.Mesh, 0, len(req.MeshIDs))
	for _, id := range req.MeshIDs {
		m, err := h.catalog.GetMesh(ctx, id)
		if err != nil {
			h.writeError(c, fmt.Errorf("%w: %s", err, id))
			return
		}
		meshes = append(meshes, m)
	}

	metrics, err := h.comparison.Compare(ctx, meshes, criterion)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"criterion": criterion,
		"metrics":   metrics,
	})
}

// Extract handles POST /extractions: a multipart upload with "file" and
// "kind" fields. The response is a preview; nothing is written to the catalog.
func (h *Handler) Extract(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: bad multipart form: " + err.Error()})
		return
	}

	kind := domain.CandidateKind(strings.TrimSpace(c.PostForm("kind")))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request: unknown kind %q", kind)})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: missing file: " + err.Error()})
		return
	}

	data, err := readUpload(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	outcome, err := h.extraction.Extract(c.Request.Context(), domain.ExtractionRequest{
		Kind:     kind,
		FileName: fh.Filename,
		MIMEType: fh.Header.Get("Content-Type"),
		Data:     data,
		ClientID: clientID(c),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source":     outcome.Source,
		"generation": outcome.Generation,
		"mode":       usecase.DefaultMode(kind),
		"kind":       outcome.Normalized.Kind,
		"records":    outcome.Normalized.Records,
		"skipped":    outcome.Normalized.Skipped,
	})
}

// Import handles POST /imports
func (h *Handler) Import(c *gin.Context) {
	var body ImportBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	req := body.ImportRequest
	if req.Mode == "" && body.Kind != "" {
		req.Mode = usecase.DefaultMode(body.Kind)
	}

	report, err := h.importer.Apply(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// views joins meshes with their suppliers
func (h *Handler) views(ctx context.Context, meshes []domain.Mesh) []MeshView {
	suppliers := make(map[string]domain.Supplier)
	for _, s := range h.catalog.ListSuppliers(ctx) {
		suppliers[s.ID] = s
	}

	out := make([]MeshView, 0, len(meshes))
	for _, m := range meshes {
		v := MeshView{Mesh: m, Family: usecase.FamilyOf(m)}
		if s, ok := suppliers[m.SupplierID]; ok {
			v.Supplier = &s
		}
		out = append(out, v)
	}
	return out
}

// clientID identifies the caller for the stale-extraction guard: the
// X-Client-ID header when sent, otherwise the client IP
func clientID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(clientIDHeader)); id != "" {
		return id
	}
	return c.ClientIP()
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidCriterion):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrSupplierNotFound), errors.Is(err, domain.ErrMeshNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateCode), errors.Is(err, domain.ErrSupplierInUse),
		errors.Is(err, domain.ErrStaleExtraction):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnsupportedFile):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrExtractionTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrExtractionFailure):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("rid", RequestID(c)).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
