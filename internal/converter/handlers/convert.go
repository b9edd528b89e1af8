package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"map-extractor/internal/common/middleware"
	"map-extractor/internal/converter/idmap"
	"map-extractor/internal/converter/mapper"
	"map-extractor/internal/converter/models"
	"map-extractor/internal/converter/output"
	"map-extractor/internal/converter/store"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Map Handler
// ============================================================

type MapHandler struct {
	processor *mapper.Processor
	repo      *store.Repository
	files     *store.FileStorage
	log       *zap.Logger
}

func NewMapHandler(processor *mapper.Processor, repo *store.Repository, files *store.FileStorage, log *zap.Logger) *MapHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MapHandler{
		processor: processor,
		repo:      repo,
		files:     files,
		log:       log,
	}
}

// Register mounts the map routes on r.
func (h *MapHandler) Register(r fiber.Router) {
	r.Post("/convert", h.Convert)
	r.Get("/maps", h.List)
	r.Get("/maps/:id", h.Get)
	r.Get("/maps/:id/source", h.Source)
	r.Delete("/maps/:id", h.Delete)
}

// Convert extracts a Map from the uploaded "svg" file, using the optional
// "idmap" file as the label remap table, and stores the result.
func (h *MapHandler) Convert(c fiber.Ctx) error {
	log := h.log.With(zap.String("request_id", middleware.GetRequestID(c)))

	format, err := output.ParseFormat(c.Query("format"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	svgHeader, err := c.FormFile("svg")
	if err != nil {
		log.Debug("missing svg part", zap.Error(err))
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "file \"svg\" required in multipart/form-data",
		})
	}
	svg, err := readPart(svgHeader)
	if err != nil {
		log.Error("read svg part", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	var (
		rawIDs []byte
		ids    idmap.Table
	)
	if idHeader, err := c.FormFile("idmap"); err == nil {
		if rawIDs, err = readPart(idHeader); err != nil {
			log.Error("read idmap part", zap.Error(err))
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
		}
		if ids, err = idmap.Decode(bytes.NewReader(rawIDs), idHeader.Filename); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	log.Info("converting map",
		zap.String("file", svgHeader.Filename),
		zap.Int("bytes", len(svg)),
		zap.Int("id_mappings", len(ids)))

	m, err := h.processor.Process(bytes.NewReader(svg), ids)
	if err != nil {
		log.Warn("conversion failed", zap.String("file", svgHeader.Filename), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	rec, err := h.repo.Save(context.Background(), svgHeader.Filename, m)
	if err != nil {
		log.Error("store map", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store map"})
	}
	if err := h.files.SaveSources(rec.ID, svg, rawIDs); err != nil {
		log.Error("archive sources", zap.String("map_id", rec.ID), zap.Error(err))
		h.discard(rec.ID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store map"})
	}

	summary := m.Summary()
	log.Info("conversion successful",
		zap.String("map_id", rec.ID),
		zap.Int("provinces", summary.Provinces),
		zap.Int("supply_centers", summary.SupplyCenters),
		zap.Int("labels", summary.Labels))

	c.Set(middleware.HeaderMapID, rec.ID)
	return send(c, m, format)
}

// List returns stored conversions, newest first.
func (h *MapHandler) List(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	records, err := h.repo.List(context.Background(), limit)
	if err != nil {
		h.log.Error("list maps", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list maps"})
	}
	return c.JSON(records)
}

// Get returns a stored Map.
func (h *MapHandler) Get(c fiber.Ctx) error {
	format, err := output.ParseFormat(c.Query("format"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	_, m, err := h.repo.Get(context.Background(), c.Params("id"))
	if err != nil {
		return h.storeError(c, err)
	}
	return send(c, m, format)
}

// Source returns the SVG a stored Map was extracted from.
func (h *MapHandler) Source(c fiber.Ctx) error {
	id := c.Params("id")
	if _, _, err := h.repo.Get(context.Background(), id); err != nil {
		return h.storeError(c, err)
	}
	data, err := h.files.ReadSVG(id)
	if err != nil {
		return h.storeError(c, err)
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.Send(data)
}

// Delete removes a stored Map and its sources.
func (h *MapHandler) Delete(c fiber.Ctx) error {
	id := c.Params("id")
	if err := h.repo.Delete(context.Background(), id); err != nil {
		return h.storeError(c, err)
	}
	if err := h.files.Remove(id); err != nil {
		h.log.Warn("remove sources", zap.String("map_id", id), zap.Error(err))
	}
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Helpers
// ============================================================

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func send(c fiber.Ctx, m *models.Map, format output.Format) error {
	var buf bytes.Buffer
	if err := output.Encode(&buf, m, format); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set("Content-Type", format.ContentType())
	return c.Send(buf.Bytes())
}

// discard rolls back a stored conversion whose sources could not be archived.
func (h *MapHandler) discard(id string) {
	if err := h.repo.Delete(context.Background(), id); err != nil {
		h.log.Error("roll back map", zap.String("map_id", id), zap.Error(err))
	}
	if err := h.files.Remove(id); err != nil {
		h.log.Warn("remove partial sources", zap.String("map_id", id), zap.Error(err))
	}
}

func (h *MapHandler) storeError(c fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "map not found"})
	}
	h.log.Error("store lookup", zap.String("map_id", c.Params("id")), zap.Error(err))
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "storage failure"})
}

// statusFor maps extraction errors onto HTTP statuses. Every extraction
// failure describes a defect in the uploaded board.
func statusFor(err error) int {
	for _, target := range []error{
		models.ErrNoSvgElement,
		models.ErrNoViewBox,
		models.ErrLayerNotFound,
		models.ErrTagMismatch,
		models.ErrUnsupportedElement,
		models.ErrPatternMismatch,
		models.ErrMissingChild,
		models.ErrNoCenterFound,
	} {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusBadRequest
}
