package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/house/internal/events"
	"github.com/monocle-dev/house/internal/models"
	"github.com/monocle-dev/house/internal/storage"
	"github.com/monocle-dev/house/internal/types"
	"github.com/monocle-dev/house/internal/utils"
	"gorm.io/datatypes"
)

func (h *Handler) removeFiles(ctx *gin.Context, files []string) {
	for _, f := range files {
		if err := h.store.Delete(ctx.Request.Context(), f); err != nil {
			log.Printf("Failed to remove media file %s: %v", f, err)
		}
	}
}

// multipartOverhead covers boundaries and part headers around the file.
const multipartOverhead = 64 << 10

// formFile returns the named multipart file after the size check. The body
// is capped before parsing so oversized uploads are cut off early.
func (h *Handler) formFile(ctx *gin.Context, field string) (*multipart.FileHeader, bool) {
	tooLarge := map[string]string{
		field: fmt.Sprintf("File is larger than %d bytes.", h.media.MaxUploadBytes),
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, h.media.MaxUploadBytes+multipartOverhead)
	header, err := ctx.FormFile(field)

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		utils.ValidationError(ctx, tooLarge)
		return nil, false
	case err != nil:
		utils.ValidationError(ctx, map[string]string{field: "No file was submitted."})
		return nil, false
	}

	if header.Size > h.media.MaxUploadBytes {
		utils.ValidationError(ctx, tooLarge)
		return nil, false
	}

	return header, true
}

func fileMetadata(header *multipart.FileHeader) datatypes.JSONMap {
	return datatypes.JSONMap{
		"original_name": header.Filename,
		"content_type":  header.Header.Get("Content-Type"),
		"size":          header.Size,
	}
}

func (h *Handler) UploadImage(ctx *gin.Context) {
	property, ok := h.ownedProperty(ctx)
	if !ok {
		return
	}

	header, ok := h.formFile(ctx, "image")
	if !ok {
		return
	}

	file, err := header.Open()

	if err != nil {
		utils.InternalError(ctx, "Failed to open upload", err)
		return
	}
	defer file.Close()

	info, content, err := storage.InspectImage(header.Filename, file)

	if err != nil {
		utils.ValidationError(ctx, map[string]string{"image": storage.ErrUnsupportedImage.Error()})
		return
	}

	metadata := fileMetadata(header)
	metadata["format"] = info.Format
	metadata["width"] = info.Width
	metadata["height"] = info.Height

	path, ok := h.saveUpload(ctx, storage.ImageDir, header.Filename, content)
	if !ok {
		return
	}

	image := models.PropertyImage{PropertyID: property.ID, Image: path, Metadata: metadata}

	if err := h.properties.AddImage(ctx.Request.Context(), &image); err != nil {
		h.removeFiles(ctx, []string{path})
		utils.RepositoryError(ctx, "Failed to save image", err)
		return
	}

	h.publish(events.PropertyUpdated, property)
	ctx.JSON(http.StatusCreated, types.NewImageResponse(image, h.store.URL))
}

func (h *Handler) UploadDocument(ctx *gin.Context) {
	property, ok := h.ownedProperty(ctx)
	if !ok {
		return
	}

	header, ok := h.formFile(ctx, "file")
	if !ok {
		return
	}

	file, err := header.Open()

	if err != nil {
		utils.InternalError(ctx, "Failed to open upload", err)
		return
	}
	defer file.Close()

	path, ok := h.saveUpload(ctx, storage.DocumentDir, header.Filename, file)
	if !ok {
		return
	}

	doc := models.PropertyDocument{PropertyID: property.ID, File: path, Metadata: fileMetadata(header)}

	if err := h.properties.AddDocument(ctx.Request.Context(), &doc); err != nil {
		h.removeFiles(ctx, []string{path})
		utils.RepositoryError(ctx, "Failed to save document", err)
		return
	}

	h.publish(events.PropertyUpdated, property)
	ctx.JSON(http.StatusCreated, types.NewDocumentResponse(doc, h.store.URL))
}

func (h *Handler) saveUpload(ctx *gin.Context, dir, filename string, r io.Reader) (string, bool) {
	path, err := h.store.Save(ctx.Request.Context(), dir, filename, r)

	if err != nil {
		if errors.Is(err, storage.ErrInvalidPath) {
			utils.ValidationError(ctx, map[string]string{"file": "Invalid file name."})
			return "", false
		}
		utils.InternalError(ctx, "Failed to store upload", err)
		return "", false
	}

	return path, true
}

func (h *Handler) DeleteImage(ctx *gin.Context) {
	property, ok := h.ownedProperty(ctx)
	if !ok {
		return
	}

	imageID, ok := h.pathID(ctx, "image_id")
	if !ok {
		return
	}

	path, err := h.properties.DeleteImage(ctx.Request.Context(), property.ID, imageID)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to delete image", err)
		return
	}

	h.removeFiles(ctx, []string{path})
	h.publish(events.PropertyUpdated, property)
	ctx.Status(http.StatusNoContent)
}

func (h *Handler) DeleteDocument(ctx *gin.Context) {
	property, ok := h.ownedProperty(ctx)
	if !ok {
		return
	}

	documentID, ok := h.pathID(ctx, "document_id")
	if !ok {
		return
	}

	path, err := h.properties.DeleteDocument(ctx.Request.Context(), property.ID, documentID)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to delete document", err)
		return
	}

	h.removeFiles(ctx, []string{path})
	h.publish(events.PropertyUpdated, property)
	ctx.Status(http.StatusNoContent)
}
