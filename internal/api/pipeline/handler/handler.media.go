package pipelinehdl

import (
	"strings"

	basehdl "github.com/Naim3097/X.IDE-CMS/internal/api/base/handler"
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/dto"
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/models"
	pipelinesvc "github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/service"
	"github.com/Naim3097/X.IDE-CMS/internal/blobstore"
	"github.com/Naim3097/X.IDE-CMS/internal/common"
	"github.com/Naim3097/X.IDE-CMS/internal/global"
	"github.com/Naim3097/X.IDE-CMS/internal/logger"
	"github.com/Naim3097/X.IDE-CMS/internal/utility"

	"github.com/gofiber/fiber/v3"
)

// MediaHandler xử lý upload media cho content piece.
// Engine không đọc nội dung file, chỉ đẩy bytes vào blob store và trả về
// cặp (địa chỉ, loại) để agency gắn vào work snapshot.
type MediaHandler struct {
	Blob         blobstore.BlobStore
	PieceService *pipelinesvc.ContentPieceService
}

// NewMediaHandler tạo MediaHandler mới trên global.Blob và global.Store.
func NewMediaHandler() *MediaHandler {
	return &MediaHandler{
		Blob:         global.Blob,
		PieceService: pipelinesvc.NewContentPieceService(global.Store),
	}
}

// mediaTypeOf suy loại media từ Content-Type của file upload.
func mediaTypeOf(contentType string) (string, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaTypeImage, true
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaTypeVideo, true
	default:
		return "", false
	}
}

// HandleUploadMedia xử lý POST /content/pieces/:id/media (agency).
// Nhận multipart field "file", lưu vào blob store theo đường dẫn
// content/{pieceId}/{timestamp}_{tên gốc} và trả về MediaUploadResult.
func (h *MediaHandler) HandleUploadMedia(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := requirePieceID(c)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}

		// Piece phải tồn tại và không mồ côi trước khi nhận media
		detail, err := h.PieceService.GetByID(c.Context(), id)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		if detail.Orphaned {
			basehdl.WriteResponse(c, nil, common.NewError(common.ErrCodeBusinessState,
				"Content piece không còn thuộc kỳ kế hoạch nào, chỉ có thể xem", common.StatusConflict, nil))
			return nil
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			basehdl.WriteResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
				"Thiếu file upload (field \"file\")", common.StatusBadRequest, err.Error()))
			return nil
		}

		contentType := fileHeader.Header.Get("Content-Type")
		mediaType, ok := mediaTypeOf(contentType)
		if !ok {
			basehdl.WriteResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
				"Chỉ chấp nhận file ảnh hoặc video", common.StatusBadRequest,
				map[string]interface{}{"contentType": contentType}))
			return nil
		}

		file, err := fileHeader.Open()
		if err != nil {
			basehdl.WriteResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
				"Không đọc được file upload", common.StatusBadRequest, err.Error()))
			return nil
		}
		defer file.Close()

		path := blobstore.BuildMediaPath(id, fileHeader.Filename)
		address, err := h.Blob.Save(c.Context(), path, contentType, file)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}

		logger.WithRequest(c).WithFields(map[string]interface{}{
			"pieceId":  id,
			"path":     path,
			"fileSize": utility.FormatBytes(uint64(fileHeader.Size)),
		}).Info("✅ Đã upload media cho content piece")

		basehdl.WriteResponse(c, &dto.MediaUploadResult{
			URL:      address,
			Type:     mediaType,
			FileName: fileHeader.Filename,
			Size:     fileHeader.Size,
		}, nil)
		return nil
	})
}
