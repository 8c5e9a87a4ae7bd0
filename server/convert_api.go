package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"dicom2png/constants"
	"dicom2png/convert"
	"dicom2png/entities"
	"dicom2png/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ConvertAPI struct {
	store  *storage.MinIOStorage
	logger *zap.Logger
}

func NewConvertAPI(store *storage.MinIOStorage, logger *zap.Logger) (app *ConvertAPI) {
	app = &ConvertAPI{
		store:  store,
		logger: logger,
	}
	return app
}

func (app *ConvertAPI) InitRoute(engine *gin.Engine, path string) {
	group := engine.Group(path)
	group.POST("", app.CreateConversion)
	group.GET("/:name", app.FetchConversion)
}

// CreateConversion converts the posted DICOM object. By default it
// streams the PNG back; with ?store=true and storage configured it
// uploads the PNG and returns its record instead.
func (app *ConvertAPI) CreateConversion(c *gin.Context) {
	resp := entities.NewResponse()

	raw, err := readDicomBody(c)
	if err != nil || len(raw) == 0 {
		resp.ErrorCode = constants.ServerInvalidData
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	id := uuid.New().String()

	res, err := convert.Convert(raw)
	if err != nil {
		app.logger.Warn("conversion failed",
			zap.String("conversion_id", id),
			zap.Error(err))
		resp.ErrorCode = errorCode(err)
		resp.Meta = &map[string]interface{}{"error": err.Error()}
		c.JSON(httpStatus(err), resp)
		return
	}

	app.logger.Info("converted",
		zap.String("conversion_id", id),
		zap.String("name", res.Name),
		zap.Int("png_bytes", len(res.PNG)))

	if c.Query(constants.ParamStore) == "true" && app.store != nil {
		if err := app.store.StoreFile(res.Name, res.PNG); err != nil {
			app.logger.Error("store conversion", zap.String("name", res.Name), zap.Error(err))
			resp.ErrorCode = constants.ServerError
			c.JSON(http.StatusInternalServerError, resp)
			return
		}
		resp.Data = &entities.Conversion{
			ID:             id,
			Name:           res.Name,
			PatientID:      res.PatientID,
			SOPInstanceUID: res.SOPInstanceUID,
			Size:           len(res.PNG),
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Name))
	c.Data(http.StatusOK, "image/png", res.PNG)
}

// FetchConversion serves a previously stored PNG by its output name.
func (app *ConvertAPI) FetchConversion(c *gin.Context) {
	resp := entities.NewResponse()

	name := c.Param(constants.ParamName)
	if name == "" {
		resp.ErrorCode = constants.ServerInvalidData
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	if app.store == nil {
		resp.ErrorCode = constants.ServerError
		c.JSON(http.StatusNotImplemented, resp)
		return
	}

	obj, err := app.store.DownloadFile(name)
	if err != nil {
		resp.ErrorCode = constants.ServerError
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	defer obj.Close()

	// GetObject is lazy; missing objects surface on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		resp.ErrorCode = constants.ServerNotFound
		c.JSON(http.StatusNotFound, resp)
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

// readDicomBody accepts either a raw DICOM body or a multipart upload
// with a "file" field.
func readDicomBody(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request.Body)
}

func errorCode(err error) int {
	if errors.Is(err, convert.ErrEncoding) {
		return constants.ServerError
	}
	return constants.ServerInvalidData
}

// httpStatus maps the deterministic data-validity kinds to 400 and the
// codec fault to 500.
func httpStatus(err error) int {
	if errors.Is(err, convert.ErrEncoding) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}
