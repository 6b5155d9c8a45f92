// Package cv provides HTTP handlers for résumé upload, listing, download
// and deletion. Uploads are scored before they are stored.
package cv

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sudais391/hirezy-project/internal/ats"
	"github.com/sudais391/hirezy-project/internal/database"
	"github.com/sudais391/hirezy-project/internal/service"
	"github.com/sudais391/hirezy-project/internal/utilities"
)

// CVController handles CV related endpoints
type CVController struct {
	DB  *database.DBinstanceStruct
	CVs *service.CVService
	AI  *ats.Client
}

// NewCVController creates a new instance of CVController
func NewCVController(db *database.DBinstanceStruct, ai *ats.Client) *CVController {
	return &CVController{
		DB:  db,
		CVs: service.NewCVService(db),
		AI:  ai,
	}
}

type uploadResponse struct {
	ID              uint     `json:"id"`
	FileName        string   `json:"file_name"`
	ATSScore        int      `json:"ats_score"`
	Recommendations []string `json:"recommendations"`
}

type rejectedResponse struct {
	Error           string   `json:"error"`
	ATSScore        int      `json:"ats_score"`
	Recommendations []string `json:"recommendations"`
}

type ungradedResponse struct {
	Error    string `json:"error"`
	RawReply string `json:"raw_reply"`
}

// UploadHandler scores an uploaded PDF and stores it when the overall
// score clears the acceptance gate. A rejected CV is not stored at all;
// the response carries the score and the improvement recommendations.
// @Summary Upload a CV for ATS scoring
// @Description The PDF is scored by the evaluation model; only CVs at or above the acceptance score are stored
// @Tags CV
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param file formData file true "CV in PDF format"
// @Success 201 {object} uploadResponse "CV accepted and stored"
// @Failure 400 {object} utilities.ErrorResponse "Missing file or unreadable PDF"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 413 {object} utilities.ErrorResponse "File too large"
// @Failure 422 {object} rejectedResponse "Score below the acceptance gate, or the evaluation report was unreadable"
// @Failure 502 {object} utilities.ErrorResponse "Evaluation service unreachable"
// @Router /user/cv [post]
func (cc *CVController) UploadHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	rawFile, err := c.FormFile("file")
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
				Error: "Entity too large",
			})
			return
		}
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve file: %s", err.Error()),
		})
		return
	}

	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot open file"})
		return
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot read file"})
		return
	}

	text, err := ats.ExtractText(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to read PDF: %s", err.Error()),
		})
		return
	}

	report, raw, err := cc.AI.Evaluate(c.Request.Context(), text)
	if err != nil {
		// An unreadable report leaves the CV ungraded rather than failing
		// the request outright; the raw reply lets the client show why.
		if errors.Is(err, ats.ErrMalformedReport) {
			c.JSON(http.StatusUnprocessableEntity, ungradedResponse{
				Error:    "Evaluation returned an unreadable report, please try again",
				RawReply: raw,
			})
			return
		}
		c.JSON(http.StatusBadGateway, utilities.ErrorResponse{
			Error: fmt.Sprintf("Evaluation failed: %s", err.Error()),
		})
		return
	}

	id, err := cc.CVs.Add(user.ID, rawFile.Filename, float64(report.OverallScore), report.Recommendations, data)
	switch {
	case err == nil:
		// Do nothing

	case errors.Is(err, service.ErrScoreTooLow):
		c.JSON(http.StatusUnprocessableEntity, rejectedResponse{
			Error:           fmt.Sprintf("CV scored %d, below the acceptance score of %d", report.OverallScore, service.MinAcceptedScore),
			ATSScore:        report.OverallScore,
			Recommendations: report.Recommendations,
		})
		return

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store CV: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, uploadResponse{
		ID:              id,
		FileName:        rawFile.Filename,
		ATSScore:        report.OverallScore,
		Recommendations: report.Recommendations,
	})
}

// ListHandler returns the user's stored CVs without the binary payloads.
// @Summary List the requesting user's CVs
// @Tags CV
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.CVSummary "Stored CVs, newest first"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /user/cv [get]
func (cc *CVController) ListHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	cvs, err := cc.CVs.List(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch CVs: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, cvs)
}

// DownloadHandler streams a CV's PDF back to its owner.
// @Summary Download one of the requesting user's CVs
// @Tags CV
// @Produce application/pdf
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the CV"
// @Success 200 {file} binary "The stored PDF"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "CV not found"
// @Router /user/cv/{id} [get]
func (cc *CVController) DownloadHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	cvID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid CV id"})
		return
	}

	cv, err := cc.CVs.GetOwned(uint(cvID), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "CV not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve CV: %s", err.Error()),
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cv.FileName))
	c.Data(http.StatusOK, "application/pdf", cv.Data)
}

// DeleteHandler removes one of the user's CVs.
// @Summary Delete one of the requesting user's CVs
// @Tags CV
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the CV"
// @Success 200 {object} utilities.MessageResponse "CV deleted"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "CV not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /user/cv/{id} [delete]
func (cc *CVController) DeleteHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	cvID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid CV id"})
		return
	}

	if err := cc.CVs.Delete(uint(cvID), user.ID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "CV not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete CV: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "CV deleted"})
}
