// Package chat provides HTTP handlers for asking the AI questions about a
// stored CV.
package chat

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sudais391/hirezy-project/internal/ats"
	"github.com/sudais391/hirezy-project/internal/database"
	"github.com/sudais391/hirezy-project/internal/model"
	"github.com/sudais391/hirezy-project/internal/service"
	"github.com/sudais391/hirezy-project/internal/utilities"
)

// ChatController handles CV question answering endpoints
type ChatController struct {
	DB  *database.DBinstanceStruct
	CVs *service.CVService
	AI  *ats.Client
}

// NewChatController creates a new instance of ChatController
func NewChatController(db *database.DBinstanceStruct, ai *ats.Client) *ChatController {
	return &ChatController{
		DB:  db,
		CVs: service.NewCVService(db),
		AI:  ai,
	}
}

type questionInfo struct {
	Question string `json:"question" binding:"required"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

func (cc *ChatController) answer(c *gin.Context, cvData []byte, question string) {
	text, err := ats.ExtractText(cvData)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to read PDF: %s", err.Error()),
		})
		return
	}

	answer, err := cc.AI.AskAboutCV(c.Request.Context(), text, question)
	if err != nil {
		c.JSON(http.StatusBadGateway, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to get answer: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, answerResponse{Answer: answer})
}

// AskHandler answers a question about one of the requesting user's CVs.
// @Summary Ask a question about one of your CVs
// @Tags Chat
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the CV"
// @Param Info body questionInfo true "The question"
// @Success 200 {object} answerResponse "The model's answer"
// @Failure 400 {object} utilities.ErrorResponse "Invalid body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "CV not found"
// @Failure 502 {object} utilities.ErrorResponse "Model failure"
// @Router /user/cv/{id}/chat [post]
func (cc *ChatController) AskHandler(c *gin.Context) {
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

	var info questionInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "question must be provided"})
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

	cc.answer(c, cv.Data, info.Question)
}

// AskSubmissionHandler answers a question about a CV submitted to one of
// the requesting recruiter's jobs.
// @Summary Ask a question about a submitted CV
// @Tags Chat
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the submission"
// @Param Info body questionInfo true "The question"
// @Success 200 {object} answerResponse "The model's answer"
// @Failure 400 {object} utilities.ErrorResponse "Invalid body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Resume not found"
// @Failure 502 {object} utilities.ErrorResponse "Model failure"
// @Router /hr/resumes/{id}/chat [post]
func (cc *ChatController) AskSubmissionHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	resumeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid resume id"})
		return
	}

	var info questionInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "question must be provided"})
		return
	}

	var resume model.Resume
	err = cc.DB.
		Joins("JOIN jobs ON jobs.id = resumes.job_id").
		Where("resumes.id = ? AND jobs.hr_id = ?", resumeID, user.ID).
		First(&resume).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Resume not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve resume: %s", err.Error()),
		})
		return
	}

	cv, err := cc.CVs.Get(resume.CVID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve CV: %s", err.Error()),
		})
		return
	}

	cc.answer(c, cv.Data, info.Question)
}
