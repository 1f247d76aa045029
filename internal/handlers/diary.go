package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/snapmeal/snapmeal-backend/internal/services"
	"github.com/snapmeal/snapmeal-backend/internal/types"
)

type DiaryHandler struct {
	diaryService services.DiaryService
}

func NewDiaryHandler(diaryService services.DiaryService) *DiaryHandler {
	return &DiaryHandler{diaryService: diaryService}
}

type createDiaryRequest struct {
	User uint   `json:"user" binding:"required"`
	Date string `json:"date" binding:"required"`
}

func (dh *DiaryHandler) Create(c *gin.Context) {
	var req createDiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	diary, err := dh.diaryService.GetOrCreate(c.Request.Context(), req.User, date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, diary)
}

// GetByDate returns a list for compatibility with the original API, which
// exposed this lookup as a filtered list endpoint.
func (dh *DiaryHandler) GetByDate(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	year, err1 := strconv.Atoi(c.Param("year"))
	month, err2 := strconv.Atoi(c.Param("month"))
	day, err3 := strconv.Atoi(c.Param("day"))
	if err1 != nil || err2 != nil || err3 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	diary, err := dh.diaryService.GetByDate(c.Request.Context(), uint(userID), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if diary == nil {
		c.JSON(http.StatusOK, []*types.Diary{})
		return
	}
	c.JSON(http.StatusOK, []*types.Diary{diary})
}
