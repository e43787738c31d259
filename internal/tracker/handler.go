package tracker

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/config"
	"github.com/SlpAus/ramadan-tracker-backend/internal/profile"
	"github.com/gin-gonic/gin"
)

// --- API 请求/响应模型 ---

type SaveEntryRequestBody struct {
	Day      int  `json:"day" binding:"required"`
	Tarawih  bool `json:"tarawih"`
	Sunan    bool `json:"sunan"`
	Witr     bool `json:"witr"`
	Azkar    bool `json:"azkar"`
	Reading  int  `json:"reading"`
	Mudarasa int  `json:"mudarasa"`
}

type EntryResponse struct {
	Day    int       `json:"day"`
	Record DayRecord `json:"record"`
}

type CampaignResponse struct {
	StartDate  string `json:"startDate"`
	LengthDays int    `json:"lengthDays"`
	CurrentDay int    `json:"currentDay"`
}

// --- 控制器函数 ---

// GetEntryHandler 返回当前用户某一天的记录。
// 没有记录时返回零值记录，而不是404。
func GetEntryHandler(c *gin.Context) {
	day, err := strconv.Atoi(c.Query("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day参数必须是整数"})
		return
	}

	record, err := LoadEntry(profile.CurrentUserID(c), day)
	if err != nil {
		if errors.Is(err, ErrInvalidDay) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "读取记录失败"})
		}
		return
	}

	c.JSON(http.StatusOK, EntryResponse{Day: day, Record: record})
}

// SaveEntryHandler 保存当前用户某一天的记录（插入或更新）。
func SaveEntryHandler(c *gin.Context) {
	var body SaveEntryRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	record := DayRecord{
		Tarawih:  body.Tarawih,
		Sunan:    body.Sunan,
		Witr:     body.Witr,
		Azkar:    body.Azkar,
		Reading:  body.Reading,
		Mudarasa: body.Mudarasa,
	}

	if err := SaveEntry(profile.CurrentUserID(c), body.Day, record); err != nil {
		switch {
		case errors.Is(err, ErrInvalidDay), errors.Is(err, ErrInvalidRecord):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存失败，请稍后重试"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "保存成功"})
}

// SummaryHandler 返回当前用户的活动汇总统计。
func SummaryHandler(c *gin.Context) {
	summary, err := GetUserSummary(profile.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取汇总统计失败"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CampaignHandler 返回活动的基本信息和今天是第几天。
func CampaignHandler(c *gin.Context) {
	cfg := config.Cfg.Campaign
	currentDay, err := cfg.CurrentDay(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "活动配置无效"})
		return
	}
	c.JSON(http.StatusOK, CampaignResponse{
		StartDate:  cfg.StartDate,
		LengthDays: cfg.LengthDays,
		CurrentDay: currentDay,
	})
}
