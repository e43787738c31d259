package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// --- API 响应模型 ---

// ComparisonRowResponse 是展示适配层的输出：
// 一行对比数据加上各类别的领先标记。
type ComparisonRowResponse struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`

	Tarawih  int `json:"tarawih"`
	Sunan    int `json:"sunan"`
	Witr     int `json:"witr"`
	Azkar    int `json:"azkar"`
	Reading  int `json:"reading"`
	Mudarasa int `json:"mudarasa"`

	TotalDays int `json:"totalDays"`

	// Leaders 逐类别标记该行是否持有当前最大值。
	// 并列最大值时多行同时为true。
	Leaders map[Category]bool `json:"leaders"`
}

type ComparisonResponse struct {
	// Mode 为 "all" 或具体的类别ID
	Mode       string                  `json:"mode"`
	TotalUsers int                     `json:"totalUsers"`
	Maxima     map[Category]int        `json:"maxima"`
	Rows       []ComparisonRowResponse `json:"rows"`
}

// formatRow 把一行对比数据映射为API行，计算领先标记。
func formatRow(row ComparisonRow, rank int, maxima map[Category]int) ComparisonRowResponse {
	leaders := make(map[Category]bool, len(Categories))
	for _, cat := range Categories {
		leaders[cat] = IsLeader(row, cat, maxima)
	}
	return ComparisonRowResponse{
		Rank:        rank,
		UserID:      row.UserID,
		DisplayName: row.DisplayName,
		Tarawih:     row.Tarawih,
		Sunan:       row.Sunan,
		Witr:        row.Witr,
		Azkar:       row.Azkar,
		Reading:     row.Reading,
		Mudarasa:    row.Mudarasa,
		TotalDays:   row.TotalDays,
		Leaders:     leaders,
	}
}

// --- 控制器函数 ---

// ComparisonHandler 返回排好序的全局对比表。
// 不带category参数时为综合模式；带合法的类别ID时按该类别排序。
func ComparisonHandler(c *gin.Context) {
	mode := RankAll()
	modeName := "all"
	if catParam := c.Query("category"); catParam != "" {
		cat, ok := ParseCategory(catParam)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "未知的类别: " + catParam})
			return
		}
		mode = RankBy(cat)
		modeName = catParam
	}

	rows, maxima, err := GetComparison()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取对比数据失败"})
		return
	}

	SortRows(rows, mode)

	response := ComparisonResponse{
		Mode:       modeName,
		TotalUsers: len(rows),
		Maxima:     maxima,
		Rows:       make([]ComparisonRowResponse, 0, len(rows)),
	}
	for i, row := range rows {
		response.Rows = append(response.Rows, formatRow(row, i+1, maxima))
	}

	c.JSON(http.StatusOK, response)
}
