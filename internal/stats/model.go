package stats

// Category 标识一个可对比的功课类别。
// 值与daily_tracker的字段名及前端的类别ID保持一致。
type Category string

const (
	CategoryTarawih  Category = "tarawih"
	CategorySunan    Category = "sunan"
	CategoryWitr     Category = "witr"
	CategoryAzkar    Category = "azkar"
	CategoryReading  Category = "reading"
	CategoryMudarasa Category = "mudarasa"
)

// Categories 按展示顺序列出全部类别。
var Categories = []Category{
	CategoryTarawih,
	CategorySunan,
	CategoryWitr,
	CategoryAzkar,
	CategoryReading,
	CategoryMudarasa,
}

// ParseCategory 校验一个类别ID字符串。
func ParseCategory(s string) (Category, bool) {
	for _, cat := range Categories {
		if string(cat) == s {
			return cat, true
		}
	}
	return "", false
}

// ComparisonRow 是聚合引擎为一个用户计算出的一行对比数据。
// 它只在一次聚合过程中存在，每次刷新都整体重建，从不增量修补。
type ComparisonRow struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`

	// 布尔类功课按“完成天数”累加
	Tarawih int `json:"tarawih"`
	Sunan   int `json:"sunan"`
	Witr    int `json:"witr"`
	Azkar   int `json:"azkar"`

	// 计数类功课按数值求和
	Reading  int `json:"reading"`
	Mudarasa int `json:"mudarasa"`

	// TotalDays 是有任何记录的天数
	TotalDays int `json:"totalDays"`
}

// Value 返回该行在指定类别上的累计值。
func (r ComparisonRow) Value(cat Category) int {
	switch cat {
	case CategoryTarawih:
		return r.Tarawih
	case CategorySunan:
		return r.Sunan
	case CategoryWitr:
		return r.Witr
	case CategoryAzkar:
		return r.Azkar
	case CategoryReading:
		return r.Reading
	case CategoryMudarasa:
		return r.Mudarasa
	}
	return 0
}

// RankingMode 是排序模式的带标签变体：
// 要么按总天数的综合模式，要么按单一类别模式。
// 两种模式共用同一套已计算的行数据，切换模式只改变顺序。
type RankingMode struct {
	byCategory bool
	category   Category
}

// RankAll 返回综合模式（主键为总天数）。
func RankAll() RankingMode {
	return RankingMode{}
}

// RankBy 返回按指定类别排序的模式。
func RankBy(cat Category) RankingMode {
	return RankingMode{byCategory: true, category: cat}
}

// Category 返回单类别模式下的类别；综合模式下second返回false。
func (m RankingMode) Category() (Category, bool) {
	return m.category, m.byCategory
}
