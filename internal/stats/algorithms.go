package stats

import (
	"sort"

	"github.com/SlpAus/ramadan-tracker-backend/internal/profile"
	"github.com/SlpAus/ramadan-tracker-backend/internal/tracker"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// BuildComparison 把全部用户档案和全部每日条目折算成对比行集合。
//
// 过程分三步：
//  1. 为每个档案初始化一个全零累加器（保证条目只会记到已注册用户头上）；
//  2. 遍历条目，按用户ID累加各类别；找不到归属档案的条目不计入任何人，
//     只计数返回给调用方决定如何告警；
//  3. 过滤掉没有任何记录的用户，并统计幸存行的各类别最大值。
//
// 返回的行集合未排序，排序由SortRows按当前模式单独完成。
func BuildComparison(profiles []profile.Profile, entries []tracker.DailyEntry) (rows []ComparisonRow, maxima map[Category]int, orphaned int) {
	// 1. 零初始化累加器
	accumulators := make(map[string]*ComparisonRow, len(profiles))
	for _, p := range profiles {
		accumulators[p.ID] = &ComparisonRow{
			UserID:      p.ID,
			DisplayName: p.Name(),
		}
	}

	// 2. 累加条目
	for _, e := range entries {
		acc, ok := accumulators[e.UserID]
		if !ok {
			orphaned++
			continue
		}
		acc.TotalDays++
		if e.Tarawih {
			acc.Tarawih++
		}
		if e.Sunan {
			acc.Sunan++
		}
		if e.Witr {
			acc.Witr++
		}
		if e.Azkar {
			acc.Azkar++
		}
		acc.Reading += e.Reading
		acc.Mudarasa += e.Mudarasa
	}

	// 3. 过滤空行并统计最大值
	rows = make([]ComparisonRow, 0, len(accumulators))
	maxima = make(map[Category]int, len(Categories))
	for _, acc := range accumulators {
		if acc.TotalDays == 0 {
			continue
		}
		rows = append(rows, *acc)
		for _, cat := range Categories {
			if v := acc.Value(cat); v > maxima[cat] {
				maxima[cat] = v
			}
		}
	}

	return rows, maxima, orphaned
}

// lessFor 是唯一的比较器选择点：根据排序模式返回对应的less函数。
//
// 综合模式：总天数降序，展示名（按区域感知排序规则）升序。
// 单类别模式：类别值降序，总天数降序，展示名升序。
// 两种模式最后都以用户ID升序兜底，使排序成为全序，结果可复现。
func lessFor(mode RankingMode, col *collate.Collator) func(a, b ComparisonRow) bool {
	byName := func(a, b ComparisonRow) bool {
		if cmp := col.CompareString(a.DisplayName, b.DisplayName); cmp != 0 {
			return cmp < 0
		}
		return a.UserID < b.UserID
	}

	if cat, ok := mode.Category(); ok {
		return func(a, b ComparisonRow) bool {
			if a.Value(cat) != b.Value(cat) {
				return a.Value(cat) > b.Value(cat)
			}
			if a.TotalDays != b.TotalDays {
				return a.TotalDays > b.TotalDays
			}
			return byName(a, b)
		}
	}

	return func(a, b ComparisonRow) bool {
		if a.TotalDays != b.TotalDays {
			return a.TotalDays > b.TotalDays
		}
		return byName(a, b)
	}
}

// SortRows 按指定模式就地重排已计算的对比行。
// 它从不重新计算任何累计值——各类别的和与模式无关。
func SortRows(rows []ComparisonRow, mode RankingMode) {
	// 展示名可能是阿拉伯文、拉丁文或其他文字，
	// 用Unicode默认排序规则而不是字节序比较
	col := collate.New(language.Und)
	less := lessFor(mode, col)
	sort.SliceStable(rows, func(i, j int) bool {
		return less(rows[i], rows[j])
	})
}

// IsLeader 判断某行是否是指定类别的领先者。
// 最大值为零时没有领先者；并列最大值的行同时领先。
func IsLeader(row ComparisonRow, cat Category, maxima map[Category]int) bool {
	max := maxima[cat]
	return max > 0 && row.Value(cat) == max
}
