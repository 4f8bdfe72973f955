// Package week はISO週番号と日付範囲の変換を提供する。
package week

import "time"

// Days は指定したISO年・週番号の月曜から日曜までの7日間を返す。
// 純粋関数であり、タイムゾーンはUTC固定とする。
func Days(year, wk int) [7]time.Time {
	// ISO 8601ではその年の1月4日は必ず第1週に含まれる。
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)

	// 1月4日の属する週の月曜日を求める。
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7 // Sundayを7として扱う
	}
	firstMonday := jan4.AddDate(0, 0, -(weekday - 1))

	monday := firstMonday.AddDate(0, 0, (wk-1)*7)

	var days [7]time.Time
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// Range は指定したISO年・週番号の最初の日（月曜）と最後の日（日曜）を返す。
func Range(year, wk int) (time.Time, time.Time) {
	days := Days(year, wk)
	return days[0], days[6]
}

// Valid は週番号が指定年のISO週として有効かを返す。
// 第53週は53週ある年（その年の12月31日または1月4日基準）のみ有効。
func Valid(year, wk int) bool {
	if wk < 1 || wk > 53 {
		return false
	}
	if wk == 53 {
		y, w := Days(year, 53)[0].ISOWeek()
		return y == year && w == 53
	}
	return true
}
