package core

import (
	"sort"
)

// UncategorizedLabel is the sentinel category name for expense entries
// without a category.
const UncategorizedLabel = "未分類"

type (
	Totals struct {
		TotalIncome  int64 `json:"totalIncome"`
		TotalExpense int64 `json:"totalExpense"`
		Balance      int64 `json:"balance"`
	}

	// CategoryRollup aggregates the expense entries of one category within
	// a month. CategoryID is nil for the uncategorized group.
	CategoryRollup struct {
		CategoryID   *int64 `json:"categoryId"`
		CategoryName string `json:"categoryName"`
		TotalAmount  int64  `json:"totalAmount"`
		EntryCount   int    `json:"entryCount"`
	}

	// DailyRollup aggregates income and expense per calendar day.
	DailyRollup struct {
		Date    string `json:"date"`
		Income  int64  `json:"income"`
		Expense int64  `json:"expense"`
		Balance int64  `json:"balance"`
	}

	MonthSummary struct {
		Period     string           `json:"period"`
		Summary    Totals           `json:"summary"`
		ByCategory []CategoryRollup `json:"byCategory"`
		Daily      []DailyRollup    `json:"daily"`
	}
)

// Summarize computes the monthly views over a month's entries: overall
// totals, the expense-only category rollup and the per-day rollup. It is
// pure; entries are expected to already be scoped to one user and month.
// An empty month yields zero totals and empty (non-nil) rollup slices.
func Summarize(period string, entries []Entry) MonthSummary {
	s := MonthSummary{
		Period:     period,
		ByCategory: []CategoryRollup{},
		Daily:      []DailyRollup{},
	}

	for _, e := range entries {
		switch e.Type {
		case Income:
			s.Summary.TotalIncome += e.Amount
		case Expense:
			s.Summary.TotalExpense += e.Amount
		}
	}
	s.Summary.Balance = s.Summary.TotalIncome - s.Summary.TotalExpense

	s.ByCategory = rollupByCategory(entries)
	s.Daily = rollupByDay(entries)

	return s
}

// rollupByCategory groups expense entries by category. Income is excluded:
// categorization is an expense-tracking concept. Groups are ordered by
// total amount descending; equal totals keep first-seen group order, which
// is why the grouping uses a slice plus index map instead of map iteration.
func rollupByCategory(entries []Entry) []CategoryRollup {
	groups := []CategoryRollup{}
	index := make(map[int64]int)
	uncategorized := -1

	for _, e := range entries {
		if e.Type != Expense {
			continue
		}

		var at int
		if e.CategoryID == nil {
			if uncategorized < 0 {
				uncategorized = len(groups)
				groups = append(groups, CategoryRollup{CategoryName: UncategorizedLabel})
			}
			at = uncategorized
		} else {
			i, ok := index[*e.CategoryID]
			if !ok {
				i = len(groups)
				index[*e.CategoryID] = i
				name := UncategorizedLabel
				if e.Category != nil {
					name = e.Category.Name
				}
				id := *e.CategoryID
				groups = append(groups, CategoryRollup{CategoryID: &id, CategoryName: name})
			}
			at = i
		}

		groups[at].TotalAmount += e.Amount
		groups[at].EntryCount++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalAmount > groups[j].TotalAmount
	})
	return groups
}

// rollupByDay groups all entries by calendar day (YYYY-MM-DD, UTC) and sorts
// by date string ascending; the fixed-width key makes lexicographic order
// chronological.
func rollupByDay(entries []Entry) []DailyRollup {
	days := []DailyRollup{}
	index := make(map[string]int)

	for _, e := range entries {
		key := e.Date.UTC().Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, DailyRollup{Date: key})
		}
		switch e.Type {
		case Income:
			days[i].Income += e.Amount
		case Expense:
			days[i].Expense += e.Amount
		}
	}

	for i := range days {
		days[i].Balance = days[i].Income - days[i].Expense
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
