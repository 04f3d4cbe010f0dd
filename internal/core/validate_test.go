package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr error
	}{
		{
			name:    "empty string",
			raw:     "",
			wantErr: ErrDateRequired,
		},
		{
			name: "dash separated",
			raw:  "2024-01-15",
			want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "slash separated",
			raw:  "2024/01/15",
			want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "single digit components",
			raw:  "2024-1-5",
			want: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "leap day",
			raw:  "2024-02-29",
			want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "day overflow rolls into next month",
			raw:  "2023-02-30",
			want: time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "not a date",
			raw:     "invalid-date",
			wantErr: ErrDateInvalid,
		},
		{
			name:    "missing day",
			raw:     "2024-01",
			wantErr: ErrDateInvalid,
		},
		{
			name:    "two digit year",
			raw:     "24-01-15",
			wantErr: ErrDateInvalid,
		},
		{
			name:    "zero month",
			raw:     "2024-00-15",
			wantErr: ErrDateInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateDate(tt.raw)
			if err != tt.wantErr {
				t.Fatalf("ValidateDate(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
			if tt.wantErr == nil && !got.Equal(tt.want) {
				t.Errorf("ValidateDate(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidateDateIdempotent(t *testing.T) {
	// Pure-function property: the same malformed input fails identically twice.
	_, err1 := ValidateDate("not-a-date")
	_, err2 := ValidateDate("not-a-date")
	if err1 == nil || err2 == nil || err1.Error() != err2.Error() {
		t.Errorf("validation not idempotent: %v vs %v", err1, err2)
	}
}

func TestValidateEntryType(t *testing.T) {
	if _, err := ValidateEntryType("income"); err != nil {
		t.Errorf("income should be valid: %v", err)
	}
	if _, err := ValidateEntryType("expense"); err != nil {
		t.Errorf("expense should be valid: %v", err)
	}
	for _, raw := range []string{"", "Income", "EXPENSE", "transfer", "income "} {
		if _, err := ValidateEntryType(raw); err != ErrTypeInvalid {
			t.Errorf("ValidateEntryType(%q) error = %v, want ErrTypeInvalid", raw, err)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string // JSON literal; "" means the field was absent
		want    int64
		wantErr bool
	}{
		{name: "positive integer", raw: `50000`, want: 50000},
		{name: "one", raw: `1`, want: 1},
		{name: "integral float form", raw: `1500.0`, want: 1500},
		{name: "zero", raw: `0`, wantErr: true},
		{name: "negative", raw: `-100`, wantErr: true},
		{name: "fraction", raw: `99.5`, wantErr: true},
		{name: "numeric string", raw: `"1000"`, wantErr: true},
		{name: "null", raw: `null`, wantErr: true},
		{name: "absent", raw: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw json.RawMessage
			if tt.raw != "" {
				raw = json.RawMessage(tt.raw)
			}
			got, err := ValidateAmount(raw)
			if tt.wantErr {
				if err != ErrAmountInvalid {
					t.Fatalf("ValidateAmount(%s) error = %v, want ErrAmountInvalid", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateAmount(%s) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ValidateAmount(%s) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidateUserIDCreatePath(t *testing.T) {
	if got, err := ValidateUserID(json.RawMessage(`1`)); err != nil || got != 1 {
		t.Errorf("ValidateUserID(1) = %d, %v", got, err)
	}
	// The create path rejects numeric strings; only the query path parses them.
	for _, raw := range []string{`"1"`, `null`, `0`, `true`} {
		if _, err := ValidateUserID(json.RawMessage(raw)); err != ErrUserIDRequired {
			t.Errorf("ValidateUserID(%s) error = %v, want ErrUserIDRequired", raw, err)
		}
	}
	if _, err := ValidateUserID(nil); err != ErrUserIDRequired {
		t.Errorf("absent userId error = %v, want ErrUserIDRequired", err)
	}
}

func TestParseUserIDQueryPath(t *testing.T) {
	if got, err := ParseUserID("42"); err != nil || got != 42 {
		t.Errorf("ParseUserID(42) = %d, %v", got, err)
	}
	if _, err := ParseUserID(""); err != ErrUserIDRequired {
		t.Errorf("empty userId error = %v, want ErrUserIDRequired", err)
	}
	if _, err := ParseUserID("abc"); err != ErrUserIDNotNumeric {
		t.Errorf("non-numeric userId error = %v, want ErrUserIDNotNumeric", err)
	}
}

func TestValidateCategoryID(t *testing.T) {
	id, err := ValidateCategoryID(json.RawMessage(`3`))
	if err != nil || id == nil || *id != 3 {
		t.Errorf("ValidateCategoryID(3) = %v, %v", id, err)
	}
	if id, err := ValidateCategoryID(nil); err != nil || id != nil {
		t.Errorf("absent categoryId = %v, %v, want nil, nil", id, err)
	}
	// Zero is falsy in the original API and normalizes to uncategorized.
	if id, err := ValidateCategoryID(json.RawMessage(`0`)); err != nil || id != nil {
		t.Errorf("zero categoryId = %v, %v, want nil, nil", id, err)
	}
	if _, err := ValidateCategoryID(json.RawMessage(`"3"`)); err != ErrCategoryIDInvalid {
		t.Errorf("string categoryId error = %v, want ErrCategoryIDInvalid", err)
	}
}

func TestValidateYearMonth(t *testing.T) {
	tests := []struct {
		raw       string
		wantYear  int
		wantMonth int
		wantErr   bool
	}{
		{raw: "2024-01", wantYear: 2024, wantMonth: 1},
		{raw: "2024-12", wantYear: 2024, wantMonth: 12},
		{raw: "2024-13", wantErr: true}, // digits match, month out of range
		{raw: "2024-00", wantErr: true},
		{raw: "2024-1", wantErr: true},
		{raw: "24-01", wantErr: true},
		{raw: "2024/01", wantErr: true},
		{raw: "2024-01-15", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			year, month, err := ValidateYearMonth(tt.raw)
			if tt.wantErr {
				if err != ErrYearMonthInvalid {
					t.Fatalf("ValidateYearMonth(%q) error = %v, want ErrYearMonthInvalid", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateYearMonth(%q) unexpected error: %v", tt.raw, err)
			}
			if year != tt.wantYear || month != tt.wantMonth {
				t.Errorf("ValidateYearMonth(%q) = %d, %d, want %d, %d", tt.raw, year, month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
		wantErr   error
	}{
		{name: "defaults", page: "", limit: "", wantPage: 1, wantLimit: 50},
		{name: "explicit", page: "2", limit: "10", wantPage: 2, wantLimit: 10},
		{name: "limit at max", page: "1", limit: "100", wantPage: 1, wantLimit: 100},
		{name: "page zero", page: "0", wantErr: ErrPageInvalid},
		{name: "page negative", page: "-1", wantErr: ErrPageInvalid},
		{name: "page not a number", page: "abc", wantErr: ErrPageInvalid},
		{name: "limit zero", limit: "0", wantErr: ErrLimitInvalid},
		{name: "limit over max", limit: "101", wantErr: ErrLimitInvalid},
		{name: "limit not a number", limit: "many", wantErr: ErrLimitInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit, err := ParsePagination(tt.page, tt.limit)
			if err != tt.wantErr {
				t.Fatalf("ParsePagination(%q, %q) error = %v, want %v", tt.page, tt.limit, err, tt.wantErr)
			}
			if tt.wantErr == nil && (page != tt.wantPage || limit != tt.wantLimit) {
				t.Errorf("ParsePagination(%q, %q) = %d, %d, want %d, %d", tt.page, tt.limit, page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestEntryInputValidateOrder(t *testing.T) {
	// The first failing field wins, in the order date, type, amount, userId.
	tests := []struct {
		name  string
		input EntryInput
		want  *ValidationError
	}{
		{
			name:  "everything missing reports date first",
			input: EntryInput{},
			want:  ErrDateRequired,
		},
		{
			name:  "bad type before bad amount",
			input: EntryInput{Date: "2024-01-15", Type: "transfer", Amount: json.RawMessage(`0`)},
			want:  ErrTypeInvalid,
		},
		{
			name:  "bad amount before missing userId",
			input: EntryInput{Date: "2024-01-15", Type: "income", Amount: json.RawMessage(`0`)},
			want:  ErrAmountInvalid,
		},
		{
			name:  "missing userId last",
			input: EntryInput{Date: "2024-01-15", Type: "income", Amount: json.RawMessage(`100`)},
			want:  ErrUserIDRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.input.Validate()
			if err != error(tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEntryInputValidateNormalizes(t *testing.T) {
	note := "給料"
	in := EntryInput{
		Date:   "2024-01-15",
		Type:   "income",
		Amount: json.RawMessage(`50000`),
		Note:   &note,
		UserID: json.RawMessage(`1`),
	}
	got, err := in.Validate()
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if got.Type != Income || got.Amount != 50000 || got.UserID != 1 {
		t.Errorf("unexpected entry: %+v", got)
	}
	if got.CategoryID != nil {
		t.Errorf("categoryId should normalize to nil, got %v", *got.CategoryID)
	}
	if got.Note == nil || *got.Note != "給料" {
		t.Errorf("note not preserved: %v", got.Note)
	}
	if !got.Date.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date not normalized to midnight UTC: %v", got.Date)
	}

	empty := ""
	in.Note = &empty
	got, err = in.Validate()
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if got.Note != nil {
		t.Errorf("empty note should normalize to nil, got %q", *got.Note)
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		month    int
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			name:     "31 day month",
			year:     2024,
			month:    1,
			wantFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2024, 1, 31, 23, 59, 59, 999000000, time.UTC),
		},
		{
			name:     "leap february",
			year:     2024,
			month:    2,
			wantFrom: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2024, 2, 29, 23, 59, 59, 999000000, time.UTC),
		},
		{
			name:     "non-leap february",
			year:     2023,
			month:    2,
			wantFrom: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2023, 2, 28, 23, 59, 59, 999000000, time.UTC),
		},
		{
			name:     "december wraps the year",
			year:     2024,
			month:    12,
			wantFrom: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2024, 12, 31, 23, 59, 59, 999000000, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := MonthRange(tt.year, tt.month)
			if !r.From.Equal(tt.wantFrom) || !r.To.Equal(tt.wantTo) {
				t.Errorf("MonthRange(%d, %d) = [%v, %v], want [%v, %v]",
					tt.year, tt.month, r.From, r.To, tt.wantFrom, tt.wantTo)
			}
			if !r.Contains(r.From) || !r.Contains(r.To) {
				t.Error("range should contain its own bounds")
			}
			if r.Contains(r.To.Add(time.Millisecond)) {
				t.Error("range should exclude the next month's first instant")
			}
		})
	}
}

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		total    int
		want     PageInfo
	}{
		{
			name:  "second of two pages",
			page:  2,
			limit: 10,
			total: 15,
			want:  PageInfo{CurrentPage: 2, TotalPages: 2, TotalCount: 15, Limit: 10, HasNextPage: false, HasPrevPage: true},
		},
		{
			name:  "first of many",
			page:  1,
			limit: 50,
			total: 120,
			want:  PageInfo{CurrentPage: 1, TotalPages: 3, TotalCount: 120, Limit: 50, HasNextPage: true, HasPrevPage: false},
		},
		{
			name:  "empty result",
			page:  1,
			limit: 50,
			total: 0,
			want:  PageInfo{CurrentPage: 1, TotalPages: 0, TotalCount: 0, Limit: 50, HasNextPage: false, HasPrevPage: false},
		},
		{
			name:  "exact multiple",
			page:  2,
			limit: 5,
			total: 10,
			want:  PageInfo{CurrentPage: 2, TotalPages: 2, TotalCount: 10, Limit: 5, HasNextPage: false, HasPrevPage: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPageInfo(tt.page, tt.limit, tt.total); got != tt.want {
				t.Errorf("NewPageInfo(%d, %d, %d) = %+v, want %+v", tt.page, tt.limit, tt.total, got, tt.want)
			}
		})
	}
}
