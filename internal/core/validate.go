package core

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValidationError is a client-caused input failure. The message is part of
// the API contract: consumers match on the exact string, so it must stay
// byte-for-byte stable.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrDateRequired      = &ValidationError{Message: "日付は必須です"}
	ErrDateInvalid       = &ValidationError{Message: "日付の形式が正しくありません"}
	ErrTypeInvalid       = &ValidationError{Message: `typeは"income"または"expense"である必要があります`}
	ErrAmountInvalid     = &ValidationError{Message: "金額は正の整数である必要があります"}
	ErrUserIDRequired    = &ValidationError{Message: "ユーザーIDは必須です"}
	ErrUserIDNotNumeric  = &ValidationError{Message: "ユーザーIDは数値である必要があります"}
	ErrCategoryIDInvalid = &ValidationError{Message: "カテゴリIDは数値である必要があります"}
	ErrPageInvalid       = &ValidationError{Message: "ページ番号は1以上の数値である必要があります"}
	ErrLimitInvalid      = &ValidationError{Message: "件数は1以上100以下の数値である必要があります"}
	ErrYearMonthRequired = &ValidationError{Message: "年月は必須です"}
	ErrYearMonthInvalid  = &ValidationError{Message: "年月の形式はYYYY-MMである必要があります"}
)

// IsValidation reports whether err (or anything it wraps) is a client input
// error, as opposed to a store/system failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 100
)

var (
	yearMonthRE = regexp.MustCompile(`^\d{4}-\d{2}$`)
	dateSepRE   = regexp.MustCompile(`[/-]`)
)

// ValidateDate parses an entry date. Dash- and slash-separated year/month/day
// forms are accepted; the year must be four digits and every component a
// positive integer. Overflowing day or month values normalize into the
// following period (Feb 30 becomes Mar 1/2) per standard date arithmetic;
// this is the permissive parsing the API has always exposed, not a latent
// bug. The result is midnight UTC.
func ValidateDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrDateRequired
	}

	parts := dateSepRE.Split(raw, -1)
	if len(parts) != 3 || len(parts[0]) != 4 {
		return time.Time{}, ErrDateInvalid
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return time.Time{}, ErrDateInvalid
		}
		nums[i] = n
	}

	return time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.UTC), nil
}

// ValidateEntryType requires raw to be exactly "income" or "expense",
// case-sensitive.
func ValidateEntryType(raw string) (EntryType, error) {
	t := EntryType(raw)
	if !t.IsValid() {
		return "", ErrTypeInvalid
	}
	return t, nil
}

// ValidateAmount requires a native JSON number that is a strictly positive
// integer. Numeric strings, zero, negatives and fractions are rejected.
func ValidateAmount(raw json.RawMessage) (int64, error) {
	var f float64
	if raw == nil || json.Unmarshal(raw, &f) != nil {
		return 0, ErrAmountInvalid
	}
	if f <= 0 || f != math.Trunc(f) {
		return 0, ErrAmountInvalid
	}
	return int64(f), nil
}

// ValidateUserID is the create-path user check: the identifier must arrive
// as a non-zero native JSON number. A numeric string is rejected here while
// ParseUserID on the query path accepts one; the asymmetry is part of the
// contract.
func ValidateUserID(raw json.RawMessage) (int64, error) {
	var f float64
	if raw == nil || json.Unmarshal(raw, &f) != nil {
		return 0, ErrUserIDRequired
	}
	if f == 0 || f != math.Trunc(f) {
		return 0, ErrUserIDRequired
	}
	return int64(f), nil
}

// ValidateCategoryID is the create-path category check. Absent and zero both
// normalize to nil (uncategorized); anything else must be an integral JSON
// number.
func ValidateCategoryID(raw json.RawMessage) (*int64, error) {
	if raw == nil {
		return nil, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, ErrCategoryIDInvalid
	}
	if f == 0 {
		return nil, nil
	}
	if f != math.Trunc(f) {
		return nil, ErrCategoryIDInvalid
	}
	id := int64(f)
	return &id, nil
}

// ParseUserID is the query-path user check: required, integer string.
func ParseUserID(raw string) (int64, error) {
	if raw == "" {
		return 0, ErrUserIDRequired
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrUserIDNotNumeric
	}
	return n, nil
}

// ParseEntryType parses the optional query-string type filter; empty means
// no filter.
func ParseEntryType(raw string) (EntryType, error) {
	if raw == "" {
		return "", nil
	}
	return ValidateEntryType(raw)
}

// ParseCategoryID parses the optional query-string category filter. Zero is
// treated as absent, matching the create-path normalization.
func ParseCategoryID(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrCategoryIDInvalid
	}
	return n, nil
}

// ValidateYearMonth requires the exact YYYY-MM pattern with month 01..12.
// Single-digit months, two-digit years, slash separators and out-of-range
// months all fail with the same format error.
func ValidateYearMonth(raw string) (year, month int, err error) {
	if !yearMonthRE.MatchString(raw) {
		return 0, 0, ErrYearMonthInvalid
	}
	year, _ = strconv.Atoi(raw[:4])
	month, _ = strconv.Atoi(raw[5:])
	if month < 1 || month > 12 {
		return 0, 0, ErrYearMonthInvalid
	}
	return year, month, nil
}

// ParsePagination parses page and limit query parameters, applying the
// defaults (page 1, limit 50) when absent. Page must be >= 1, limit in
// [1, 100].
func ParsePagination(pageRaw, limitRaw string) (page, limit int, err error) {
	page = DefaultPage
	if pageRaw != "" {
		page, err = strconv.Atoi(pageRaw)
		if err != nil || page < 1 {
			return 0, 0, ErrPageInvalid
		}
	}
	limit = DefaultLimit
	if limitRaw != "" {
		limit, err = strconv.Atoi(limitRaw)
		if err != nil || limit < 1 || limit > MaxLimit {
			return 0, 0, ErrLimitInvalid
		}
	}
	return page, limit, nil
}

// EntryInput is the raw create-entry request body. Amount, CategoryID and
// UserID are kept as raw JSON so the native-number requirements can be
// checked exactly instead of being coerced by the decoder.
type EntryInput struct {
	Date       string          `json:"date"`
	Type       string          `json:"type"`
	Amount     json.RawMessage `json:"amount"`
	Note       *string         `json:"note"`
	CategoryID json.RawMessage `json:"categoryId"`
	UserID     json.RawMessage `json:"userId"`
}

// Validate checks the input in contract order (date, type, amount, userId,
// then the optional categoryId) and returns the normalized entry. The first
// failing field wins; validating the same input twice yields the identical
// error.
func (in EntryInput) Validate() (NewEntry, error) {
	date, err := ValidateDate(in.Date)
	if err != nil {
		return NewEntry{}, err
	}
	typ, err := ValidateEntryType(in.Type)
	if err != nil {
		return NewEntry{}, err
	}
	amount, err := ValidateAmount(in.Amount)
	if err != nil {
		return NewEntry{}, err
	}
	userID, err := ValidateUserID(in.UserID)
	if err != nil {
		return NewEntry{}, err
	}
	categoryID, err := ValidateCategoryID(in.CategoryID)
	if err != nil {
		return NewEntry{}, err
	}

	note := in.Note
	if note != nil && *note == "" {
		note = nil
	}

	return NewEntry{
		Date:       date,
		Type:       typ,
		Amount:     amount,
		Note:       note,
		CategoryID: categoryID,
		UserID:     userID,
	}, nil
}
