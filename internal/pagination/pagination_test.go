package pagination

import (
	"math"
	"testing"
)

func TestDefaults(t *testing.T) {
	var req PageRequest
	req.Defaults()
	if req.Page != 1 || req.PageSize != 20 {
		t.Errorf("expected 1/20, got %d/%d", req.Page, req.PageSize)
	}
}

func TestNewPageResponse_TotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
	}
	for _, tt := range tests {
		got := NewPageResponse[int](nil, 1, tt.pageSize, tt.total)
		if got.TotalPages != tt.want {
			t.Errorf("total=%d size=%d: expected %d pages, got %d", tt.total, tt.pageSize, tt.want, got.TotalPages)
		}
		if got.Data == nil {
			t.Error("expected non-nil data")
		}
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		req  PageRequest
		want []int
	}{
		{"first page", PageRequest{Page: 1, PageSize: 2}, []int{1, 2}},
		{"last partial page", PageRequest{Page: 3, PageSize: 2}, []int{5}},
		{"past the end", PageRequest{Page: 4, PageSize: 2}, []int{}},
		{"defaults", PageRequest{}, []int{1, 2, 3, 4, 5}},
		{"huge page", PageRequest{Page: 922337203685477581, PageSize: 100}, []int{}},
		{"max page", PageRequest{Page: MaxPage, PageSize: 100}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slice(items, tt.req)
			if len(got.Data) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got.Data)
			}
			for i := range tt.want {
				if got.Data[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got.Data)
				}
			}
			if got.TotalItems != 5 {
				t.Errorf("expected 5 total items, got %d", got.TotalItems)
			}
		})
	}
}

func TestSlice_DoesNotAliasInput(t *testing.T) {
	items := []int{1, 2, 3}
	got := Slice(items, PageRequest{Page: 1, PageSize: 2})
	got.Data[0] = 99
	if items[0] != 1 {
		t.Error("page data aliases the input slice")
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name string
		req  PageRequest
		want int
	}{
		{"first page", PageRequest{Page: 1, PageSize: 20}, 0},
		{"third page", PageRequest{Page: 3, PageSize: 20}, 40},
		{"zero page", PageRequest{Page: 0, PageSize: 20}, 0},
		{"negative page", PageRequest{Page: -4, PageSize: 20}, 0},
		{"overflowing page", PageRequest{Page: 922337203685477581, PageSize: 100}, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Offset(); got != tt.want {
				t.Errorf("expected offset %d, got %d", tt.want, got)
			}
		})
	}
}
