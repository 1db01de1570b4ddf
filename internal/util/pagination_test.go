package util

import "testing"

func TestClampPage(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"defaults", 0, 0, 1, 10},
		{"negative page", -3, 20, 1, 20},
		{"oversized page size", 2, 500, 2, 100},
		{"in range", 3, 25, 3, 25},
		{"negative page size", 1, -1, 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pageSize := ClampPage(tt.page, tt.pageSize)
			if page != tt.wantPage || pageSize != tt.wantPageSize {
				t.Errorf("ClampPage(%d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.pageSize, page, pageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	// 25 records at the default page size: pages 1 and 2 are full,
	// page 3 holds the last 5.
	const total = 25

	tests := []struct {
		page       int
		wantOffset int
		wantOnPage int
	}{
		{1, 0, 10},
		{2, 10, 10},
		{3, 20, 5},
		{4, 30, 0},
	}

	for _, tt := range tests {
		offset := Offset(tt.page, DefaultPageSize)
		if offset != tt.wantOffset {
			t.Errorf("Offset(%d, %d) = %d, want %d", tt.page, DefaultPageSize, offset, tt.wantOffset)
		}
		onPage := total - offset
		if onPage < 0 {
			onPage = 0
		}
		if onPage > DefaultPageSize {
			onPage = DefaultPageSize
		}
		if onPage != tt.wantOnPage {
			t.Errorf("page %d holds %d records, want %d", tt.page, onPage, tt.wantOnPage)
		}
	}
}
