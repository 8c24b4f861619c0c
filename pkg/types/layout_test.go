// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func TestCategoryBookend(t *testing.T) {
	tests := []struct {
		category Category
		want     bool
	}{
		{CategoryCover, true},
		{CategoryBefore, true},
		{CategoryAfter, true},
		{CategoryFrontMatter, false},
		{CategoryBodyMatter, false},
		{CategoryBackMatter, false},
		{CategorySpecialized, false},
	}
	for _, tt := range tests {
		if got := tt.category.Bookend(); got != tt.want {
			t.Errorf("%s.Bookend() = %v, want %v", tt.category, got, tt.want)
		}
	}
}
