package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentItem_Text(t *testing.T) {
	tests := []struct {
		name string
		item ContentItem
		want string
	}{
		{"title and body", ContentItem{Title: "headline", BodyText: "body"}, "headline\nbody"},
		{"title only", ContentItem{Title: "headline"}, "headline"},
		{"body only", ContentItem{BodyText: "just a post"}, "just a post"},
		{"empty", ContentItem{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.Text())
		})
	}
}

func TestFilterDecision_HasCategory(t *testing.T) {
	d := FilterDecision{MatchedCategories: []string{"crypto", "macro"}}
	assert.True(t, d.HasCategory("macro"))
	assert.True(t, d.HasCategory("crypto"))
	assert.False(t, d.HasCategory("priority"))
	assert.False(t, FilterDecision{}.HasCategory("macro"))
}
