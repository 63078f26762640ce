package score

import (
	"reflect"
	"testing"

	"github.com/ppiankov/newscred/internal/model"
)

func TestRecommend(t *testing.T) {
	thresholds := DefaultThresholds()
	unknown := &model.SourceCredibility{BiasCheck: &model.BiasCheck{Credibility: model.RatingUnknown}}
	trusted := &model.SourceCredibility{BiasCheck: &model.BiasCheck{Credibility: model.RatingHigh}}

	tests := []struct {
		name     string
		score    float64
		warnings []string
		source   *model.SourceCredibility
		want     []string
	}{
		{
			name:   "high score trusted source",
			score:  0.9,
			source: trusted,
			want:   []string{RecCrossReference},
		},
		{
			name:   "medium score no source",
			score:  0.6,
			source: nil,
			want:   []string{RecCrossReference},
		},
		{
			name:   "below medium",
			score:  0.4,
			source: trusted,
			want:   []string{RecVerify, RecCrossReference},
		},
		{
			name:     "everything fires",
			score:    0.1,
			warnings: []string{"a", "b", "c"},
			source:   unknown,
			want:     []string{RecVerify, RecCaution, RecFactCheck, RecResearch, RecCrossReference},
		},
		{
			name:     "two warnings is not enough",
			score:    0.9,
			warnings: []string{"a", "b"},
			source:   unknown,
			want:     []string{RecResearch, RecCrossReference},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.score, tt.warnings, tt.source, thresholds)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
