package domain

import "testing"

func TestScore_Clamps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		count int64
		want  int
	}{
		{0, 0},
		{1, 1},
		{99, 99},
		{100, 100},
		{150, 100},
	}
	for _, tc := range cases {
		if got := Score(tc.count); got != tc.want {
			t.Errorf("Score(%d) = %d, want %d", tc.count, got, tc.want)
		}
	}
}

func TestEngagementFor_Boundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score int
		want  EngagementLevel
	}{
		{100, EngagementChampion},
		{80, EngagementChampion},
		{79, EngagementContributor},
		{20, EngagementContributor},
		{19, EngagementLurker},
		{0, EngagementLurker},
	}
	for _, tc := range cases {
		if got := EngagementFor(tc.score); got != tc.want {
			t.Errorf("EngagementFor(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestChurnFor_Boundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score int
		want  ChurnRisk
	}{
		{0, ChurnHigh},
		{9, ChurnHigh},
		{10, ChurnMedium},
		{49, ChurnMedium},
		{50, ChurnLow},
		{100, ChurnLow},
	}
	for _, tc := range cases {
		if got := ChurnFor(tc.score); got != tc.want {
			t.Errorf("ChurnFor(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
