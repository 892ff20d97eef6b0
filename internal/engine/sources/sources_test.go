package sources

import "testing"

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", `{"a":1};rest`, `{"a":1}`},
		{"nested", `{"a":{"b":2}}tail`, `{"a":{"b":2}}`},
		{"braces in strings", `{"a":"}{"}suffix`, `{"a":"}{"}`},
		{"escaped quote", `{"a":"\"}"}x`, `{"a":"\"}"}`},
		{"unterminated", `{"a":1`, ""},
		{"not an object", `[1,2]`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(extractJSONObject([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("extractJSONObject(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestVideosFromInitialData(t *testing.T) {
	data := []byte(`{"contents":{"twoColumnSearchResultsRenderer":{"primaryContents":{"sectionListRenderer":{"contents":[{"itemSectionRenderer":{"contents":[{"videoRenderer":{"videoId":"abc123def45","title":{"runs":[{"text":"Go in 100 seconds"}]},"ownerText":{"runs":[{"text":"Fireship"}]}}},{"videoRenderer":{}},{"videoRenderer":{"videoId":"zzz999zzz99","title":{"runs":[{"text":"Another"}]}}}]}}]}}}}}`)
	videos := videosFromInitialData(data, 10)
	if len(videos) != 2 {
		t.Fatalf("got %d videos, want 2: %v", len(videos), videos)
	}
	if videos[0].id != "abc123def45" || videos[0].title != "Go in 100 seconds" || videos[0].channel != "Fireship" {
		t.Errorf("unexpected first video: %+v", videos[0])
	}

	if got := videosFromInitialData(data, 1); len(got) != 1 {
		t.Errorf("limit not applied: %v", got)
	}
	if got := videosFromInitialData([]byte("not json"), 5); got != nil {
		t.Errorf("malformed data should yield nil, got %v", got)
	}
}

func TestStarsRating(t *testing.T) {
	tests := []struct {
		stars int
		want  float64
	}{
		{0, 0},
		{-5, 0},
		{10, 1},
		{100000, 5},
	}
	for _, tt := range tests {
		if got := starsRating(tt.stars); got != tt.want {
			t.Errorf("starsRating(%d) = %v, want %v", tt.stars, got, tt.want)
		}
	}
}

func TestPositionRating(t *testing.T) {
	if positionRating(0) <= positionRating(1) {
		t.Error("earlier positions must rank higher")
	}
	if positionRating(100) != 0 {
		t.Errorf("deep positions should floor at 0, got %v", positionRating(100))
	}
}
