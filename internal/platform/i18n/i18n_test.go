package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestSupportedTagsStartWithDefault(t *testing.T) {
	t.Parallel()

	tags := SupportedTags()
	if len(tags) < 2 {
		t.Fatalf("expected at least two supported tags, got %v", tags)
	}
	if tags[0] != DefaultTag() {
		t.Fatalf("first tag = %s, want %s", tags[0], DefaultTag())
	}
	if DefaultTag().String() != "en-US" {
		t.Fatalf("default tag = %s", DefaultTag())
	}
}

func TestParseTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value  string
		want   string
		wantOK bool
	}{
		{value: "en-US", want: "en-US", wantOK: true},
		{value: "zh-CN", want: "zh-CN", wantOK: true},
		{value: "zh", want: "zh-CN", wantOK: true},
		{value: "", want: "en-US", wantOK: false},
		{value: "not-a-lang", want: "en-US", wantOK: false},
		{value: "fr", want: "en-US", wantOK: false},
	}
	for _, tc := range tests {
		got, ok := ParseTag(tc.value)
		if ok != tc.wantOK || got.String() != tc.want {
			t.Fatalf("ParseTag(%q) = %s, %v; want %s, %v", tc.value, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestMatchTags(t *testing.T) {
	t.Parallel()

	if got := MatchTags(nil); got != DefaultTag() {
		t.Fatalf("MatchTags(nil) = %s", got)
	}
	if got := MatchTags([]language.Tag{language.MustParse("zh-CN"), language.English}); got.String() != "zh-CN" {
		t.Fatalf("MatchTags(zh-CN, en) = %s", got)
	}
}
