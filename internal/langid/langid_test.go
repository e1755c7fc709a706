// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package langid

import "testing"

func TestDetect(t *testing.T) {
	d := New()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "The quick brown fox jumps over the lazy dog near the river bank.", "en"},
		{"japanese", "このドキュメントは翻訳の進捗を追跡するためのものです。", "ja"},
		{"korean", "이 문서는 번역 진행 상황을 추적하기 위한 것입니다.", "ko"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Detect(tt.text)
			if !ok {
				t.Fatal("no language detected")
			}
			if got != tt.want {
				t.Errorf("Detect = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectEmpty(t *testing.T) {
	d := New()
	if _, ok := d.Detect("   \n\t"); ok {
		t.Error("whitespace should not detect a language")
	}
}
