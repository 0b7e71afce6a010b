package lang

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDetector(t *testing.T) {
	d := NewDetector()

	t.Run("korean", func(t *testing.T) {
		if got := d.Detect("이 문서는 한국어로 작성된 보고서입니다. 요약을 생성합니다."); got != LangKorean {
			t.Errorf("expected korean, got %q", got)
		}
	})

	t.Run("japanese", func(t *testing.T) {
		if got := d.Detect("この文書は日本語で書かれています。ようやくを生成します。"); got != LangJapanese {
			t.Errorf("expected japanese, got %q", got)
		}
	})

	t.Run("chinese", func(t *testing.T) {
		if got := d.Detect("这份文件是用中文写的。我们将生成摘要。"); got != LangChinese {
			t.Errorf("expected chinese, got %q", got)
		}
	})

	t.Run("english gets the default tokenizer", func(t *testing.T) {
		text := "The quick brown fox jumps over the lazy dog. " +
			"This sentence exists purely to give the detector enough material."
		got := d.Detect(text)
		if got == LangKorean || got == LangChinese || got == LangJapanese {
			t.Fatalf("english misdetected as %q", got)
		}
		if tok := SelectTokenizer(d, text); tok.Name() != "default" {
			t.Errorf("expected default tokenizer, got %s", tok.Name())
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := d.Detect(""); got != LangUnknown {
			t.Errorf("expected unknown, got %q", got)
		}
	})
}

func TestSample(t *testing.T) {
	t.Run("short input unchanged", func(t *testing.T) {
		if got := sample("짧은 글"); got != "짧은 글" {
			t.Errorf("expected unchanged input, got %q", got)
		}
	})

	// The cap counts characters, not bytes; multibyte text must keep a
	// full-length sample.
	t.Run("long multibyte input keeps 1000 characters", func(t *testing.T) {
		long := strings.Repeat("한", 1500)
		got := sample(long)
		if n := utf8.RuneCountInString(got); n != sampleLen {
			t.Errorf("expected %d characters, got %d", sampleLen, n)
		}
	})
}

func TestSelectTokenizer(t *testing.T) {
	t.Run("nil detector degrades to default", func(t *testing.T) {
		tok := SelectTokenizer(nil, "whatever")
		if tok.Name() != "default" {
			t.Errorf("expected default tokenizer, got %s", tok.Name())
		}
	})

	t.Run("noop detector always default", func(t *testing.T) {
		tok := SelectTokenizer(NewNoopDetector(), "이 문서는 한국어입니다.")
		if tok.Name() != "default" {
			t.Errorf("expected default tokenizer, got %s", tok.Name())
		}
	})

	t.Run("korean text gets korean tokenizer", func(t *testing.T) {
		tok := SelectTokenizer(NewDetector(), "이 문서는 한국어로 작성되었습니다. 문장을 나눕니다.")
		if tok.Name() != "korean" {
			t.Errorf("expected korean tokenizer, got %s", tok.Name())
		}
	})

	t.Run("chinese text gets cjk tokenizer", func(t *testing.T) {
		tok := SelectTokenizer(NewDetector(), "这份文件是用中文写的。我们将生成摘要。")
		if tok.Name() != "cjk" {
			t.Errorf("expected cjk tokenizer, got %s", tok.Name())
		}
	})
}

func TestTokenizers(t *testing.T) {
	t.Run("default splits on ascii terminators", func(t *testing.T) {
		got := DefaultTokenizer().Sentences("First one. Second one! Third one?")
		if len(got) != 3 {
			t.Fatalf("expected 3 sentences, got %d: %v", len(got), got)
		}
		if got[0] != "First one." || got[2] != "Third one?" {
			t.Errorf("unexpected sentences: %v", got)
		}
	})

	t.Run("trailing text without terminator is kept", func(t *testing.T) {
		got := DefaultTokenizer().Sentences("Complete sentence. dangling tail")
		if len(got) != 2 || got[1] != "dangling tail" {
			t.Errorf("expected trailing sentence kept, got %v", got)
		}
	})

	t.Run("cjk splits on fullwidth terminators", func(t *testing.T) {
		got := cjkTokenizer{}.Sentences("第一句。第二句！第三句？")
		if len(got) != 3 {
			t.Errorf("expected 3 sentences, got %d: %v", len(got), got)
		}
	})

	t.Run("korean splits mixed punctuation", func(t *testing.T) {
		got := koreanTokenizer{}.Sentences("첫 번째 문장입니다. 두 번째 문장입니다！")
		if len(got) != 2 {
			t.Errorf("expected 2 sentences, got %d: %v", len(got), got)
		}
	})

	t.Run("empty input yields no sentences", func(t *testing.T) {
		if got := DefaultTokenizer().Sentences(""); len(got) != 0 {
			t.Errorf("expected no sentences, got %v", got)
		}
	})
}
