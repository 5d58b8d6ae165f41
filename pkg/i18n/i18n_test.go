package i18n

import "testing"

func TestParseAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   Locale
	}{
		{"", LocaleEn},
		{"ko", LocaleKo},
		{"ko-KR,ko;q=0.9,en-US;q=0.8", LocaleKo},
		{"en-US,en;q=0.9", LocaleEn},
		{"ja,en-US;q=0.7", LocaleJa},
		{"zh-CN,zh;q=0.9", LocaleZh},
		{"fr-FR,fr;q=0.9", LocaleEn}, // unsupported → fallback
		{"en", LocaleEn},
		{"ja-JP", LocaleJa},
	}

	for _, tt := range tests {
		got := ParseAcceptLanguage(tt.header)
		if got != tt.want {
			t.Errorf("ParseAcceptLanguage(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestBundleTranslation(t *testing.T) {
	b := NewBundle(LocaleEn)
	for locale, msgs := range DefaultMessages() {
		b.LoadMessages(locale, msgs)
	}

	// Korean
	if got := b.T(LocaleKo, "dialogs.confirm"); got != "확인" {
		t.Errorf("ko confirm = %q", got)
	}

	// English
	if got := b.T(LocaleEn, "dialogs.not_installed.title"); got != "App not installed" {
		t.Errorf("en not_installed title = %q", got)
	}

	// Japanese
	if got := b.T(LocaleJa, "options.kakao"); got != "カカオペイ" {
		t.Errorf("ja kakao label = %q", got)
	}

	// Fallback to English for unknown key
	if got := b.T(LocaleKo, "unknown.key"); got != "unknown.key" {
		t.Errorf("unknown key = %q, want key itself", got)
	}

	// Method label substitution in dialog descriptions
	want := "The KakaoPay app could not be found. Install the app and try again."
	if got := b.T(LocaleEn, "dialogs.not_installed.description", b.T(LocaleEn, "options.kakao")); got != want {
		t.Errorf("not_installed description = %q, want %q", got, want)
	}
}
