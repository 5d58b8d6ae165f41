package i18n

// DefaultMessages returns built-in translations for all supported locales.
// These can be overridden by loading JSON files from a directory.
func DefaultMessages() map[Locale]map[string]string {
	return map[Locale]map[string]string{
		LocaleKo: koMessages,
		LocaleEn: enMessages,
		LocaleJa: jaMessages,
		LocaleZh: zhMessages,
	}
}

var koMessages = map[string]string{
	// Common errors
	"error.not_found":   "요청한 리소스를 찾을 수 없습니다",
	"error.bad_request": "잘못된 요청입니다",
	"error.internal":    "서버 내부 오류가 발생했습니다",
	"error.validation":  "입력값이 올바르지 않습니다",

	// Method labels
	"options.transfer": "계좌이체",
	"options.toss":     "토스",
	"options.kakao":    "카카오페이",
	"options.naver":    "네이버페이",
	"options.alipay":   "알리페이",
	"options.paypal":   "페이팔",
	"options.card":     "카드",

	// Deep-link dialogs
	"dialogs.not_mobile.title":       "모바일 기기가 아닙니다",
	"dialogs.not_mobile.description": "%s 결제는 모바일 기기에서만 가능합니다. 아래 링크를 복사해 휴대폰에서 열어주세요.",
	"dialogs.not_installed.title":    "앱이 설치되어 있지 않습니다",
	"dialogs.not_installed.description": "%s 앱을 찾을 수 없습니다. 앱을 설치한 후 다시 시도해주세요.",
	"dialogs.confirm": "확인",

	// Transfer dialog
	"transfer.copied":      "계좌 정보가 복사되었습니다",
	"transfer.copy_failed": "복사에 실패했습니다. 직접 입력해주세요",
}

var enMessages = map[string]string{
	// Common errors
	"error.not_found":   "The requested resource was not found",
	"error.bad_request": "Invalid request",
	"error.internal":    "An internal server error occurred",
	"error.validation":  "Invalid input",

	// Method labels
	"options.transfer": "Bank transfer",
	"options.toss":     "Toss",
	"options.kakao":    "KakaoPay",
	"options.naver":    "Naver Pay",
	"options.alipay":   "Alipay",
	"options.paypal":   "PayPal",
	"options.card":     "Card",

	// Deep-link dialogs
	"dialogs.not_mobile.title":       "Not a mobile device",
	"dialogs.not_mobile.description": "%s payments are only available on mobile devices. Copy the link below and open it on your phone.",
	"dialogs.not_installed.title":    "App not installed",
	"dialogs.not_installed.description": "The %s app could not be found. Install the app and try again.",
	"dialogs.confirm": "OK",

	// Transfer dialog
	"transfer.copied":      "Account details copied",
	"transfer.copy_failed": "Copy failed. Please enter the details manually",
}

var jaMessages = map[string]string{
	// Common errors
	"error.not_found":   "リソースが見つかりません",
	"error.bad_request": "不正なリクエストです",
	"error.internal":    "サーバー内部エラーが発生しました",
	"error.validation":  "入力値が正しくありません",

	// Method labels
	"options.transfer": "銀行振込",
	"options.toss":     "Toss",
	"options.kakao":    "カカオペイ",
	"options.naver":    "ネイバーペイ",
	"options.alipay":   "アリペイ",
	"options.paypal":   "PayPal",
	"options.card":     "カード",

	// Deep-link dialogs
	"dialogs.not_mobile.title":       "モバイル端末ではありません",
	"dialogs.not_mobile.description": "%s決済はモバイル端末でのみ利用できます。以下のリンクをコピーしてスマートフォンで開いてください。",
	"dialogs.not_installed.title":    "アプリがインストールされていません",
	"dialogs.not_installed.description": "%sアプリが見つかりません。アプリをインストールしてから再度お試しください。",
	"dialogs.confirm": "確認",

	// Transfer dialog
	"transfer.copied":      "口座情報をコピーしました",
	"transfer.copy_failed": "コピーに失敗しました。直接入力してください",
}

var zhMessages = map[string]string{
	// Common errors
	"error.not_found":   "找不到请求的资源",
	"error.bad_request": "无效的请求",
	"error.internal":    "服务器内部错误",
	"error.validation":  "输入值无效",

	// Method labels
	"options.transfer": "银行转账",
	"options.toss":     "Toss",
	"options.kakao":    "KakaoPay",
	"options.naver":    "Naver Pay",
	"options.alipay":   "支付宝",
	"options.paypal":   "PayPal",
	"options.card":     "银行卡",

	// Deep-link dialogs
	"dialogs.not_mobile.title":       "不是移动设备",
	"dialogs.not_mobile.description": "%s支付仅限移动设备使用。请复制以下链接并在手机上打开。",
	"dialogs.not_installed.title":    "未安装应用",
	"dialogs.not_installed.description": "找不到%s应用。请安装应用后重试。",
	"dialogs.confirm": "确定",

	// Transfer dialog
	"transfer.copied":      "已复制账户信息",
	"transfer.copy_failed": "复制失败，请手动输入",
}
