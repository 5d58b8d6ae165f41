// Package deeplink builds wallet deep-link URIs and infers whether a
// companion app handled them.
package deeplink

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/roadshop/checkout-backend/internal/common"
	"github.com/roadshop/checkout-backend/internal/domain"
)

// kakaoAmountScale is part of the KakaoPay QR wire format: the amount is
// embedded as uppercase hex of round(amount*8), followed by a fixed 0000
// suffix. External protocol contract, do not change.
const kakaoAmountScale = 8

// Resolve converts a provider-specific payload into its deep-link URI.
// Returns ErrMissingPaymentInfo when the payload is absent or incomplete
// and ErrInvalidPayload when the detail does not match the provider.
// A partial URI is never constructed.
func Resolve(provider domain.DeepLinkProvider, detail *domain.MethodDetail) (string, error) {
	if detail == nil {
		return "", fmt.Errorf("%w: no payload for provider %q", common.ErrMissingPaymentInfo, provider)
	}

	switch provider {
	case domain.DeepLinkToss:
		if detail.Type != domain.DetailToss || detail.Toss == nil {
			return "", fmt.Errorf("%w: %q detail given for toss deep link", common.ErrInvalidPayload, detail.Type)
		}
		return tossURI(detail.Toss)
	case domain.DeepLinkKakao:
		if detail.Type != domain.DetailKakao || detail.Kakao == nil {
			return "", fmt.Errorf("%w: %q detail given for kakao deep link", common.ErrInvalidPayload, detail.Type)
		}
		return kakaoURI(detail.Kakao)
	default:
		return "", fmt.Errorf("%w: unknown deep-link provider %q", common.ErrInvalidPayload, provider)
	}
}

// tossURI builds supertoss://send?amount=<int>&bank=<name>&accountNo=<no>&origin=qr
func tossURI(info *domain.TossInfo) (string, error) {
	if info.Amount.KRW <= 0 || info.Account.Bank == "" || info.Account.Number == "" {
		return "", fmt.Errorf("%w: toss payload requires amount, bank and account number", common.ErrMissingPaymentInfo)
	}

	amount := strconv.FormatInt(int64(math.Round(info.Amount.KRW)), 10)
	return "supertoss://send?amount=" + amount +
		"&bank=" + url.QueryEscape(info.Account.Bank) +
		"&accountNo=" + url.QueryEscape(info.Account.Number) +
		"&origin=qr", nil
}

// kakaoURI builds kakaotalk://kakaopay/money/to/qr?qr_code=281006011<code><HEX>0000
// where HEX is the uppercase hexadecimal of round(amount*8).
func kakaoURI(info *domain.KakaoInfo) (string, error) {
	if info.Amount.KRW <= 0 || info.PersonalCode == "" {
		return "", fmt.Errorf("%w: kakao payload requires amount and personal code", common.ErrMissingPaymentInfo)
	}

	hexAmount := int64(math.Round(info.Amount.KRW * kakaoAmountScale))
	return fmt.Sprintf("kakaotalk://kakaopay/money/to/qr?qr_code=281006011%s%X0000",
		info.PersonalCode, hexAmount), nil
}
