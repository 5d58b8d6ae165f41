package domain

import (
	"encoding/json"
	"fmt"
)

// DeepLinkProvider identifies a mobile wallet reachable via custom URI scheme
type DeepLinkProvider string

const (
	DeepLinkToss  DeepLinkProvider = "toss"
	DeepLinkKakao DeepLinkProvider = "kakao"
)

// MethodCategory display grouping for payment methods
type MethodCategory string

const (
	CategoryKRW    MethodCategory = "KRW"
	CategoryGlobal MethodCategory = "GLOBAL"
)

// PaymentMethod immutable reference data for a selectable payment method
type PaymentMethod struct {
	ID                  string           `json:"id"`
	Category            MethodCategory   `json:"category"`
	DeepLinkProvider    DeepLinkProvider `json:"deepLinkProvider,omitempty"`
	SupportedCurrencies []string         `json:"supportedCurrencies"`
}

// HasDeepLink reports whether the method launches a companion wallet app
func (m PaymentMethod) HasDeepLink() bool {
	return m.DeepLinkProvider != ""
}

// Amount payment amount in Korean won
type Amount struct {
	KRW float64 `json:"krw"`
}

// TransferAccount a single bank account for manual transfer
type TransferAccount struct {
	Bank   string `json:"bank"`
	Number string `json:"number"`
	Holder string `json:"holder"`
}

// TransferInfo payload for the bank-transfer method
type TransferInfo struct {
	Amount   Amount            `json:"amount"`
	Accounts []TransferAccount `json:"account"`
}

// TossInfo payload for the Toss deep-link method
type TossInfo struct {
	Amount  Amount          `json:"amount"`
	Account TransferAccount `json:"account"`
}

// KakaoInfo payload for the KakaoPay QR deep-link method
type KakaoInfo struct {
	Amount       Amount `json:"amount"`
	PersonalCode string `json:"personalCode"`
}

// URLInfo payload for URL-based methods, keyed by currency code
type URLInfo struct {
	URL map[string]string `json:"url"`
}

// DetailType discriminates the MethodDetail union
type DetailType string

const (
	DetailTransfer DetailType = "transfer"
	DetailToss     DetailType = "toss"
	DetailKakao    DetailType = "kakao"
	DetailURL      DetailType = "url"
)

// MethodDetail is the provider-specific payload for one payment method.
// Exactly one of the payload pointers matching Type is non-nil.
type MethodDetail struct {
	ID   string
	Type DetailType

	Transfer *TransferInfo
	Toss     *TossInfo
	Kakao    *KakaoInfo
	URL      *URLInfo
}

// methodDetailWire is the {id, type, payload} document served by the backend
type methodDetailWire struct {
	ID      string          `json:"id"`
	Type    DetailType      `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// UnmarshalJSON decodes the tagged wire document into the matching union arm
func (d *MethodDetail) UnmarshalJSON(data []byte) error {
	var wire methodDetailWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	detail := MethodDetail{ID: wire.ID, Type: wire.Type}

	switch wire.Type {
	case DetailTransfer:
		detail.Transfer = &TransferInfo{}
		if err := json.Unmarshal(wire.Payload, detail.Transfer); err != nil {
			return err
		}
	case DetailToss:
		detail.Toss = &TossInfo{}
		if err := json.Unmarshal(wire.Payload, detail.Toss); err != nil {
			return err
		}
	case DetailKakao:
		detail.Kakao = &KakaoInfo{}
		if err := json.Unmarshal(wire.Payload, detail.Kakao); err != nil {
			return err
		}
	case DetailURL:
		detail.URL = &URLInfo{}
		if err := json.Unmarshal(wire.Payload, detail.URL); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported payment detail type: %q", wire.Type)
	}

	*d = detail
	return nil
}

// MarshalJSON encodes the union as the tagged wire document
func (d MethodDetail) MarshalJSON() ([]byte, error) {
	var payload interface{}

	switch d.Type {
	case DetailTransfer:
		payload = d.Transfer
	case DetailToss:
		payload = d.Toss
	case DetailKakao:
		payload = d.Kakao
	case DetailURL:
		payload = d.URL
	default:
		return nil, fmt.Errorf("unsupported payment detail type: %q", d.Type)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(methodDetailWire{ID: d.ID, Type: d.Type, Payload: raw})
}

// MethodCatalog is the {methods: [...]} document served at payment-methods.json
type MethodCatalog struct {
	Methods []PaymentMethod `json:"methods"`
}
