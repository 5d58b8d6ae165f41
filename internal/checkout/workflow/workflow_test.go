package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/roadshop/checkout-backend/internal/domain"
)

// MockContext mocks the orchestrator operations available to workflows
type MockContext struct {
	mock.Mock
}

func (m *MockContext) EnsureMethodInfo(ctx context.Context, methodID string) bool {
	args := m.Called(ctx, methodID)
	return args.Bool(0)
}

func (m *MockContext) ResolveDeepLink(provider domain.DeepLinkProvider) (string, error) {
	args := m.Called(provider)
	return args.String(0), args.Error(1)
}

func (m *MockContext) LaunchDeepLink(ctx context.Context, provider domain.DeepLinkProvider, uri string, timeout time.Duration) {
	m.Called(ctx, provider, uri, timeout)
}

func (m *MockContext) OpenTransferDialog() {
	m.Called()
}

func (m *MockContext) OpenMethodURL(ctx context.Context, method domain.PaymentMethod, currency string) {
	m.Called(ctx, method, currency)
}

func (m *MockContext) CopyTossAccountInfo(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockContext) ShowTossInstructionDialog(seconds int) <-chan bool {
	args := m.Called(seconds)
	return args.Get(0).(<-chan bool)
}

func (m *MockContext) CompleteTossInstructionDialog() {
	m.Called()
}

func (m *MockContext) SetTossDeepLinkURL(uri string) {
	m.Called(uri)
}

func resolvedChan(v bool) <-chan bool {
	ch := make(chan bool, 1)
	ch <- v
	return ch
}

func closedChan() <-chan bool {
	ch := make(chan bool)
	close(ch)
	return ch
}

func method(id string) domain.PaymentMethod {
	return domain.PaymentMethod{ID: id, SupportedCurrencies: []string{"KRW"}}
}

func TestResolverMemoizesPerMethod(t *testing.T) {
	r := NewResolver(&MockContext{})

	toss := r.Resolve(method("toss"))
	assert.Same(t, toss, r.Resolve(method("toss")), "repeated selections must reuse one workflow object")

	assert.IsType(t, &tossAction{}, toss)
	assert.IsType(t, &transferAction{}, r.Resolve(method("transfer")))
	assert.IsType(t, &kakaoAction{}, r.Resolve(method("kakao")))
	assert.IsType(t, &defaultAction{}, r.Resolve(method("paypal")))
	assert.IsType(t, &defaultAction{}, r.Resolve(method("alipay")))
	assert.NotSame(t, r.Resolve(method("paypal")), r.Resolve(method("alipay")),
		"each method id gets its own cached workflow")
}

func TestTransferWorkflowOpensDialog(t *testing.T) {
	c := &MockContext{}
	c.On("EnsureMethodInfo", mock.Anything, "transfer").Return(true)
	c.On("OpenTransferDialog").Return()

	NewResolver(c).Resolve(method("transfer")).HandleSelection(context.Background(), Payload{Method: method("transfer")})

	c.AssertCalled(t, "OpenTransferDialog")
}

func TestTransferWorkflowAbortsOnFetchFailure(t *testing.T) {
	c := &MockContext{}
	c.On("EnsureMethodInfo", mock.Anything, "transfer").Return(false)

	NewResolver(c).Resolve(method("transfer")).HandleSelection(context.Background(), Payload{Method: method("transfer")})

	c.AssertNotCalled(t, "OpenTransferDialog")
}

func TestTossWorkflowFullSequence(t *testing.T) {
	const uri = "supertoss://send?amount=130000&bank=kookmin&accountNo=123&origin=qr"

	c := &MockContext{}
	c.On("SetTossDeepLinkURL", "").Return()
	c.On("EnsureMethodInfo", mock.Anything, "toss").Return(true)
	c.On("ResolveDeepLink", domain.DeepLinkToss).Return(uri, nil)
	c.On("SetTossDeepLinkURL", uri).Return()
	c.On("CopyTossAccountInfo", mock.Anything).Return(true)
	c.On("ShowTossInstructionDialog", TossInstructionSeconds).Return(resolvedChan(true))
	c.On("LaunchDeepLink", mock.Anything, domain.DeepLinkToss, uri, TossLaunchTimeout).Return()
	c.On("CompleteTossInstructionDialog").Return()

	NewResolver(c).Resolve(method("toss")).HandleSelection(context.Background(), Payload{Method: method("toss")})

	c.AssertCalled(t, "SetTossDeepLinkURL", uri)
	c.AssertCalled(t, "LaunchDeepLink", mock.Anything, domain.DeepLinkToss, uri, TossLaunchTimeout)
	c.AssertCalled(t, "CompleteTossInstructionDialog")
}

func TestTossWorkflowCancelledCountdownSkipsLaunch(t *testing.T) {
	c := &MockContext{}
	c.On("SetTossDeepLinkURL", mock.Anything).Return()
	c.On("EnsureMethodInfo", mock.Anything, "toss").Return(true)
	c.On("ResolveDeepLink", domain.DeepLinkToss).Return("supertoss://send", nil)
	c.On("CopyTossAccountInfo", mock.Anything).Return(false)
	c.On("ShowTossInstructionDialog", TossInstructionSeconds).Return(resolvedChan(false))
	c.On("CompleteTossInstructionDialog").Return()

	NewResolver(c).Resolve(method("toss")).HandleSelection(context.Background(), Payload{Method: method("toss")})

	c.AssertNotCalled(t, "LaunchDeepLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	c.AssertCalled(t, "CompleteTossInstructionDialog")
}

func TestTossWorkflowSupersededCountdownAborts(t *testing.T) {
	c := &MockContext{}
	c.On("SetTossDeepLinkURL", mock.Anything).Return()
	c.On("EnsureMethodInfo", mock.Anything, "toss").Return(true)
	c.On("ResolveDeepLink", domain.DeepLinkToss).Return("supertoss://send", nil)
	c.On("CopyTossAccountInfo", mock.Anything).Return(true)
	// A re-selection during a pending countdown closes the old channel
	// instead of resolving it.
	c.On("ShowTossInstructionDialog", TossInstructionSeconds).Return(closedChan())

	NewResolver(c).Resolve(method("toss")).HandleSelection(context.Background(), Payload{Method: method("toss")})

	c.AssertNotCalled(t, "LaunchDeepLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	// The newer workflow owns the dialog; the superseded one must not reset it.
	c.AssertNotCalled(t, "CompleteTossInstructionDialog")
}

func TestTossWorkflowAbortsOnResolveFailure(t *testing.T) {
	c := &MockContext{}
	c.On("SetTossDeepLinkURL", "").Return()
	c.On("EnsureMethodInfo", mock.Anything, "toss").Return(true)
	c.On("ResolveDeepLink", domain.DeepLinkToss).Return("", errors.New("missing payment info"))

	NewResolver(c).Resolve(method("toss")).HandleSelection(context.Background(), Payload{Method: method("toss")})

	c.AssertNotCalled(t, "ShowTossInstructionDialog", mock.Anything)
	c.AssertNotCalled(t, "LaunchDeepLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestKakaoWorkflowLaunchesDirectly(t *testing.T) {
	const uri = "kakaotalk://kakaopay/money/to/qr?qr_code=281006011ABC1F400000"

	c := &MockContext{}
	c.On("EnsureMethodInfo", mock.Anything, "kakao").Return(true)
	c.On("ResolveDeepLink", domain.DeepLinkKakao).Return(uri, nil)
	c.On("LaunchDeepLink", mock.Anything, domain.DeepLinkKakao, uri, KakaoLaunchTimeout).Return()

	NewResolver(c).Resolve(method("kakao")).HandleSelection(context.Background(), Payload{Method: method("kakao")})

	c.AssertCalled(t, "LaunchDeepLink", mock.Anything, domain.DeepLinkKakao, uri, KakaoLaunchTimeout)

	// Kakao never copies account info or shows the instruction countdown.
	c.AssertNotCalled(t, "CopyTossAccountInfo", mock.Anything)
	c.AssertNotCalled(t, "ShowTossInstructionDialog", mock.Anything)
}

func TestDefaultWorkflowOpensMethodURL(t *testing.T) {
	paypal := method("paypal")

	c := &MockContext{}
	c.On("OpenMethodURL", mock.Anything, paypal, "USD").Return()

	NewResolver(c).Resolve(paypal).HandleCurrencySelection(context.Background(), Payload{Method: paypal, Currency: "USD"})

	c.AssertCalled(t, "OpenMethodURL", mock.Anything, paypal, "USD")
}
