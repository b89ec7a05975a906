package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eternalpay/internal/convert"
	"eternalpay/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockConverter struct{ mock.Mock }

func (m *MockConverter) View() convert.View {
	args := m.Called()
	v, _ := args.Get(0).(convert.View)
	return v
}

func (m *MockConverter) SetSourceAmount(raw string)      { m.Called(raw) }
func (m *MockConverter) SetDestinationAmount(raw string) { m.Called(raw) }
func (m *MockConverter) SetDestinationKey(raw string)    { m.Called(raw) }

func (m *MockConverter) ToggleDirection() error {
	args := m.Called()
	return args.Error(0)
}

type MockSubmitter struct{ mock.Mock }

func (m *MockSubmitter) Submit(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type errorJSON struct {
	Error string `json:"error"`
}

func viewFixture() convert.View {
	fee := decimal.RequireFromString("10.00")
	net := decimal.RequireFromString("490.00")
	observedAt := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	return convert.View{
		Direction:           domain.FiatToCrypto,
		SourceCurrency:      domain.CurrencyBRL,
		DestinationCurrency: domain.CurrencyBTC,
		FiatAmount:          decimal.RequireFromString("500.00"),
		CryptoAmount:        decimal.RequireFromString("0.00142857"),
		FeeRate:             decimal.RequireFromString("0.02"),
		Fee:                 &fee,
		Net:                 &net,
		DestinationKey:      "ln1abc",
		CanSubmit:           true,
		Rates: []convert.RateView{
			{Pair: domain.PairBTCBRL, Value: decimal.RequireFromString("350000"), ObservedAt: observedAt},
			{Pair: domain.PairBTCUSD, Value: decimal.RequireFromString("65000"), ObservedAt: observedAt},
			{Pair: domain.PairUSDBRL, Value: decimal.RequireFromString("5.38"), ObservedAt: observedAt},
		},
	}
}

// --- GetConverter ---

func TestHandler_GetConverter(t *testing.T) {
	mockConverter := new(MockConverter)
	mockSubmitter := new(MockSubmitter)
	h := NewConverterHandler(mockConverter, mockSubmitter)

	mockConverter.On("View").Return(viewFixture()).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/converter", nil)
	rr := httptest.NewRecorder()

	h.GetConverter(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var res converterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "FIAT_TO_CRYPTO", res.Direction)
	require.Equal(t, "BRL", res.SourceCurrency)
	require.Equal(t, "BTC", res.DestinationCurrency)
	require.Equal(t, "500.00", res.FiatAmount)
	require.Equal(t, "0.00142857", res.CryptoAmount)
	require.NotNil(t, res.Fee)
	require.Equal(t, "10.00", *res.Fee)
	require.NotNil(t, res.Net)
	require.Equal(t, "490.00", *res.Net)
	require.True(t, res.CanSubmit)
	require.Len(t, res.Rates, 3)
	mockConverter.AssertExpectations(t)
}

func TestHandler_GetConverter_NoFeeWithoutAmount(t *testing.T) {
	mockConverter := new(MockConverter)
	h := NewConverterHandler(mockConverter, new(MockSubmitter))

	view := viewFixture()
	view.FiatAmount = decimal.Zero
	view.CryptoAmount = decimal.Zero
	view.Fee = nil
	view.Net = nil
	view.CanSubmit = false
	mockConverter.On("View").Return(view).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/converter", nil)
	rr := httptest.NewRecorder()

	h.GetConverter(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res converterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Nil(t, res.Fee)
	require.Nil(t, res.Net)
	require.False(t, res.CanSubmit)
}

// --- GetRates ---

func TestHandler_GetRates(t *testing.T) {
	mockConverter := new(MockConverter)
	h := NewConverterHandler(mockConverter, new(MockSubmitter))

	view := viewFixture()
	view.RatesErrored = true
	mockConverter.On("View").Return(view).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
	rr := httptest.NewRecorder()

	h.GetRates(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res ratesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.True(t, res.Errored)
	require.Len(t, res.Rates, 3)
	require.Equal(t, domain.PairBTCBRL, res.Rates[0].Pair)
}

// --- SetAmount ---

func TestHandler_SetAmount_InvalidJSON(t *testing.T) {
	mockConverter := new(MockConverter)
	h := NewConverterHandler(mockConverter, new(MockSubmitter))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/converter/amount", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()

	h.SetAmount(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	require.Equal(t, "invalid request body", ej.Error)
	mockConverter.AssertNotCalled(t, "SetSourceAmount", mock.Anything)
	mockConverter.AssertNotCalled(t, "SetDestinationAmount", mock.Anything)
}

func TestHandler_SetAmount_UnknownField(t *testing.T) {
	mockConverter := new(MockConverter)
	h := NewConverterHandler(mockConverter, new(MockSubmitter))

	body := `{"side":"source","value":"500.00","extra":1}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/converter/amount", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	h.SetAmount(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	mockConverter.AssertNotCalled(t, "SetSourceAmount", mock.Anything)
}

func TestHandler_SetAmount_UnknownSide(t *testing.T) {
	mockConverter := new(MockConverter)
	h := NewConverterHandler(mockConverter, new(MockSubmitter))

	body := `{"side":"sideways","value":"500.00"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/converter/amount", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	h.SetAmount(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	require.Equal(t, "side must be \"source\" or \"destination\"", ej.Error)
	mockConverter.AssertNotCalled(t, "SetSourceAmount", mock.Anything)
	mockConverter.AssertNotCalled(t, "SetDestinationAmount", mock.Anything)
}

func TestHandler_SetAmount_SourceSide(t *testing.T) {
	mockConverter := new(MockConverter)
	h := NewConverterHandler(mockConverter, new(MockSubmitter))

	mockConverter.On("SetSourceAmount", "500.00").Once()
	mockConverter.On("View").Return(viewFixture()).Once()

	body := `{"side":"source","value":"500.00"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/converter/amount", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	h.SetAmount(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	mockConverter.AssertExpectations(t)
	mockConverter.AssertNotCalled(t, "SetDestinationAmount", mock.Anything)
}

func TestHandler_SetAmount_DestinationSide(t *testing.T) {
	mockConverter := new(MockConverter)
	h := NewConverterHandler(mockConverter, new(MockSubmitter))

	mockConverter.On("SetDestinationAmount", "0.00142857").Once()
	mockConverter.On("View").Return(viewFixture()).Once()

	body := `{"side":"destination","value":"0.00142857"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/converter/amount", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	h.SetAmount(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	mockConverter.AssertExpectations(t)
}

// --- SetDestinationKey ---

func TestHandler_SetDestinationKey_Success(t *testing.T) {
	mockConverter := new(MockConverter)
	h := NewConverterHandler(mockConverter, new(MockSubmitter))

	view := viewFixture()
	view.DestinationKey = "someone@example.com"
	mockConverter.On("SetDestinationKey", "someone@example.com").Once()
	mockConverter.On("View").Return(view).Once()

	body := `{"key":"someone@example.com"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/converter/destination-key", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	h.SetDestinationKey(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res converterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "someone@example.com", res.DestinationKey)
	mockConverter.AssertExpectations(t)
}

func TestHandler_SetDestinationKey_InvalidJSON(t *testing.T) {
	mockConverter := new(MockConverter)
	h := NewConverterHandler(mockConverter, new(MockSubmitter))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/converter/destination-key", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()

	h.SetDestinationKey(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	mockConverter.AssertNotCalled(t, "SetDestinationKey", mock.Anything)
}

// --- ToggleDirection ---

func TestHandler_ToggleDirection_Disabled(t *testing.T) {
	mockConverter := new(MockConverter)
	h := NewConverterHandler(mockConverter, new(MockSubmitter))

	mockConverter.On("ToggleDirection").Return(convert.ErrToggleDisabled).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/converter/direction/toggle", nil)
	rr := httptest.NewRecorder()

	h.ToggleDirection(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	require.Equal(t, convert.ErrToggleDisabled.Error(), ej.Error)
	mockConverter.AssertNotCalled(t, "View")
}

func TestHandler_ToggleDirection_Success(t *testing.T) {
	mockConverter := new(MockConverter)
	h := NewConverterHandler(mockConverter, new(MockSubmitter))

	view := viewFixture()
	view.Direction = domain.CryptoToFiat
	view.SourceCurrency = domain.CurrencyBTC
	view.DestinationCurrency = domain.CurrencyBRL
	mockConverter.On("ToggleDirection").Return(nil).Once()
	mockConverter.On("View").Return(view).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/converter/direction/toggle", nil)
	rr := httptest.NewRecorder()

	h.ToggleDirection(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res converterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "CRYPTO_TO_FIAT", res.Direction)
	require.Equal(t, "BTC", res.SourceCurrency)
	mockConverter.AssertExpectations(t)
}

// --- Submit ---

func TestHandler_Submit_Success(t *testing.T) {
	mockSubmitter := new(MockSubmitter)
	h := NewConverterHandler(new(MockConverter), mockSubmitter)

	mockSubmitter.On("Submit", mock.Anything).Return("TX123", nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil)
	rr := httptest.NewRecorder()

	h.Submit(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var res submitResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "TX123", res.TransactionID)
	mockSubmitter.AssertExpectations(t)
}

func TestHandler_Submit_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "already in flight", err: domain.ErrSubmitInFlight, wantStatus: http.StatusConflict},
		{name: "no rates", err: domain.ErrNoRates, wantStatus: http.StatusServiceUnavailable},
		{name: "validation", err: fmt.Errorf("%w: amount is required", domain.ErrValidation), wantStatus: http.StatusUnprocessableEntity},
		{name: "upstream failure", err: errors.New("gateway exploded"), wantStatus: http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockSubmitter := new(MockSubmitter)
			h := NewConverterHandler(new(MockConverter), mockSubmitter)

			mockSubmitter.On("Submit", mock.Anything).Return("", tc.err).Once()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil)
			rr := httptest.NewRecorder()

			h.Submit(rr, req)

			require.Equal(t, tc.wantStatus, rr.Code)
			var ej errorJSON
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
			require.NotEmpty(t, ej.Error)
			mockSubmitter.AssertExpectations(t)
		})
	}
}
