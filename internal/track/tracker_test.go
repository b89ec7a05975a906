package track

import (
	"context"
	"errors"
	"testing"
	"time"

	"eternalpay/internal/domain"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testPollInterval = 10 * time.Millisecond

func pixServiceFixture(brClient *MockBRCodeClient) *PixService {
	return NewPixService(brClient, newMapCache(), merchantFixture(), qrBaseURL)
}

func waitDone(t *testing.T, tr *Tracker) {
	t.Helper()
	select {
	case <-tr.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("tracker did not stop in time")
	}
}

func TestTracker_PendingToCompleted(t *testing.T) {
	client := new(MockTransactionClient)
	client.On("Get", mock.Anything, "TX123").Return(transactionFixture(domain.StatusPending), nil).Once()
	client.On("Get", mock.Anything, "TX123").Return(transactionFixture(domain.StatusProcessing), nil).Once()
	client.On("Get", mock.Anything, "TX123").Return(transactionFixture(domain.StatusCompleted), nil).Once()

	brClient := new(MockBRCodeClient)
	brClient.On("FetchBRCode", mock.Anything, mock.Anything).Return("00020126...", nil)

	tr := NewTracker("TX123", client, pixServiceFixture(brClient), testPollInterval)
	tr.Start(context.Background())
	waitDone(t, tr)

	v := tr.View()
	require.True(t, v.Observed)
	require.Equal(t, domain.StatusCompleted, v.Status)
	require.Equal(t, "Payment completed successfully!", v.Message)
	require.True(t, v.Terminal())
	// Terminal observations carry no payment artifact.
	require.Nil(t, v.Pix)

	// The loop stopped at the terminal status; no further polls happen.
	client.AssertNumberOfCalls(t, "Get", 3)
}

func TestTracker_PendingGeneratesPixArtifact(t *testing.T) {
	client := new(MockTransactionClient)
	client.On("Get", mock.Anything, "TX123").Return(transactionFixture(domain.StatusPending), nil).Once()
	client.On("Get", mock.Anything, "TX123").Return(transactionFixture(domain.StatusCompleted), nil)

	brClient := new(MockBRCodeClient)
	brClient.On("FetchBRCode", mock.Anything, mock.Anything).Return("00020126BR.GOV.BCB.PIX...", nil).Once()

	tr := NewTracker("TX123", client, pixServiceFixture(brClient), testPollInterval)
	tr.Start(context.Background())

	// The first observation is pending and must carry the artifact.
	require.Eventually(t, func() bool {
		v := tr.View()
		return v.Observed && v.Pix != nil
	}, 2*time.Second, time.Millisecond)

	code, err := tr.PaymentCode()
	require.NoError(t, err)
	require.Equal(t, "00020126BR.GOV.BCB.PIX...", code)

	waitDone(t, tr)
}

func TestTracker_PaymentCodeUnavailableBeforeItArrives(t *testing.T) {
	client := new(MockTransactionClient)
	client.On("Get", mock.Anything, "TX123").Return(transactionFixture(domain.StatusPending), nil)

	brClient := new(MockBRCodeClient)
	brClient.On("FetchBRCode", mock.Anything, mock.Anything).Return("", errors.New("brcode service down"))

	tr := NewTracker("TX123", client, pixServiceFixture(brClient), testPollInterval)

	_, err := tr.PaymentCode()
	require.ErrorIs(t, err, domain.ErrCodeUnavailable)

	tr.Start(context.Background())
	require.Eventually(t, func() bool {
		return tr.View().Pix != nil
	}, 2*time.Second, time.Millisecond)

	// The QR image is there but the copyable code still is not.
	_, err = tr.PaymentCode()
	require.ErrorIs(t, err, domain.ErrCodeUnavailable)

	tr.Stop()
}

func TestTracker_CancelledFromPending(t *testing.T) {
	client := new(MockTransactionClient)
	client.On("Get", mock.Anything, "TX123").Return(transactionFixture(domain.StatusPending), nil).Once()
	client.On("Get", mock.Anything, "TX123").Return(transactionFixture(domain.StatusCancelled), nil).Once()

	brClient := new(MockBRCodeClient)
	brClient.On("FetchBRCode", mock.Anything, mock.Anything).Return("00020126...", nil)

	tr := NewTracker("TX123", client, pixServiceFixture(brClient), testPollInterval)
	tr.Start(context.Background())
	waitDone(t, tr)

	v := tr.View()
	require.Equal(t, domain.StatusCancelled, v.Status)
	require.Equal(t, "Transaction cancelled", v.Message)
	client.AssertNumberOfCalls(t, "Get", 2)
}

func TestTracker_PollFailureToleratedUntilNextAttempt(t *testing.T) {
	client := new(MockTransactionClient)
	client.On("Get", mock.Anything, "TX123").Return(domain.Transaction{}, errors.New("gateway timeout")).Once()
	client.On("Get", mock.Anything, "TX123").Return(transactionFixture(domain.StatusCompleted), nil).Once()

	tr := NewTracker("TX123", client, nil, testPollInterval)
	tr.Start(context.Background())
	waitDone(t, tr)

	v := tr.View()
	require.Equal(t, domain.StatusCompleted, v.Status)
	client.AssertNumberOfCalls(t, "Get", 2)
}

func TestTracker_NotFoundStopsPolling(t *testing.T) {
	client := new(MockTransactionClient)
	client.On("Get", mock.Anything, "NOPE").Return(domain.Transaction{}, domain.ErrTransactionNotFound).Once()

	tr := NewTracker("NOPE", client, nil, testPollInterval)
	tr.Start(context.Background())
	waitDone(t, tr)

	v := tr.View()
	require.True(t, v.NotFound)
	require.False(t, v.Observed)
	client.AssertNumberOfCalls(t, "Get", 1)
}

func TestTracker_StopCancelsLoop(t *testing.T) {
	client := new(MockTransactionClient)
	client.On("Get", mock.Anything, "TX123").Return(transactionFixture(domain.StatusProcessing), nil)

	tr := NewTracker("TX123", client, nil, time.Hour)
	tr.Start(context.Background())

	require.Eventually(t, func() bool {
		return tr.View().Observed
	}, 2*time.Second, time.Millisecond)

	tr.Stop()
	waitDone(t, tr)
	require.Equal(t, domain.StatusProcessing, tr.View().Status)
}

func TestTracker_TerminalViewNeverRegresses(t *testing.T) {
	client := new(MockTransactionClient)
	client.On("Get", mock.Anything, "TX123").Return(transactionFixture(domain.StatusCompleted), nil).Once()
	client.On("Get", mock.Anything, "TX123").Return(transactionFixture(domain.StatusProcessing), nil).Once()

	tr := NewTracker("TX123", client, nil, testPollInterval)

	require.True(t, tr.pollOnce(context.Background()))
	require.Equal(t, domain.StatusCompleted, tr.View().Status)

	// A stale non-terminal observation after the terminal one is discarded.
	require.True(t, tr.pollOnce(context.Background()))
	require.Equal(t, domain.StatusCompleted, tr.View().Status)
}
