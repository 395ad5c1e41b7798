package paystack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyTransactionSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/ref-123", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"success","amount":150000}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", time.Second)
	verification, err := client.VerifyTransaction(context.Background(), "ref-123")
	require.NoError(t, err)
	assert.True(t, verification.Paid)
	assert.True(t, verification.Amount.Equal(decimal.NewFromInt(1500)), "expected 1500 naira, got %s", verification.Amount)
}

func TestVerifyTransactionFailedPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"abandoned","amount":150000}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", time.Second)
	verification, err := client.VerifyTransaction(context.Background(), "ref-123")
	require.NoError(t, err)
	assert.False(t, verification.Paid)
}

func TestDeclinedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"status":false,"message":"Could not resolve account name"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", time.Second)
	_, err := client.ResolveBankAccount(context.Background(), "0001112223", "058")
	require.ErrorIs(t, err, ErrDeclined)
	assert.Contains(t, err.Error(), "Could not resolve account name")
}

func TestGatewayTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", 50*time.Millisecond)
	err := client.InitiateTransfer(context.Background(), "RCP_x", decimal.NewFromInt(5000), "wd-1")
	require.ErrorIs(t, err, ErrGatewayTimeout)
}

func TestCreateTransferRecipient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transferrecipient", r.URL.Path)
		w.Write([]byte(`{"status":true,"message":"Transfer recipient created successfully","data":{"recipient_code":"RCP_abc123"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", time.Second)
	code, err := client.CreateTransferRecipient(context.Background(), ResolvedAccount{
		AccountNumber: "0001112223",
		AccountName:   "ADA OBI",
		BankCode:      "058",
	})
	require.NoError(t, err)
	assert.Equal(t, "RCP_abc123", code)
}

func TestListBanks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"message":"Banks retrieved","data":[{"name":"Guaranty Trust Bank","code":"058","slug":"gtbank"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", time.Second)
	banks, err := client.ListBanks(context.Background())
	require.NoError(t, err)
	require.Len(t, banks, 1)
	assert.Equal(t, "058", banks[0].Code)
}
