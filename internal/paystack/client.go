package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrGatewayTimeout indicates the gateway did not answer within the configured
// request timeout. The ledger record is left pending or failed by the caller;
// the operation is safe to retry with the same reference.
var ErrGatewayTimeout = errors.New("payment gateway timeout")

// ErrDeclined indicates the gateway answered with a non-success status. These
// responses are failures, never retried automatically.
var ErrDeclined = errors.New("payment gateway declined request")

// Client talks to the Paystack REST API using a bearer secret key. All calls
// are synchronous network requests bounded by the configured timeout.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client
}

// NewClient constructs a Paystack API client.
func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secretKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Verification is the outcome of verifying an externally collected payment.
type Verification struct {
	Status string
	Amount decimal.Decimal
	Paid   bool
}

// ResolvedAccount carries bank-recipient metadata for a destination account.
type ResolvedAccount struct {
	AccountNumber string
	AccountName   string
	BankCode      string
}

// Bank describes a supported settlement bank.
type Bank struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Slug string `json:"slug"`
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// VerifyTransaction checks the status of a payment reference. Amounts are
// reported by Paystack in kobo and converted to naira here.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (Verification, error) {
	var data struct {
		Status string `json:"status"`
		Amount int64  `json:"amount"`
	}
	path := "/transaction/verify/" + url.PathEscape(reference)
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return Verification{}, err
	}
	return Verification{
		Status: data.Status,
		Amount: fromKobo(data.Amount),
		Paid:   data.Status == "success",
	}, nil
}

// ResolveBankAccount resolves the holder name for a destination bank account.
func (c *Client) ResolveBankAccount(ctx context.Context, accountNumber, bankCode string) (ResolvedAccount, error) {
	var data struct {
		AccountNumber string `json:"account_number"`
		AccountName   string `json:"account_name"`
	}
	path := fmt.Sprintf("/bank/resolve?account_number=%s&bank_code=%s", url.QueryEscape(accountNumber), url.QueryEscape(bankCode))
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return ResolvedAccount{}, err
	}
	return ResolvedAccount{
		AccountNumber: data.AccountNumber,
		AccountName:   data.AccountName,
		BankCode:      bankCode,
	}, nil
}

// CreateTransferRecipient registers the resolved account as a transfer
// recipient and returns its handle.
func (c *Client) CreateTransferRecipient(ctx context.Context, account ResolvedAccount) (string, error) {
	payload := map[string]string{
		"type":           "nuban",
		"name":           account.AccountName,
		"account_number": account.AccountNumber,
		"bank_code":      account.BankCode,
		"currency":       "NGN",
	}
	var data struct {
		RecipientCode string `json:"recipient_code"`
	}
	if err := c.do(ctx, http.MethodPost, "/transferrecipient", payload, &data); err != nil {
		return "", err
	}
	return data.RecipientCode, nil
}

// InitiateTransfer asks the gateway to move funds to the recipient. Acceptance
// here is the signal that allows the caller to debit the wallet.
func (c *Client) InitiateTransfer(ctx context.Context, recipient string, amount decimal.Decimal, reference string) error {
	payload := map[string]any{
		"source":    "balance",
		"amount":    toKobo(amount),
		"reference": reference,
		"recipient": recipient,
		"reason":    "Funds withdrawal",
	}
	return c.do(ctx, http.MethodPost, "/transfer", payload, nil)
}

// ListBanks returns the banks supported for withdrawals.
func (c *Client) ListBanks(ctx context.Context) ([]Bank, error) {
	var banks []Bank
	if err := c.do(ctx, http.MethodGet, "/bank", nil, &banks); err != nil {
		return nil, err
	}
	return banks, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(encoded))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%s %s: %w", method, path, ErrGatewayTimeout)
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Status {
		msg := envelope.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%w: %s", ErrDeclined, msg)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode gateway payload: %w", err)
		}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func fromKobo(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(100))
}

func toKobo(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
