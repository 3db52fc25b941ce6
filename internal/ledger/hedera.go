package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/shopspring/decimal"

	"dchanga/internal/config"
)

// tinybarsPerHbar is the number of tinybars in one HBAR.
var tinybarsPerHbar = decimal.NewFromInt(100_000_000)

// HederaConnector opens clients against the Hedera network named in config.
type HederaConnector struct {
	cfg config.LedgerConfig
}

// NewHederaConnector creates a connector for the given operator configuration.
func NewHederaConnector(cfg config.LedgerConfig) *HederaConnector {
	return &HederaConnector{cfg: cfg}
}

// Connect builds a Hedera client with the configured operator.
func (c *HederaConnector) Connect(ctx context.Context) (Client, error) {
	if !c.cfg.Configured() {
		return nil, ErrNotConfigured
	}

	accountID, err := hedera.AccountIDFromString(c.cfg.AccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: operator account id: %v", ErrNotConfigured, err)
	}

	privateKey, err := hedera.PrivateKeyFromStringEd25519(c.cfg.PrivateKey)
	if err != nil {
		// The parse error may echo key material; do not wrap it.
		return nil, fmt.Errorf("%w: operator private key is not a valid ED25519 key", ErrNotConfigured)
	}

	var client *hedera.Client
	switch c.cfg.Network {
	case config.NetworkMainnet:
		client = hedera.ClientForMainnet()
	case config.NetworkTestnet, "":
		client = hedera.ClientForTestnet()
	default:
		return nil, fmt.Errorf("%w: unknown network %q", ErrNotConfigured, c.cfg.Network)
	}
	client.SetOperator(accountID, privateKey)

	timeout := c.cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &hederaClient{
		client:     client,
		accountID:  accountID,
		privateKey: privateKey,
		timeout:    timeout,
	}, nil
}

type hederaClient struct {
	client     *hedera.Client
	accountID  hedera.AccountID
	privateKey hedera.PrivateKey
	timeout    time.Duration
}

func (h *hederaClient) AccountID() string {
	return h.accountID.String()
}

func (h *hederaClient) Balance(ctx context.Context) (decimal.Decimal, error) {
	defer startSegment(ctx, "Ledger/Balance").End()

	var balance hedera.AccountBalance
	err := h.call(ctx, func() error {
		var err error
		balance, err = hedera.NewAccountBalanceQuery().
			SetAccountID(h.accountID).
			Execute(h.client)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}

	return decimal.NewFromInt(balance.Hbars.AsTinybar()).Div(tinybarsPerHbar), nil
}

func (h *hederaClient) Transfer(ctx context.Context, recipient string, amount decimal.Decimal) (string, error) {
	if err := ValidateTransfer(recipient, amount); err != nil {
		return "", err
	}
	recipientID, err := hedera.AccountIDFromString(recipient)
	if err != nil {
		return "", ErrInvalidRecipient
	}

	defer startSegment(ctx, "Ledger/Transfer").End()

	tinybars := amount.Mul(tinybarsPerHbar).IntPart()
	if tinybars <= 0 {
		return "", ErrInvalidAmount
	}

	var txID string
	err = h.call(ctx, func() error {
		tx, err := hedera.NewTransferTransaction().
			AddHbarTransfer(h.accountID, hedera.HbarFromTinybar(-tinybars)).
			AddHbarTransfer(recipientID, hedera.HbarFromTinybar(tinybars)).
			FreezeWith(h.client)
		if err != nil {
			return err
		}

		resp, err := tx.Sign(h.privateKey).Execute(h.client)
		if err != nil {
			return err
		}

		if _, err := resp.GetReceipt(h.client); err != nil {
			return err
		}

		txID = resp.TransactionID.String()
		return nil
	})
	if err != nil {
		return "", err
	}

	return txID, nil
}

func (h *hederaClient) Close() error {
	return h.client.Close()
}

// call runs an SDK operation, bounding it by the client timeout and ctx.
// The SDK has no context support, so an expired call is abandoned rather
// than interrupted; its goroutine exits once the SDK returns.
func (h *hederaClient) call(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return translateSDKError(err)
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
}

func translateSDKError(err error) error {
	if err == nil {
		return nil
	}

	var precheck hedera.ErrHederaPreCheckStatus
	if errors.As(err, &precheck) && insufficientStatus(precheck.Status) {
		return fmt.Errorf("%w: %s", ErrInsufficientBalance, precheck.Status)
	}

	var receipt hedera.ErrHederaReceiptStatus
	if errors.As(err, &receipt) && insufficientStatus(receipt.Status) {
		return fmt.Errorf("%w: %s", ErrInsufficientBalance, receipt.Status)
	}

	log.Printf("[ledger] sdk call failed: %v", err)
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func insufficientStatus(status hedera.Status) bool {
	return status == hedera.StatusInsufficientPayerBalance || status == hedera.StatusInsufficientAccountBalance
}

func startSegment(ctx context.Context, name string) *newrelic.Segment {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return nil
	}
	return txn.StartSegment(name)
}
