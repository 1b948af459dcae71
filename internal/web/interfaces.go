package web

import (
	"context"

	"github.com/Adda-Baaj/noobcash-web/internal/storage"
	"github.com/Adda-Baaj/noobcash-web/internal/wallet"
)

// ViewClient is the wallet surface the pages need.
type ViewClient interface {
	SenderID() string
	FetchBalance(ctx context.Context) wallet.BalanceResult
	FetchHistory(ctx context.Context) wallet.HistoryResult
	SubmitTransaction(ctx context.Context, receiver, amount string) wallet.SubmissionResult
}

// ReceiptLister exposes recent journal entries for operators.
type ReceiptLister interface {
	Recent(limit int) ([]storage.Receipt, error)
}
